package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/cart"
	"github.com/tableside/restaurant-order/config"
	"github.com/tableside/restaurant-order/database"
	"github.com/tableside/restaurant-order/middlewares"
	"github.com/tableside/restaurant-order/models"
	"github.com/tableside/restaurant-order/orderflow"
	"github.com/tableside/restaurant-order/router"
	"github.com/tableside/restaurant-order/services"
	"github.com/tableside/restaurant-order/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// MySQL deployments get change triggers; sqlite is skipped inside.
	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error installing change triggers: %v", err)
	}

	monitor := services.NewChangeMonitor(db)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	carts := cart.NewStore(db)
	policy := orderflow.FromEnv(os.Getenv("ORDER_FLOW_POLICY"))

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, carts, policy)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Menu{},
		&models.Order{},
		&models.OrderLine{},
		&models.CartSnapshot{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Auto migration failed: %v", err)
	}
}
