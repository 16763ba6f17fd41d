package router

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tableside/restaurant-order/cart"
	"github.com/tableside/restaurant-order/controllers"
	"github.com/tableside/restaurant-order/middlewares"
	"github.com/tableside/restaurant-order/orderflow"
	"github.com/tableside/restaurant-order/services"
)

func SetupRouter(db *gorm.DB, carts *cart.Store, policy orderflow.Policy) *gin.Engine {
	r := gin.Default()

	// Menu images are served from the upload directory.
	workDir, _ := os.Getwd()
	uploadsPath := filepath.Join(workDir, "public", "uploads")
	r.Static("/uploads", uploadsPath)

	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			// Only image files may be fetched from uploads.
			if !strings.HasSuffix(strings.ToLower(c.Request.URL.Path), ".jpg") &&
				!strings.HasSuffix(strings.ToLower(c.Request.URL.Path), ".jpeg") &&
				!strings.HasSuffix(strings.ToLower(c.Request.URL.Path), ".png") &&
				!strings.HasSuffix(strings.ToLower(c.Request.URL.Path), ".gif") &&
				!strings.HasSuffix(strings.ToLower(c.Request.URL.Path), ".webp") {
				c.AbortWithStatus(403)
				return
			}
		}
		c.Next()
	})

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	orderSvc := services.NewOrderService(db, carts)

	userCtrl := controllers.NewUserController(db)
	menuCtrl := controllers.NewMenuController(db)
	cartCtrl := controllers.NewCartController(db, carts, orderSvc)
	orderCtrl := controllers.NewOrderController(db, policy)
	reportCtrl := controllers.NewReportController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (no auth) --
	r.GET("/menus", menuCtrl.GetCustomerMenus)

	r.GET("/cart", cartCtrl.GetCart)
	r.POST("/cart/items", cartCtrl.AddItem)
	r.DELETE("/cart/items/:index", cartCtrl.RemoveItem)
	r.POST("/cart/checkout", cartCtrl.Checkout)

	// Scanning a table QR binds the table to the cart context.
	r.POST("/tables/:table_no/scan", cartCtrl.SetTable)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)
	auth.POST("/logout", userCtrl.Logout)

	// MENUS (staff/admin)
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// ORDERS (staff/admin)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/board", orderCtrl.GetBoard)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateStatus)

	// REPORTS (staff/admin)
	auth.GET("/reports/sales", reportCtrl.GetSalesReport)
	auth.GET("/reports/sales/export", reportCtrl.ExportCSV)
	auth.GET("/reports/sales/export-pdf", reportCtrl.ExportPDF)
	auth.GET("/reports/sales/chart", reportCtrl.ExportChart)

	// WebSocket endpoint with its own auth middleware
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/board", controllers.BoardStreamHandler)
	}

	return r
}
