package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database named by the environment. DB_DRIVER=sqlite
// (or an unset DB_HOST) selects a local sqlite file, which keeps
// development and CI self-contained; anything else builds a MySQL DSN.
func InitDB() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") == "sqlite" || os.Getenv("DB_HOST") == "" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "restaurant_order.db"
		}
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		dbPort(),
		os.Getenv("DB_NAME"),
	)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

func dbPort() string {
	if p := os.Getenv("DB_PORT"); p != "" {
		return p
	}
	return "3306"
}
