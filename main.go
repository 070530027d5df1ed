package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/gastro-api/config"
	"github.com/yeremiapane/gastro-api/database"
	"github.com/yeremiapane/gastro-api/router"
	"github.com/yeremiapane/gastro-api/utils"
)

func main() {
	cfg := config.Load()
	utils.InitLogger(cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	r := router.SetupRouter(db, cfg)

	utils.InfoLogger.WithField("policy", cfg.ReservationPolicy).Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
