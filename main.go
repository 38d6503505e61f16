package main

import (
	"log"

	"github.com/gamevault/gamevault/config"
	"github.com/gamevault/gamevault/controllers"
	"github.com/gamevault/gamevault/routes"
	"github.com/gamevault/gamevault/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Create bootstrap admin
	if err := controllers.EnsureAdminAccount(); err != nil {
		utils.LogError("Failed to create admin account: %v", err)
		log.Fatal("Failed to create admin account:", err)
	}

	// Create default category if none exists
	if err := controllers.EnsureDefaultCategory(); err != nil {
		utils.LogError("Failed to create default category: %v", err)
		log.Fatal("Failed to create default category:", err)
	}

	// Set up router
	router := routes.SetupRouter()

	utils.LogInfo("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
