package main

import (
	"log"

	"tripquiz/config"
	"tripquiz/handlers"
	"tripquiz/middleware"
	"tripquiz/models"
	"tripquiz/routes"
	"tripquiz/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is not set; destination suggestions cannot function")
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Catalog{},
		&models.CatalogQuestion{},
		&models.CatalogOption{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize services
	catalogService := services.NewCatalogService(db)
	if err := catalogService.EnsureDefault(); err != nil {
		log.Printf("Failed to seed default catalog: %v", err)
	}

	registry := services.NewRegistry()
	skyscanner := services.NewSkyscannerClient(cfg.SkyscannerAPIKey)
	gemini := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	unsplash := services.NewUnsplashClient(cfg.UnsplashAPIKey, redisClient)
	resultsService := services.NewResultsService(gemini, skyscanner, unsplash, redisClient, models.CountryNames())

	// Initialize WebSocket hub
	hub := services.NewHub(registry, resultsService, skyscanner)
	go hub.Run()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(registry, catalogService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	geoHandler := handlers.NewGeoHandler()

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, roomHandler, catalogHandler, geoHandler, hub)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.BindAddress + ":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
