package routes

import (
	"log"
	"net/http"

	"tripquiz/handlers"
	"tripquiz/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	roomHandler *handlers.RoomHandler,
	catalogHandler *handlers.CatalogHandler,
	geoHandler *handlers.GeoHandler,
	hub *services.Hub,
) {
	// API routes
	api := router.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("/:id", roomHandler.GetRoom)
		}

		catalogs := api.Group("/catalogs")
		{
			catalogs.GET("", catalogHandler.ListCatalogs)
			catalogs.POST("", catalogHandler.CreateCatalog)
			catalogs.GET("/:id", catalogHandler.GetCatalogByID)
		}

		geo := api.Group("/geo")
		{
			geo.GET("/country/:name", geoHandler.GetCountry)
			geo.GET("/continent/:name", geoHandler.GetContinent)
		}
	}

	// WebSocket endpoint; joining a game happens via a joinGame message
	// once the connection is up.
	router.GET("/ws", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}
		hub.RegisterClient(conn)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
