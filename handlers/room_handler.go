package handlers

import (
	"net/http"
	"strings"

	"tripquiz/services"

	"github.com/gin-gonic/gin"
)

// CatalogSource supplies the question catalogs rooms are created from.
type CatalogSource interface {
	Snapshot(id uint) ([]services.Question, error)
	Default() []services.Question
}

type RoomHandler struct {
	registry *services.Registry
	catalogs CatalogSource
}

func NewRoomHandler(registry *services.Registry, catalogs CatalogSource) *RoomHandler {
	return &RoomHandler{
		registry: registry,
		catalogs: catalogs,
	}
}

type CreateRoomRequest struct {
	CatalogID *uint  `json:"catalogId"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog := h.catalogs.Default()
	if req.CatalogID != nil {
		var err error
		catalog, err = h.catalogs.Snapshot(*req.CatalogID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catalog not found"})
			return
		}
	}

	room, err := h.registry.Create(catalog, services.TripConstraints{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"gameId": room.ID})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	id := strings.ToUpper(c.Param("id"))
	room, err := h.registry.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          room.ID,
		"state":       room.Phase().String(),
		"playerCount": room.PlayerCount(),
	})
}
