package handlers

import (
	"net/http"
	"strconv"

	"tripquiz/services"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) CreateCatalog(c *gin.Context) {
	var req services.CreateCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	catalog, err := h.catalogService.CreateCatalog(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, catalog)
}

func (h *CatalogHandler) ListCatalogs(c *gin.Context) {
	catalogs, err := h.catalogService.ListCatalogs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, catalogs)
}

func (h *CatalogHandler) GetCatalogByID(c *gin.Context) {
	catalogID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog ID"})
		return
	}

	catalog, err := h.catalogService.GetCatalogByID(uint(catalogID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catalog not found"})
		return
	}

	c.JSON(http.StatusOK, catalog)
}
