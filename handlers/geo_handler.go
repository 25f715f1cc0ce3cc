package handlers

import (
	"net/http"

	"tripquiz/models"

	"github.com/gin-gonic/gin"
)

// GeoHandler serves lookups against the static country/continent
// reference table.
type GeoHandler struct{}

func NewGeoHandler() *GeoHandler {
	return &GeoHandler{}
}

func (h *GeoHandler) GetCountry(c *gin.Context) {
	country := models.SearchCountryByName(c.Param("name"))
	if country == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
		return
	}

	c.JSON(http.StatusOK, country)
}

func (h *GeoHandler) GetContinent(c *gin.Context) {
	continent := models.SearchContinentByName(c.Param("name"))
	if continent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Continent not found"})
		return
	}

	c.JSON(http.StatusOK, continent)
}
