package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geoTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewGeoHandler()
	router := gin.New()
	router.GET("/api/geo/country/:name", handler.GetCountry)
	router.GET("/api/geo/continent/:name", handler.GetContinent)
	return router
}

func TestGetCountry(t *testing.T) {
	router := geoTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/geo/country/spain", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Name    string `json:"name"`
		IsoCode string `json:"isoCode"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Spain", resp.Name)
	assert.Equal(t, "ES", resp.IsoCode)
}

func TestGetCountryUnknown(t *testing.T) {
	router := geoTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/geo/country/atlantis", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Country not found")
}

func TestGetContinent(t *testing.T) {
	router := geoTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/geo/continent/europe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Europe", resp.Name)
	assert.Equal(t, "PLACE_TYPE_CONTINENT", resp.Type)
}

func TestGetContinentUnknown(t *testing.T) {
	router := geoTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/geo/continent/pangaea", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
