package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tripquiz/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogs struct {
	byID map[uint][]services.Question
}

func (f *fakeCatalogs) Snapshot(id uint) ([]services.Question, error) {
	catalog, ok := f.byID[id]
	if !ok {
		return nil, errors.New("catalog not found")
	}
	return catalog, nil
}

func (f *fakeCatalogs) Default() []services.Question {
	return []services.Question{{
		ID:      1,
		Text:    "Beach or mountains?",
		Options: []services.Option{{ID: 101, Text: "Beach"}, {ID: 102, Text: "Mountains"}},
	}}
}

func roomTestRouter(registry *services.Registry, catalogs CatalogSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(registry, catalogs)
	router := gin.New()
	router.POST("/api/rooms", handler.CreateRoom)
	router.GET("/api/rooms/:id", handler.GetRoom)
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateRoomWithDefaultCatalog(t *testing.T) {
	registry := services.NewRegistry()
	router := roomTestRouter(registry, &fakeCatalogs{})

	w := postJSON(router, "/api/rooms", map[string]any{
		"startDate": "2026-06-01",
		"endDate":   "2026-06-08",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		GameID string `json:"gameId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.GameID, 6)

	_, err := registry.Get(resp.GameID)
	assert.NoError(t, err)
}

func TestCreateRoomWithNamedCatalog(t *testing.T) {
	registry := services.NewRegistry()
	catalogs := &fakeCatalogs{byID: map[uint][]services.Question{
		7: {{ID: 9, Text: "City or countryside?", Options: []services.Option{{ID: 901, Text: "City"}}}},
	}}
	router := roomTestRouter(registry, catalogs)

	w := postJSON(router, "/api/rooms", map[string]any{
		"catalogId": 7,
		"startDate": "2026-06-01",
		"endDate":   "2026-06-08",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRoomUnknownCatalog(t *testing.T) {
	router := roomTestRouter(services.NewRegistry(), &fakeCatalogs{})

	w := postJSON(router, "/api/rooms", map[string]any{
		"catalogId": 99,
		"startDate": "2026-06-01",
		"endDate":   "2026-06-08",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Catalog not found")
}

func TestCreateRoomValidatesDates(t *testing.T) {
	router := roomTestRouter(services.NewRegistry(), &fakeCatalogs{})

	cases := []map[string]any{
		{},
		{"startDate": "2026-06-01"},
		{"startDate": "June 1st", "endDate": "2026-06-08"},
	}
	for _, body := range cases {
		w := postJSON(router, "/api/rooms", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestGetRoomSummary(t *testing.T) {
	registry := services.NewRegistry()
	router := roomTestRouter(registry, &fakeCatalogs{})

	room, err := registry.Create((&fakeCatalogs{}).Default(), services.TripConstraints{})
	require.NoError(t, err)
	_, err = room.Join("conn-1", "alice", "BCN", 500)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+strings.ToLower(room.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ID          string `json:"id"`
		State       string `json:"state"`
		PlayerCount int    `json:"playerCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, room.ID, resp.ID)
	assert.Equal(t, "waiting", resp.State)
	assert.Equal(t, 1, resp.PlayerCount)
}

func TestGetRoomUnknown(t *testing.T) {
	router := roomTestRouter(services.NewRegistry(), &fakeCatalogs{})

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/NOPE00", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
