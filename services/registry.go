package services

import (
	"crypto/rand"
	"fmt"
	"sync"
)

const (
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomIDLength   = 6
	maxIDAttempts  = 10
)

// Registry is the keyed store of all active rooms. Rooms live only in
// process memory; a room is removed once its player set empties.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	newID func() (string, error)
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		newID: newRoomID,
	}
}

// Create builds a waiting room around the given catalog. Identifier
// collisions are handled by resampling, capped at maxIDAttempts.
func (g *Registry) Create(catalog []Question, constraints TripConstraints) (*Room, error) {
	if len(catalog) == 0 {
		return nil, ErrInvalidCatalog
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := g.newID()
		if err != nil {
			return nil, fmt.Errorf("generating room id: %w", err)
		}
		if _, taken := g.rooms[id]; taken {
			continue
		}
		room := newRoom(id, catalog, constraints)
		g.rooms[id] = room
		return room, nil
	}
	return nil, ErrIDSpaceExhausted
}

func (g *Registry) Get(id string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	room, ok := g.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove is idempotent; removing an unknown id is a no-op.
func (g *Registry) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.rooms, id)
}

func newRoomID() (string, error) {
	buf := make([]byte, roomIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	id := make([]byte, roomIDLength)
	for i, b := range buf {
		id[i] = roomIDAlphabet[int(b)%len(roomIDAlphabet)]
	}
	return string(id), nil
}
