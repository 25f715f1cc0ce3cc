package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRejectsEmptyCatalog(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Create(nil, TripConstraints{})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestCreateAssignsWellFormedIDs(t *testing.T) {
	registry := NewRegistry()
	catalog := testCatalog(1)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room, err := registry.Create(catalog, TripConstraints{})
		require.NoError(t, err)

		assert.Len(t, room.ID, roomIDLength)
		for _, c := range room.ID {
			assert.Contains(t, roomIDAlphabet, string(c))
		}
		assert.False(t, seen[room.ID], "duplicate room id %s", room.ID)
		seen[room.ID] = true
	}
}

func TestGetReturnsCreatedRoom(t *testing.T) {
	registry := NewRegistry()

	room, err := registry.Create(testCatalog(1), TripConstraints{})
	require.NoError(t, err)

	got, err := registry.Get(room.ID)
	require.NoError(t, err)
	assert.Same(t, room, got)
}

func TestGetUnknownRoom(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("NOPE00")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	registry := NewRegistry()

	room, err := registry.Create(testCatalog(1), TripConstraints{})
	require.NoError(t, err)

	registry.Remove(room.ID)
	registry.Remove(room.ID)

	_, err = registry.Get(room.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCreateExhaustsCollidingIDSpace(t *testing.T) {
	registry := NewRegistry()
	registry.newID = func() (string, error) { return "AAAAAA", nil }

	_, err := registry.Create(testCatalog(1), TripConstraints{})
	require.NoError(t, err)

	_, err = registry.Create(testCatalog(1), TripConstraints{})
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
}

func TestRoomIDUsesUppercaseAlphabet(t *testing.T) {
	id, err := newRoomID()
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(id), id)
}
