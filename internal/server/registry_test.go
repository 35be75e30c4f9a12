package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(10 * time.Millisecond)
}

func TestCreateRoomGeneratesDistinctCodes(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Shutdown()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		room := reg.CreateRoom()
		code := room.Code()
		require.Len(t, code, roomCodeLen)
		for _, r := range code {
			assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
				"code %q must be uppercase alphanumeric", code)
		}
		assert.False(t, seen[code], "codes must stay unique while registered")
		seen[code] = true
	}
	assert.Equal(t, 200, reg.Count())
}

func TestGetUnknownCode(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Shutdown()

	_, err := reg.Get("ZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetReturnsRegisteredRoom(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Shutdown()

	created := reg.CreateRoom()
	got, err := reg.Get(created.Code())
	require.NoError(t, err)
	assert.Same(t, created, got)
	assert.Equal(t, WaitingForPlayers, got.State())
}

func TestRemoveIsIdempotent(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Shutdown()

	room := reg.CreateRoom()
	reg.Remove(room.Code())
	assert.Equal(t, 0, reg.Count())

	reg.Remove(room.Code()) // second remove must not panic or error
	assert.Equal(t, 0, reg.Count())

	_, err := reg.Get(room.Code())
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestShutdownClosesAllRooms(t *testing.T) {
	reg := newTestRegistry()
	rooms := []*Room{reg.CreateRoom(), reg.CreateRoom(), reg.CreateRoom()}

	reg.Shutdown()
	assert.Equal(t, 0, reg.Count())
	for _, r := range rooms {
		assert.Equal(t, Closed, r.State())
	}
}
