package server

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"shootclub/pkg/logger"
)

// Typed admission results for the handshake path.
var (
	// ErrRoomNotFound means no room is registered under the code.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull means the room already seats two players.
	ErrRoomFull = errors.New("room is full")
	// ErrRoomClosed means the room is no longer accepting players.
	ErrRoomClosed = errors.New("room is closed")
)

const (
	roomCodeLen   = 4
	roomCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Registry is the process-wide room table keyed by room code.
type Registry struct {
	mu           sync.RWMutex
	rooms        map[string]*Room
	tickInterval time.Duration
	logger       *logger.Logger
}

// NewRegistry creates an empty registry. tickInterval is passed to
// every room it creates.
func NewRegistry(tickInterval time.Duration) *Registry {
	return &Registry{
		rooms:        make(map[string]*Room),
		tickInterval: tickInterval,
		logger:       logger.Server,
	}
}

// CreateRoom generates a fresh room code, starts a room under it and
// returns the room. Codes are retried under the lock until unique; with
// a 36^4 code space collisions are rare at any realistic room count.
func (reg *Registry) CreateRoom() *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var code string
	for {
		code = generateRoomCode()
		if _, taken := reg.rooms[code]; !taken {
			break
		}
	}

	room := NewRoom(code, reg.tickInterval, time.Now().UnixNano(), reg.Remove)
	reg.rooms[code] = room
	reg.logger.Info("Room created with code %s", code)
	return room
}

// Get returns the room registered under code.
func (reg *Registry) Get(code string) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove unregisters a room. Idempotent; the room itself is shut down
// separately.
func (reg *Registry) Remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[code]; ok {
		delete(reg.rooms, code)
		reg.logger.Info("Room %s removed", code)
	}
}

// Count returns the number of registered rooms.
func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Shutdown stops every registered room and empties the registry.
func (reg *Registry) Shutdown() {
	reg.mu.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.rooms = make(map[string]*Room)
	reg.mu.Unlock()

	for _, r := range rooms {
		r.Shutdown()
	}
}

// generateRoomCode returns a short uppercase alphanumeric code.
func generateRoomCode() string {
	buf := make([]byte, roomCodeLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = roomCodeChars[int(b)%len(roomCodeChars)]
	}
	return string(buf)
}
