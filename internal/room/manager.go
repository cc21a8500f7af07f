package room

import (
	"log/slog"
	"sync"

	"github.com/ugaemi/parkingdrive-server/internal/game"
	"github.com/ugaemi/parkingdrive-server/internal/store"
)

// Manager manages all active rooms.
type Manager struct {
	rooms   map[string]*Room // code -> room
	cfg     game.BoardConfig
	results store.ResultStore
	mu      sync.RWMutex
}

// NewManager creates a room manager whose rooms build boards from cfg and
// record finished games in results (may be nil).
func NewManager(cfg game.BoardConfig, results store.ResultStore) *Manager {
	return &Manager{
		rooms:   make(map[string]*Room),
		cfg:     cfg,
		results: results,
	}
}

// CreateRoom creates a new room and returns it.
func (m *Manager) CreateRoom() *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := make(map[string]bool, len(m.rooms))
	for code := range m.rooms {
		existing[code] = true
	}

	code := GenerateCode(existing)
	room := NewRoom(code, m.cfg, m.results)
	m.rooms[code] = room

	slog.Info("room created", "code", code)
	return room
}

// GetRoom returns a room by its code.
func (m *Manager) GetRoom(code string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[NormalizeCode(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// RemoveRoom removes a room by its code, stopping any game in progress.
func (m *Manager) RemoveRoom(code string) {
	m.mu.Lock()
	r, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()

	if ok {
		r.StopGame()
	}
	slog.Info("room removed", "code", code)
}

// RoomCount returns the number of active rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// FindRoomByPlayerID finds the room containing a player.
func (m *Manager) FindRoomByPlayerID(playerID string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, room := range m.rooms {
		if room.HasPlayer(playerID) {
			return room
		}
	}
	return nil
}

// Shutdown stops every game in progress.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	for _, r := range rooms {
		r.StopGame()
	}
	slog.Info("rooms shut down", "count", len(rooms))
}
