package room

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/parkingdrive-server/internal/game"
)

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager(parkingBoard(), nil)

	r := m.CreateRoom()
	assert.Len(t, r.Code, codeLength)
	assert.Equal(t, 1, m.RoomCount())

	got, err := m.GetRoom(" " + strings.ToLower(r.Code) + "\n")
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = m.GetRoom("ZZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestManager_FindRoomByPlayerID(t *testing.T) {
	m := NewManager(parkingBoard(), nil)
	r := m.CreateRoom()
	p := game.NewPlayer("", "alice")
	require.NoError(t, r.AddPlayer(p, mockClient("c1")))

	assert.Same(t, r, m.FindRoomByPlayerID(p.ID))
	assert.Nil(t, m.FindRoomByPlayerID("nobody"))
}

func TestManager_RemoveRoomStopsGame(t *testing.T) {
	m := NewManager(parkingBoard(), nil)
	r := m.CreateRoom()
	p := game.NewPlayer("", "alice")
	require.NoError(t, r.AddPlayer(p, mockClient("c1")))
	require.NoError(t, r.StartGame(p.ID))

	m.RemoveRoom(r.Code)

	assert.Equal(t, 0, m.RoomCount())
	assert.Equal(t, game.StateEnded, r.CurrentState())
	select {
	case <-r.Loop().Done():
	default:
		t.Fatal("loop should have stopped")
	}
}

func TestManager_Shutdown(t *testing.T) {
	m := NewManager(parkingBoard(), nil)
	var rooms []*Room
	for i := 0; i < 3; i++ {
		r := m.CreateRoom()
		p := game.NewPlayer("", "host")
		require.NoError(t, r.AddPlayer(p, mockClient(p.ID)))
		require.NoError(t, r.StartGame(p.ID))
		rooms = append(rooms, r)
	}

	m.Shutdown()

	for _, r := range rooms {
		assert.Equal(t, game.StateEnded, r.CurrentState())
	}
}

func TestGenerateCode(t *testing.T) {
	existing := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := GenerateCode(existing)
		require.Len(t, code, codeLength)
		assert.False(t, existing[code], "duplicate code %s", code)
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "O")
		assert.Equal(t, strings.ToUpper(code), code)
		existing[code] = true
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcd", "ABCD"},
		{"  XyZw ", "XYZW"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCode(tt.in))
		})
	}
}
