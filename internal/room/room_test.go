package room

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugaemi/parkingdrive-server/internal/game"
	"github.com/ugaemi/parkingdrive-server/internal/store"
	"github.com/ugaemi/parkingdrive-server/internal/ws"
)

// mockClient creates a ws.Client with a buffered Send channel for testing.
func mockClient(id string) *ws.Client {
	return &ws.Client{
		ID:   id,
		Send: make(chan []byte, 256),
	}
}

// drainMessages reads all pending messages from a client's send channel.
func drainMessages(client *ws.Client) []ws.Message {
	var msgs []ws.Message
	for {
		select {
		case data := <-client.Send:
			var msg ws.Message
			if err := json.Unmarshal(data, &msg); err == nil {
				msgs = append(msgs, msg)
			}
		default:
			return msgs
		}
	}
}

// findMessageByType finds the first message of a given type.
func findMessageByType(msgs []ws.Message, msgType string) *ws.Message {
	for _, m := range msgs {
		if m.Type == msgType {
			return &m
		}
	}
	return nil
}

// parkingBoard is a narrow board where reversing straight down parks the car.
func parkingBoard() game.BoardConfig {
	cfg := game.DefaultBoardConfig()
	cfg.Width = 50
	cfg.Height = 200
	cfg.ObstacleCount = 0
	cfg.Car.Speed = 1000
	cfg.Car.TickPeriod = 10 * time.Millisecond
	return cfg
}

func setupTestRoom(cfg game.BoardConfig, results store.ResultStore) (*Room, []*game.Player, []*ws.Client) {
	r := NewRoom("TEST", cfg, results)
	c1 := mockClient("client1")
	c2 := mockClient("client2")

	p1 := game.NewPlayer("acc-1", "Driver")
	p2 := game.NewPlayer("acc-2", "Watcher")
	r.AddPlayer(p1, c1)
	r.AddPlayer(p2, c2)

	return r, []*game.Player{p1, p2}, []*ws.Client{c1, c2}
}

func waitForState(t *testing.T, r *Room, want game.RoomState) {
	t.Helper()
	require.Eventually(t, func() bool { return r.CurrentState() == want }, 2*time.Second, 5*time.Millisecond)
}

func TestAddPlayer_FirstIsHost(t *testing.T) {
	r, players, _ := setupTestRoom(parkingBoard(), nil)

	assert.Equal(t, players[0].ID, r.HostID)
	assert.Equal(t, 2, r.PlayerCount())
	assert.True(t, r.HasPlayer(players[1].ID))
}

func TestAddPlayer_Full(t *testing.T) {
	r := NewRoom("TEST", parkingBoard(), nil)
	for i := 0; i < game.MaxPlayers; i++ {
		require.NoError(t, r.AddPlayer(game.NewPlayer("", fmt.Sprintf("p%d", i)), mockClient(fmt.Sprintf("c%d", i))))
	}

	err := r.AddPlayer(game.NewPlayer("", "late"), mockClient("late"))
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, game.MaxPlayers, r.PlayerCount())
}

func TestRemovePlayer_TransfersHost(t *testing.T) {
	r, players, _ := setupTestRoom(parkingBoard(), nil)

	r.RemovePlayer(players[0].ID)
	assert.Equal(t, players[1].ID, r.HostID)

	r.RemovePlayer(players[1].ID)
	assert.True(t, r.IsEmpty())
	assert.Empty(t, r.HostID)
}

func TestStartGame(t *testing.T) {
	r, players, clients := setupTestRoom(parkingBoard(), nil)

	assert.ErrorIs(t, r.StartGame(players[1].ID), ErrNotHost)

	require.NoError(t, r.StartGame(players[0].ID))
	t.Cleanup(r.StopGame)

	assert.Equal(t, game.StatePlaying, r.CurrentState())
	assert.ErrorIs(t, r.StartGame(players[0].ID), ErrAlreadyPlaying)

	roles := map[string]game.Role{}
	for _, p := range r.GetPlayerList() {
		roles[p.ID] = p.Role
	}
	assert.Equal(t, game.RoleDriver, roles[players[0].ID])
	assert.Equal(t, game.RoleSpectator, roles[players[1].ID])

	for _, c := range clients {
		start := findMessageByType(drainMessages(c), ws.TypeGameStart)
		require.NotNil(t, start, "client %s should get game_start", c.ID)

		var payload gameStartMessage
		require.NoError(t, json.Unmarshal(start.Data, &payload))
		assert.Equal(t, players[0].ID, payload.DriverID)
		assert.Equal(t, 50.0, payload.Board.Width)
		assert.Equal(t, game.InitialLives, payload.Board.Lives)
	}
}

func TestStartGame_InvalidBoard(t *testing.T) {
	cfg := parkingBoard()
	cfg.Width = 10
	r, players, _ := setupTestRoom(cfg, nil)

	err := r.StartGame(players[0].ID)
	assert.ErrorIs(t, err, game.ErrInvalidBoard)
	assert.Equal(t, game.StateWaiting, r.CurrentState())
}

func TestControl_Errors(t *testing.T) {
	r, players, _ := setupTestRoom(parkingBoard(), nil)

	assert.ErrorIs(t, r.Control(players[0].ID, game.ControlForward, true), ErrNotPlaying)

	require.NoError(t, r.StartGame(players[0].ID))
	t.Cleanup(r.StopGame)

	assert.ErrorIs(t, r.Control(players[1].ID, game.ControlForward, true), ErrNotHost)
	assert.NoError(t, r.Control(players[0].ID, game.ControlLeft, false))
}

func TestDrive_ParksAndRecordsResult(t *testing.T) {
	results := store.NewMemoryStore()
	r, players, clients := setupTestRoom(parkingBoard(), results)

	require.NoError(t, r.StartGame(players[0].ID))
	require.NoError(t, r.Control(players[0].ID, game.ControlBackward, true))

	waitForState(t, r, game.StateEnded)
	<-r.Loop().Done()

	msgs := drainMessages(clients[1])
	require.NotNil(t, findMessageByType(msgs, ws.TypeBoardState), "spectators see every move")

	last := msgs[len(msgs)-1]
	require.Equal(t, ws.TypeGameOver, last.Type, "game_over follows the final board_state")
	var over struct {
		Outcome string `json:"outcome"`
		Lives   int    `json:"lives"`
	}
	require.NoError(t, json.Unmarshal(last.Data, &over))
	assert.Equal(t, "parked", over.Outcome)
	assert.Equal(t, game.InitialLives, over.Lives)

	saved, err := results.RecentResults(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, game.OutcomeParked, saved[0].Outcome)
	assert.Equal(t, "TEST", saved[0].RoomCode)
	assert.Equal(t, "acc-1", saved[0].AccountID)
	assert.Equal(t, "Driver", saved[0].Nickname)

	board, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, board.Winner)
	assert.False(t, board.Car.EngineOn)
	assert.False(t, board.Car.Moving, "tasks are cancelled once the room ends")
}

func TestDrive_Crash(t *testing.T) {
	cfg := parkingBoard()
	cfg.Lives = 1
	cfg.Layout = []game.Placement{{X: cfg.Car.Width / 2, Y: cfg.Car.Height / 2}}
	results := store.NewMemoryStore()
	r, players, clients := setupTestRoom(cfg, results)

	require.NoError(t, r.StartGame(players[0].ID))
	require.NoError(t, r.Control(players[0].ID, game.ControlForward, true))

	waitForState(t, r, game.StateEnded)
	<-r.Loop().Done()

	over := findMessageByType(drainMessages(clients[0]), ws.TypeGameOver)
	require.NotNil(t, over)
	assert.JSONEq(t, `{"outcome":"crashed","lives":0}`, string(over.Data))

	saved, err := results.RecentResults(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, game.OutcomeCrashed, saved[0].Outcome)
}

func TestSnapshot(t *testing.T) {
	r, players, _ := setupTestRoom(parkingBoard(), nil)

	_, err := r.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrNotPlaying)

	require.NoError(t, r.StartGame(players[0].ID))
	t.Cleanup(r.StopGame)

	board, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, game.CarWidth/2, board.Car.X)
	assert.True(t, board.Car.EngineOn)
}

func TestDriverLeavingStopsGame(t *testing.T) {
	results := store.NewMemoryStore()
	r, players, clients := setupTestRoom(parkingBoard(), results)

	require.NoError(t, r.StartGame(players[0].ID))
	drainMessages(clients[1])

	r.RemovePlayer(players[0].ID)

	assert.Equal(t, game.StateEnded, r.CurrentState())
	over := findMessageByType(drainMessages(clients[1]), ws.TypeGameOver)
	require.NotNil(t, over)
	assert.JSONEq(t, `{"outcome":"none","lives":10}`, string(over.Data))

	saved, _ := results.RecentResults(context.Background(), 10)
	assert.Empty(t, saved, "abandoned games are not recorded")
}

func TestReset(t *testing.T) {
	r, players, _ := setupTestRoom(parkingBoard(), nil)

	assert.ErrorIs(t, r.Reset(players[0].ID), ErrNotEnded)

	require.NoError(t, r.StartGame(players[0].ID))
	assert.ErrorIs(t, r.Reset(players[0].ID), ErrNotEnded)
	r.StopGame()

	assert.ErrorIs(t, r.Reset(players[1].ID), ErrNotHost)
	require.NoError(t, r.Reset(players[0].ID))
	assert.Equal(t, game.StateWaiting, r.CurrentState())
	for _, p := range r.GetPlayerList() {
		assert.Equal(t, game.RoleSpectator, p.Role)
	}

	// a new game can start
	require.NoError(t, r.StartGame(players[0].ID))
	r.StopGame()
}

func TestInfo(t *testing.T) {
	r, players, _ := setupTestRoom(parkingBoard(), nil)

	info := r.Info()
	assert.Equal(t, "TEST", info.Code)
	assert.Equal(t, "waiting", info.State)
	assert.Equal(t, players[0].ID, info.HostID)
	assert.Len(t, info.Players, 2)
}
