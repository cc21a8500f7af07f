package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ugaemi/parkingdrive-server/internal/game"
	"github.com/ugaemi/parkingdrive-server/internal/loop"
	"github.com/ugaemi/parkingdrive-server/internal/store"
	"github.com/ugaemi/parkingdrive-server/internal/ws"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrNotHost        = errors.New("only the host can do that")
	ErrNotPlaying     = errors.New("game is not in progress")
	ErrAlreadyPlaying = errors.New("game already in progress")
	ErrNotEnded       = errors.New("game has not ended")
)

const saveTimeout = 5 * time.Second

// Room is one driver's game plus spectators. While playing, the board is
// owned by the room's loop and only touched from inside it.
type Room struct {
	Code    string                  `json:"code"`
	State   game.RoomState          `json:"state"`
	Players map[string]*game.Player `json:"players"`
	HostID  string                  `json:"host_id"`

	// Client mapping: player ID -> ws client
	clients map[string]*ws.Client

	cfg       game.BoardConfig
	results   store.ResultStore
	loop      *loop.Loop
	board     *game.Board
	startedAt time.Time

	mu sync.RWMutex
}

// NewRoom creates a new room with the given code. results may be nil.
func NewRoom(code string, cfg game.BoardConfig, results store.ResultStore) *Room {
	return &Room{
		Code:    code,
		State:   game.StateWaiting,
		Players: make(map[string]*game.Player),
		clients: make(map[string]*ws.Client),
		cfg:     cfg,
		results: results,
	}
}

// AddPlayer adds a player to the room. The first player becomes host.
func (r *Room) AddPlayer(player *game.Player, client *ws.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Players) >= game.MaxPlayers {
		return ErrRoomFull
	}

	player.SetRole(game.RoleSpectator)
	r.Players[player.ID] = player
	r.clients[player.ID] = client

	if len(r.Players) == 1 {
		r.HostID = player.ID
	}
	return nil
}

// RemovePlayer removes a player from the room. If the driver leaves
// mid-game the game is stopped.
func (r *Room) RemovePlayer(playerID string) {
	r.mu.Lock()
	driverLeft := r.State == game.StatePlaying && r.HostID == playerID

	delete(r.Players, playerID)
	delete(r.clients, playerID)

	// Transfer host if the host left
	if r.HostID == playerID {
		r.HostID = ""
		for id := range r.Players {
			r.HostID = id
			break
		}
	}
	r.mu.Unlock()

	if driverLeft {
		r.StopGame()
	}
}

// PlayerCount returns the number of players.
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Players)
}

// HasPlayer reports whether playerID is in the room.
func (r *Room) HasPlayer(playerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.Players[playerID]
	return ok
}

// GetPlayerList returns a slice of all players.
func (r *Room) GetPlayerList() []*game.Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]*game.Player, 0, len(r.Players))
	for _, p := range r.Players {
		cp := *p
		players = append(players, &cp)
	}
	return players
}

// Info returns the room's lobby view.
func (r *Room) Info() Info {
	players := r.GetPlayerList()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Info{
		Code:    r.Code,
		State:   r.State.String(),
		HostID:  r.HostID,
		Players: players,
	}
}

// CurrentState returns the room's lifecycle state.
func (r *Room) CurrentState() game.RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.State
}

// BroadcastMessage sends a message to all players in the room.
func (r *Room) BroadcastMessage(msg ws.Message) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, client := range r.clients {
		client.SendMessage(msg)
	}
}

// IsEmpty returns true if the room has no players.
func (r *Room) IsEmpty() bool {
	return r.PlayerCount() == 0
}

// StartGame builds a fresh board with the host as driver, broadcasts
// game_start and starts the room's loop.
func (r *Room) StartGame(playerID string) error {
	r.mu.Lock()

	if r.State == game.StatePlaying {
		r.mu.Unlock()
		return ErrAlreadyPlaying
	}
	if playerID != r.HostID {
		r.mu.Unlock()
		return ErrNotHost
	}

	l := loop.New()
	b, err := game.NewBoard(r.cfg, l, nil)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	for id, p := range r.Players {
		if id == r.HostID {
			p.SetRole(game.RoleDriver)
		} else {
			p.SetRole(game.RoleSpectator)
		}
	}

	b.OnStatus(func(s game.Status) {
		slog.Debug("board status changed", "room", r.Code, "lives", s.Lives, "winner", s.Winner)
	})
	// runs after the board's own status check
	b.Car.OnMove(func(game.MoveEvent) {
		r.broadcastBoard(b)
		if b.Outcome() != game.OutcomeNone {
			r.finish(l, b)
		}
	})

	r.State = game.StatePlaying
	r.loop = l
	r.board = b
	r.startedAt = time.Now()
	initial := b.State()
	driverID := r.HostID
	r.mu.Unlock()

	msg, _ := ws.NewMessage(ws.TypeGameStart, gameStartMessage{
		DriverID: driverID,
		Board:    initial,
	})
	r.BroadcastMessage(msg)

	go l.Run(context.Background())

	slog.Info("game started", "room", r.Code, "driver", driverID, "obstacles", len(initial.Obstacles))
	return nil
}

// Control forwards a driver key press or release to the car.
func (r *Room) Control(playerID string, ctrl game.Control, pressed bool) error {
	r.mu.RLock()
	if r.State != game.StatePlaying {
		r.mu.RUnlock()
		return ErrNotPlaying
	}
	if p, ok := r.Players[playerID]; !ok || !p.IsDriver() {
		r.mu.RUnlock()
		return ErrNotHost
	}
	l, b := r.loop, r.board
	r.mu.RUnlock()

	if !l.Do(func() { b.Car.Apply(ctrl, pressed) }) {
		return ErrNotPlaying
	}
	return nil
}

// Snapshot returns the current board, read on the room's loop.
func (r *Room) Snapshot(ctx context.Context) (game.BoardState, error) {
	r.mu.RLock()
	l, b, state := r.loop, r.board, r.State
	r.mu.RUnlock()

	if b == nil {
		return game.BoardState{}, ErrNotPlaying
	}
	if state != game.StatePlaying {
		// loop has stopped, nobody else touches the board
		<-l.Done()
		return b.State(), nil
	}

	var s game.BoardState
	if err := l.Call(ctx, func() { s = b.State() }); err != nil {
		if errors.Is(err, loop.ErrStopped) {
			<-l.Done()
			return b.State(), nil
		}
		return game.BoardState{}, err
	}
	return s, nil
}

// StopGame ends a game that has not been decided, e.g. when the driver
// leaves. It must not be called from the room's loop.
func (r *Room) StopGame() {
	r.mu.Lock()
	if r.State != game.StatePlaying {
		r.mu.Unlock()
		return
	}
	r.State = game.StateEnded
	l, b := r.loop, r.board
	r.mu.Unlock()

	l.Stop()
	<-l.Done()

	msg, _ := ws.NewMessage(ws.TypeGameOver, gameOverMessage{
		Outcome: b.Outcome(),
		Lives:   b.Lives,
	})
	r.BroadcastMessage(msg)

	slog.Info("game stopped", "room", r.Code, "lives", b.Lives)
}

// Reset returns an ended room to the lobby, keeping its players.
func (r *Room) Reset(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State != game.StateEnded {
		return ErrNotEnded
	}
	if playerID != r.HostID {
		return ErrNotHost
	}

	r.State = game.StateWaiting
	r.loop = nil
	r.board = nil
	for _, p := range r.Players {
		p.SetRole(game.RoleSpectator)
	}
	return nil
}

// Loop returns the loop of the current or last game, or nil.
func (r *Room) Loop() *loop.Loop {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loop
}

// finish runs on the loop once the board has an outcome, right after the
// final board_state.
func (r *Room) finish(l *loop.Loop, b *game.Board) {
	r.mu.Lock()
	if r.State != game.StatePlaying || r.loop != l {
		r.mu.Unlock()
		return
	}
	r.State = game.StateEnded
	elapsed := time.Since(r.startedAt)
	var driver game.Player
	if p, ok := r.Players[r.HostID]; ok {
		driver = *p
	}
	r.mu.Unlock()

	b.Car.Stop()
	l.Stop()

	outcome := b.Outcome()
	msg, _ := ws.NewMessage(ws.TypeGameOver, gameOverMessage{
		Outcome: outcome,
		Lives:   b.Lives,
	})
	r.BroadcastMessage(msg)

	slog.Info("game ended", "room", r.Code, "outcome", outcome.String(), "lives", b.Lives, "elapsed", elapsed)

	if r.results == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	res := store.NewResult(r.Code, driver.AccountID, driver.Nickname, outcome, b.Lives, elapsed)
	if err := r.results.SaveResult(ctx, res); err != nil {
		slog.Error("failed to save result", "room", r.Code, "error", err)
	}
}

// broadcastBoard runs on the loop after every committed car move.
func (r *Room) broadcastBoard(b *game.Board) {
	msg, _ := ws.NewMessage(ws.TypeBoardState, boardStateMessage{Board: b.State()})
	r.BroadcastMessage(msg)
}

// Info is the lobby view of a room.
type Info struct {
	Code    string         `json:"code"`
	State   string         `json:"state"`
	HostID  string         `json:"host_id"`
	Players []*game.Player `json:"players"`
}

type gameStartMessage struct {
	DriverID string          `json:"driver_id"`
	Board    game.BoardState `json:"board"`
}

type boardStateMessage struct {
	Board game.BoardState `json:"board"`
}

type gameOverMessage struct {
	Outcome game.Outcome `json:"outcome"`
	Lives   int          `json:"lives"`
}
