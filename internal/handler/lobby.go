package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/parkingdrive-server/internal/game"
	"github.com/ugaemi/parkingdrive-server/internal/room"
	"github.com/ugaemi/parkingdrive-server/internal/ws"
)

// LobbyHandler handles lobby-related messages.
type LobbyHandler struct {
	rm     *room.Manager
	router *Router
}

// NewLobbyHandler creates a new lobby handler.
func NewLobbyHandler(rm *room.Manager, router *Router) *LobbyHandler {
	return &LobbyHandler{
		rm:     rm,
		router: router,
	}
}

type roomJoinedResponse struct {
	Code     string `json:"code"`
	PlayerID string `json:"player_id"`
}

// HandleCreateRoom creates a room with the client as host, using the
// nickname it authenticated with.
func (h *LobbyHandler) HandleCreateRoom(client *ws.Client, _ ws.Message) {
	r := h.rm.CreateRoom()
	player := game.NewPlayer(client.AccountID, client.Nickname)
	if err := r.AddPlayer(player, client); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	h.router.RegisterPlayer(client.ID, player.ID)

	resp, _ := ws.NewMessage(ws.TypeCreateRoom, roomJoinedResponse{
		Code:     r.Code,
		PlayerID: player.ID,
	})
	client.SendMessage(resp)
	h.broadcastRoomInfo(r)

	slog.Info("player created room", "player", player.Nickname, "room", r.Code)
}

type joinRoomRequest struct {
	Code string `json:"code"`
}

// HandleJoinRoom handles joining an existing room.
func (h *LobbyHandler) HandleJoinRoom(client *ws.Client, msg ws.Message) {
	var req joinRoomRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || room.NormalizeCode(req.Code) == "" {
		client.SendMessage(ws.NewErrorMessage("code is required"))
		return
	}
	r, err := h.rm.GetRoom(req.Code)
	if err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	player := game.NewPlayer(client.AccountID, client.Nickname)
	if err := r.AddPlayer(player, client); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	h.router.RegisterPlayer(client.ID, player.ID)

	resp, _ := ws.NewMessage(ws.TypeJoinRoom, roomJoinedResponse{
		Code:     r.Code,
		PlayerID: player.ID,
	})
	client.SendMessage(resp)

	h.broadcastRoomInfo(r)

	slog.Info("player joined room", "player", player.Nickname, "room", r.Code)
}

// HandleStartGame starts the room's game with the host driving.
func (h *LobbyHandler) HandleStartGame(client *ws.Client, _ ws.Message) {
	playerID, r := h.playerRoom(client)
	if r == nil {
		return
	}

	if err := r.StartGame(playerID); err != nil {
		slog.Debug("start game rejected", "player", playerID, "room", r.Code, "error", err)
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	h.broadcastRoomInfo(r)
}

// HandleReturnToLobby moves an ended room back to waiting.
func (h *LobbyHandler) HandleReturnToLobby(client *ws.Client, _ ws.Message) {
	playerID, r := h.playerRoom(client)
	if r == nil {
		return
	}

	if err := r.Reset(playerID); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	h.broadcastRoomInfo(r)

	slog.Info("room returned to lobby", "room", r.Code)
}

// HandleLeaveRoom handles a player leaving a room.
func (h *LobbyHandler) HandleLeaveRoom(client *ws.Client, _ ws.Message) {
	h.removePlayer(client)
}

// HandleDisconnect handles client disconnection.
func (h *LobbyHandler) HandleDisconnect(client *ws.Client) {
	h.removePlayer(client)
}

func (h *LobbyHandler) removePlayer(client *ws.Client) {
	playerID := h.router.GetPlayerID(client.ID)
	if playerID == "" {
		return
	}

	r := h.rm.FindRoomByPlayerID(playerID)
	if r != nil {
		r.RemovePlayer(playerID)
		if r.IsEmpty() {
			h.rm.RemoveRoom(r.Code)
		} else {
			h.broadcastRoomInfo(r)
		}
	}

	h.router.UnregisterPlayer(client.ID)
	slog.Info("player left", "player", playerID)
}

// playerRoom resolves the client's player and room, replying with an error
// when the client is not in one.
func (h *LobbyHandler) playerRoom(client *ws.Client) (string, *room.Room) {
	playerID := h.router.GetPlayerID(client.ID)
	r := h.rm.FindRoomByPlayerID(playerID)
	if playerID == "" || r == nil {
		client.SendMessage(ws.NewErrorMessage("not in a room"))
		return "", nil
	}
	return playerID, r
}

func (h *LobbyHandler) broadcastRoomInfo(r *room.Room) {
	resp, _ := ws.NewMessage(ws.TypeRoomInfo, r.Info())
	r.BroadcastMessage(resp)
}
