package handler

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ugaemi/parkingdrive-server/internal/room"
	"github.com/ugaemi/parkingdrive-server/internal/store"
	"github.com/ugaemi/parkingdrive-server/internal/ws"
)

// roomScope says where a client must be for a message type to be accepted.
type roomScope int

const (
	outsideRoom roomScope = iota
	insideRoom
)

type route struct {
	scope  roomScope
	handle func(*ws.Client, ws.Message)
}

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	authH  *AuthHandler
	lobby  *LobbyHandler
	routes map[string]route

	// playerMap tracks client ID -> player ID mapping, shared across handlers.
	playerMap map[string]string
	mu        sync.RWMutex
}

// NewRouter creates a new message router.
func NewRouter(rm *room.Manager, accountStore store.AccountStore) *Router {
	r := &Router{
		playerMap: make(map[string]string),
	}
	r.authH = NewAuthHandler(accountStore)
	lobby := NewLobbyHandler(rm, r)
	drive := NewDriveHandler(rm, r)

	r.routes = map[string]route{
		ws.TypeCreateRoom:    {outsideRoom, lobby.HandleCreateRoom},
		ws.TypeJoinRoom:      {outsideRoom, lobby.HandleJoinRoom},
		ws.TypeLeaveRoom:     {insideRoom, lobby.HandleLeaveRoom},
		ws.TypeStartGame:     {insideRoom, lobby.HandleStartGame},
		ws.TypeReturnToLobby: {insideRoom, lobby.HandleReturnToLobby},
		ws.TypeControl:       {insideRoom, drive.HandleControl},
	}
	r.lobby = lobby
	return r
}

// RegisterPlayer maps a client ID to a player ID.
func (r *Router) RegisterPlayer(clientID, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playerMap[clientID] = playerID
}

// UnregisterPlayer removes a client's player mapping.
func (r *Router) UnregisterPlayer(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.playerMap, clientID)
}

// GetPlayerID returns the player ID for a client, or empty string if not found.
func (r *Router) GetPlayerID(clientID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.playerMap[clientID]
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	// Auth messages are always allowed
	if msg.Type == ws.TypeAuthenticate {
		r.authH.HandleAuthenticate(cm.Client, msg)
		return
	}

	// Auth guard: block unauthenticated clients
	if !cm.Client.Authenticated {
		cm.Client.SendMessage(ws.NewErrorMessage("authentication required"))
		return
	}

	rt, ok := r.routes[msg.Type]
	if !ok {
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
		return
	}

	inRoom := r.GetPlayerID(cm.Client.ID) != ""
	switch {
	case rt.scope == insideRoom && !inRoom:
		cm.Client.SendMessage(ws.NewErrorMessage("not in a room"))
		return
	case rt.scope == outsideRoom && inRoom:
		cm.Client.SendMessage(ws.NewErrorMessage("already in a room"))
		return
	}

	rt.handle(cm.Client, msg)
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.lobby.HandleDisconnect(client)
}

// StartAuthTimeout starts the authentication timeout for a new client.
func (r *Router) StartAuthTimeout(client *ws.Client) {
	r.authH.StartAuthTimeout(client)
}
