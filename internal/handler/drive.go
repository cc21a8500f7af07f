package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/ugaemi/parkingdrive-server/internal/game"
	"github.com/ugaemi/parkingdrive-server/internal/room"
	"github.com/ugaemi/parkingdrive-server/internal/ws"
)

// DriveHandler handles the driver's key presses.
type DriveHandler struct {
	rm     *room.Manager
	router *Router
}

// NewDriveHandler creates a new drive handler.
func NewDriveHandler(rm *room.Manager, router *Router) *DriveHandler {
	return &DriveHandler{
		rm:     rm,
		router: router,
	}
}

type controlRequest struct {
	Action  game.Control `json:"action"`
	Pressed bool         `json:"pressed"`
}

// HandleControl forwards a key press or release to the room's car.
func (h *DriveHandler) HandleControl(client *ws.Client, msg ws.Message) {
	var req controlRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid control data"))
		return
	}

	ctrl := req.Action
	if ctrl == game.ControlNone {
		client.SendMessage(ws.NewErrorMessage("unknown action"))
		return
	}

	playerID := h.router.GetPlayerID(client.ID)
	r := h.rm.FindRoomByPlayerID(playerID)
	if playerID == "" || r == nil {
		client.SendMessage(ws.NewErrorMessage("not in a room"))
		return
	}

	if err := r.Control(playerID, ctrl, req.Pressed); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}

	slog.Debug("control", "player", playerID, "action", ctrl.String(), "pressed", req.Pressed)
}
