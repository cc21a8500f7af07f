package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ugaemi/parkingdrive-server/internal/account"
	"github.com/ugaemi/parkingdrive-server/internal/store"
	"github.com/ugaemi/parkingdrive-server/internal/ws"
)

const (
	authTimeout  = 10 * time.Second
	storeTimeout = 5 * time.Second
)

// AuthHandler handles authentication messages.
type AuthHandler struct {
	store   store.AccountStore
	timeout time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(store store.AccountStore) *AuthHandler {
	return &AuthHandler{
		store:   store,
		timeout: authTimeout,
	}
}

type authenticateRequest struct {
	Nickname string `json:"nickname"`
	// AccountID resumes an existing guest account.
	AccountID string `json:"account_id,omitempty"`
}

type authSuccessResponse struct {
	Success   bool   `json:"success"`
	AccountID string `json:"account_id"`
	Nickname  string `json:"nickname"`
}

type authFailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleAuthenticate processes a guest login. A known account_id is resumed;
// anything else creates a new account.
func (h *AuthHandler) HandleAuthenticate(client *ws.Client, msg ws.Message) {
	if client.Authenticated {
		client.SendMessage(ws.NewErrorMessage("already authenticated"))
		return
	}

	var req authenticateRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		h.sendFailure(client, "invalid auth data")
		return
	}

	nickname, ok := account.NormalizeNickname(req.Nickname)
	if !ok {
		h.sendFailure(client, "nickname is required and must be at most 24 characters")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if req.AccountID != "" {
		acc, err := h.store.FindByID(ctx, req.AccountID)
		if err != nil {
			slog.Error("failed to find account", "error", err)
			h.sendFailure(client, "internal error")
			return
		}
		if acc != nil {
			h.resume(ctx, client, acc, nickname)
			return
		}
		slog.Info("unknown account, creating a new one", "account_id", req.AccountID)
	}

	acc := account.NewGuestAccount(nickname)
	if err := h.store.Create(ctx, acc); err != nil {
		slog.Error("failed to create guest account", "error", err)
		h.sendFailure(client, "internal error")
		return
	}

	slog.Info("new guest account created", "account_id", acc.ID, "nickname", nickname)
	h.authenticateClient(client, acc)
}

func (h *AuthHandler) resume(ctx context.Context, client *ws.Client, acc *account.Account, nickname string) {
	if err := h.store.UpdateLastLogin(ctx, acc.ID); err != nil {
		slog.Warn("failed to update last login", "account_id", acc.ID, "error", err)
	}
	if acc.Nickname != nickname {
		if err := h.store.UpdateNickname(ctx, acc.ID, nickname); err != nil {
			slog.Error("failed to update nickname", "account_id", acc.ID, "error", err)
			h.sendFailure(client, "internal error")
			return
		}
		acc.Nickname = nickname
	}
	h.authenticateClient(client, acc)
}

func (h *AuthHandler) authenticateClient(client *ws.Client, acc *account.Account) {
	client.AccountID = acc.ID
	client.Nickname = acc.Nickname
	client.Authenticated = true

	resp, _ := ws.NewMessage(ws.TypeAuthResult, authSuccessResponse{
		Success:   true,
		AccountID: acc.ID,
		Nickname:  acc.Nickname,
	})
	client.SendMessage(resp)

	slog.Info("client authenticated", "client", client.ID, "account_id", acc.ID)
}

func (h *AuthHandler) sendFailure(client *ws.Client, errMsg string) {
	resp, _ := ws.NewMessage(ws.TypeAuthResult, authFailureResponse{
		Success: false,
		Error:   errMsg,
	})
	client.SendMessage(resp)
}

// StartAuthTimeout closes the connection if the client doesn't authenticate in time.
func (h *AuthHandler) StartAuthTimeout(client *ws.Client) {
	time.AfterFunc(h.timeout, func() {
		if !client.Authenticated {
			slog.Info("auth timeout, closing connection", "client", client.ID)
			client.SendMessage(ws.NewErrorMessage("authentication timeout"))
			client.Close()
		}
	})
}
