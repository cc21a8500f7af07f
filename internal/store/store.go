package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/parkingdrive-server/internal/account"
	"github.com/ugaemi/parkingdrive-server/internal/game"
)

// DefaultResultLimit caps RecentResults when the caller passes no limit.
const DefaultResultLimit = 20

// AccountStore defines the interface for persistent account storage.
type AccountStore interface {
	// FindByID looks up an account by internal ID.
	FindByID(ctx context.Context, id string) (*account.Account, error)
	// Create inserts a new account.
	Create(ctx context.Context, acc *account.Account) error
	// UpdateLastLogin updates the last login timestamp.
	UpdateLastLogin(ctx context.Context, id string) error
	// UpdateNickname updates the account nickname.
	UpdateNickname(ctx context.Context, id string, nickname string) error
}

// Result is one finished game.
type Result struct {
	ID         string       `json:"id"`
	RoomCode   string       `json:"room_code"`
	AccountID  string       `json:"account_id"`
	Nickname   string       `json:"nickname"`
	Outcome    game.Outcome `json:"outcome"`
	Lives      int          `json:"lives"`
	DurationMS int64        `json:"duration_ms"`
	FinishedAt time.Time    `json:"finished_at"`
}

// NewResult creates a result stamped with a fresh ID and the current time.
func NewResult(roomCode, accountID, nickname string, outcome game.Outcome, lives int, duration time.Duration) *Result {
	return &Result{
		ID:         uuid.New().String(),
		RoomCode:   roomCode,
		AccountID:  accountID,
		Nickname:   nickname,
		Outcome:    outcome,
		Lives:      lives,
		DurationMS: duration.Milliseconds(),
		FinishedAt: time.Now(),
	}
}

// ResultStore records finished games.
type ResultStore interface {
	// SaveResult inserts a finished game.
	SaveResult(ctx context.Context, res *Result) error
	// RecentResults returns the latest results, newest first.
	RecentResults(ctx context.Context, limit int) ([]*Result, error)
}

// Store is everything the server persists.
type Store interface {
	AccountStore
	ResultStore
	// Close releases database resources.
	Close() error
}
