package account

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNicknameLength is the longest nickname, in runes, an account may carry.
const MaxNicknameLength = 24

// Account represents a persistent driver account.
type Account struct {
	ID          string    `json:"id"`
	Nickname    string    `json:"nickname"`
	IsGuest     bool      `json:"is_guest"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// NewGuestAccount creates a new guest account with only a nickname.
func NewGuestAccount(nickname string) *Account {
	now := time.Now()
	return &Account{
		ID:          uuid.New().String(),
		Nickname:    nickname,
		IsGuest:     true,
		CreatedAt:   now,
		LastLoginAt: now,
	}
}

// NormalizeNickname trims whitespace and reports whether the result is a
// usable nickname.
func NormalizeNickname(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxNicknameLength {
		return s, false
	}
	return s, true
}
