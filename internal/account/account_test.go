package account

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGuestAccount(t *testing.T) {
	acc := NewGuestAccount("게스트")

	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, "게스트", acc.Nickname)
	assert.True(t, acc.IsGuest)
	assert.False(t, acc.CreatedAt.IsZero())
	assert.False(t, acc.LastLoginAt.IsZero())
}

func TestNewGuestAccount_UniqueIDs(t *testing.T) {
	acc1 := NewGuestAccount("유저1")
	acc2 := NewGuestAccount("유저2")

	assert.NotEqual(t, acc1.ID, acc2.ID)
}

func TestNormalizeNickname(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"plain", "driver", "driver", true},
		{"trimmed", "  driver \n", "driver", true},
		{"hangul counts runes", strings.Repeat("가", MaxNicknameLength), strings.Repeat("가", MaxNicknameLength), true},
		{"empty", "", "", false},
		{"blank", "   ", "", false},
		{"too long", strings.Repeat("x", MaxNicknameLength+1), strings.Repeat("x", MaxNicknameLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeNickname(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
