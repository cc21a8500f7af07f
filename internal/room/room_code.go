package room

import (
	"math/rand"
	"strings"
)

const codeLength = 4
const maxRetries = 100

// no I or O, they read like 1 and 0
var letters = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ")

// GenerateCode creates a random 4-letter uppercase room code.
// It checks against existing codes to avoid duplicates.
func GenerateCode(existing map[string]bool) string {
	for range maxRetries {
		code := randomCode()
		if !existing[code] {
			return code
		}
	}
	// Fallback: extremely unlikely with 24^4 = 331,776 combinations
	return randomCode()
}

// NormalizeCode upper-cases and trims a code typed by a player.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randomCode() string {
	b := make([]rune, codeLength)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
