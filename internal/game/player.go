package game

import (
	"encoding/json"

	"github.com/google/uuid"
)

type Role int

const (
	RoleNone Role = iota
	RoleDriver
	RoleSpectator
)

func (r Role) String() string {
	switch r {
	case RoleDriver:
		return "driver"
	case RoleSpectator:
		return "spectator"
	default:
		return "none"
	}
}

// MarshalJSON serializes Role as a string.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON deserializes Role from a string.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "driver":
		*r = RoleDriver
	case "spectator":
		*r = RoleSpectator
	default:
		*r = RoleNone
	}
	return nil
}

// Player is a room member. The driver controls the car; spectators watch.
type Player struct {
	ID        string `json:"id"`
	AccountID string `json:"-"`
	Nickname  string `json:"nickname"`
	Role      Role   `json:"role"`
}

func NewPlayer(accountID, nickname string) *Player {
	return &Player{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Nickname:  nickname,
		Role:      RoleSpectator,
	}
}

func (p *Player) SetRole(role Role) {
	p.Role = role
}

func (p *Player) IsDriver() bool {
	return p.Role == RoleDriver
}
