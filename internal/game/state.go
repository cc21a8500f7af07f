package game

import "encoding/json"

type RoomState int

const (
	StateWaiting RoomState = iota
	StatePlaying
	StateEnded
)

func (s RoomState) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Outcome is how a game finished.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeParked
	OutcomeCrashed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeParked:
		return "parked"
	case OutcomeCrashed:
		return "crashed"
	default:
		return "none"
	}
}

// MarshalJSON serializes Outcome as a string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON deserializes Outcome from a string.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = ParseOutcome(s)
	return nil
}

// ParseOutcome maps a stored outcome name back to its value.
func ParseOutcome(s string) Outcome {
	switch s {
	case "parked":
		return OutcomeParked
	case "crashed":
		return OutcomeCrashed
	default:
		return OutcomeNone
	}
}
