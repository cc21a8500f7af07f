package game

import "encoding/json"

// Control is a directional input key.
type Control int

const (
	ControlNone Control = iota
	ControlForward
	ControlBackward
	ControlLeft
	ControlRight
)

func (c Control) String() string {
	switch c {
	case ControlForward:
		return "forward"
	case ControlBackward:
		return "backward"
	case ControlLeft:
		return "left"
	case ControlRight:
		return "right"
	default:
		return "none"
	}
}

// MarshalJSON serializes Control as a string.
func (c Control) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON deserializes Control from a string.
func (c *Control) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseControl(s)
	return nil
}

func ParseControl(s string) Control {
	switch s {
	case "forward", "up":
		return ControlForward
	case "backward", "down":
		return ControlBackward
	case "left":
		return ControlLeft
	case "right":
		return ControlRight
	default:
		return ControlNone
	}
}

// Apply maps a key press to a start action and a key release to the
// matching stop. It reports whether the input was recognised.
func (c *Car) Apply(ctrl Control, pressed bool) bool {
	switch ctrl {
	case ControlForward:
		if pressed {
			c.StartForwardMove()
		} else {
			c.StopMove()
		}
	case ControlBackward:
		if pressed {
			c.StartBackwardMove()
		} else {
			c.StopMove()
		}
	case ControlLeft:
		if pressed {
			c.StartLeftTurn()
		} else {
			c.StopTurn()
		}
	case ControlRight:
		if pressed {
			c.StartRightTurn()
		} else {
			c.StopTurn()
		}
	default:
		return false
	}
	return true
}
