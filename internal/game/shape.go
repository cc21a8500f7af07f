package game

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ugaemi/parkingdrive-server/internal/geom"
)

type Kind int

const (
	KindCar Kind = iota
	KindObstacle
	KindParking
)

func (k Kind) String() string {
	switch k {
	case KindCar:
		return "car"
	case KindObstacle:
		return "obstacle"
	case KindParking:
		return "parking"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Kind as a string.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON deserializes Kind from a string.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "car":
		*k = KindCar
	case "obstacle":
		*k = KindObstacle
	case "parking":
		*k = KindParking
	default:
		return fmt.Errorf("unknown shape kind %q", s)
	}
	return nil
}

// Body is a placed shape with its own placement and corner rules.
type Body interface {
	// InitPos applies the variant's initial placement rule.
	InitPos()
	// Corners returns the collision polygon in fixed winding order.
	Corners() geom.Polygon
	Base() *Shape
}

// Shape is a center-anchored rectangle whose position only changes through
// SetPosition. A zero limit leaves that axis unbounded.
type Shape struct {
	Kind   Kind
	Width  float64
	Height float64
	X      float64
	Y      float64
	LimitX float64
	LimitY float64

	moves moveListeners
}

func newShape(kind Kind, width, height, limitX, limitY float64) Shape {
	return Shape{
		Kind:   kind,
		Width:  width,
		Height: height,
		LimitX: limitX,
		LimitY: limitY,
	}
}

// Base returns the shape itself.
func (s *Shape) Base() *Shape {
	return s
}

// IsPositionValid reports whether (x, y) lies within the shape's limits.
func (s *Shape) IsPositionValid(x, y float64) bool {
	if s.LimitX != 0 && (x < 0 || x > s.LimitX) {
		return false
	}
	if s.LimitY != 0 && (y < 0 || y > s.LimitY) {
		return false
	}
	return true
}

// SetPosition commits (x, y) and notifies move subscribers. An out-of-bounds
// target leaves the shape where it was and returns false.
func (s *Shape) SetPosition(x, y float64) bool {
	if !s.place(x, y) {
		return false
	}
	s.moves.emit(s.event(0))
	return true
}

// Corners returns the axis-aligned corners: top-left, top-right,
// bottom-right, bottom-left.
func (s *Shape) Corners() geom.Polygon {
	return geom.Rect(s.Center(), s.Width, s.Height, 0)
}

func (s *Shape) Center() r2.Vec {
	return r2.Vec{X: s.X, Y: s.Y}
}

// OnMove registers fn to run synchronously after every committed move.
// Subscribers run in registration order.
func (s *Shape) OnMove(fn func(MoveEvent)) (unsubscribe func()) {
	return s.moves.add(fn)
}

func (s *Shape) place(x, y float64) bool {
	if !s.IsPositionValid(x, y) {
		slog.Debug("position rejected", "shape", s.Kind.String(), "x", x, "y", y, "limit_x", s.LimitX, "limit_y", s.LimitY)
		return false
	}
	s.X = x
	s.Y = y
	return true
}

func (s *Shape) event(heading float64) MoveEvent {
	return MoveEvent{Kind: s.Kind, X: s.X, Y: s.Y, Heading: heading}
}

// Intersects reports whether the bodies overlap by a positive area.
func Intersects(a, b Body) bool {
	return geom.Intersects(a.Corners(), b.Corners())
}
