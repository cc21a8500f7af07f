package game

import (
	"log/slog"
	"math"
	"time"

	"github.com/ugaemi/parkingdrive-server/internal/geom"
	"github.com/ugaemi/parkingdrive-server/internal/loop"
)

// CarConfig sizes a car and tunes its kinematics.
type CarConfig struct {
	Width      float64
	Height     float64
	Speed      float64 // pixels per second
	TickPeriod time.Duration
	TurnStep   float64 // degrees per tick
}

// DefaultCarConfig returns the standard car.
func DefaultCarConfig() CarConfig {
	return CarConfig{
		Width:      CarWidth,
		Height:     CarHeight,
		Speed:      CarSpeed,
		TickPeriod: TickPeriod,
		TurnStep:   TurnStep,
	}
}

// Car is a rotatable shape moved by repeating translation and rotation tasks.
// At most one task per axis is active. While the engine is off every
// position and heading commit is rejected.
type Car struct {
	Shape
	Heading    float64
	Speed      float64
	EngineOn   bool
	TickPeriod time.Duration
	TurnStep   float64

	sched loop.Scheduler
	move  loop.Handle
	turn  loop.Handle
}

// NewCar creates a car bounded by limitX/limitY, placed at its start position.
func NewCar(cfg CarConfig, limitX, limitY float64, sched loop.Scheduler) *Car {
	c := &Car{
		Shape:      newShape(KindCar, cfg.Width, cfg.Height, limitX, limitY),
		Speed:      cfg.Speed,
		EngineOn:   true,
		TickPeriod: cfg.TickPeriod,
		TurnStep:   cfg.TurnStep,
		sched:      sched,
	}
	c.InitPos()
	return c
}

// InitPos puts the car in the top-left corner, facing up.
func (c *Car) InitPos() {
	c.place(c.Width/2, c.Height/2)
	c.Heading = 0
}

// Corners returns the car rectangle rotated by its heading.
func (c *Car) Corners() geom.Polygon {
	return geom.Rect(c.Center(), c.Width, c.Height, c.Heading)
}

// SetPosition commits (x, y) if the engine is on and the target is in bounds.
func (c *Car) SetPosition(x, y float64) bool {
	if !c.EngineOn {
		slog.Debug("engine is off, move rejected", "x", x, "y", y)
		return false
	}
	if !c.place(x, y) {
		return false
	}
	c.moves.emit(c.event(c.Heading))
	return true
}

// SetHeading commits heading, normalized into [0, 360), if the engine is on.
func (c *Car) SetHeading(heading float64) bool {
	if !c.EngineOn {
		slog.Debug("engine is off, turn rejected", "heading", heading)
		return false
	}
	c.Heading = normalizeHeading(heading)
	c.moves.emit(c.event(c.Heading))
	return true
}

// TurnOffEngine locks the car. Running tasks keep firing but commit nothing.
func (c *Car) TurnOffEngine() {
	c.EngineOn = false
}

func (c *Car) StartForwardMove() bool {
	return c.startMove(1)
}

func (c *Car) StartBackwardMove() bool {
	return c.startMove(-1)
}

// StopMove cancels the translation task, if any.
func (c *Car) StopMove() {
	if c.move != nil {
		c.move.Cancel()
		c.move = nil
	}
}

func (c *Car) StartRightTurn() bool {
	return c.startTurn(1)
}

func (c *Car) StartLeftTurn() bool {
	return c.startTurn(-1)
}

// StopTurn cancels the rotation task, if any.
func (c *Car) StopTurn() {
	if c.turn != nil {
		c.turn.Cancel()
		c.turn = nil
	}
}

func (c *Car) IsMoving() bool {
	return c.move != nil
}

func (c *Car) IsTurning() bool {
	return c.turn != nil
}

// Stop cancels both tasks.
func (c *Car) Stop() {
	c.StopMove()
	c.StopTurn()
}

func (c *Car) startMove(sign float64) bool {
	if c.move != nil {
		slog.Warn("car is already moving", "x", c.X, "y", c.Y)
		return false
	}
	step := c.Speed * c.TickPeriod.Seconds()
	c.move = c.sched.Every(c.TickPeriod, func() {
		rad := c.Heading * math.Pi / 180
		dx := sign * step * math.Sin(rad)
		dy := -sign * step * math.Cos(rad)
		c.SetPosition(c.X+dx, c.Y+dy)
	})
	return true
}

func (c *Car) startTurn(sign float64) bool {
	if c.turn != nil {
		slog.Warn("car is already turning", "heading", c.Heading)
		return false
	}
	step := c.TurnStep
	c.turn = c.sched.Every(c.TickPeriod, func() {
		c.SetHeading(c.Heading + sign*step)
	})
	return true
}

func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}
