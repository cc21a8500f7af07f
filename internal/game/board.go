package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/oakmound/oak/v4/alg/floatgeom"

	"github.com/ugaemi/parkingdrive-server/internal/loop"
)

// ErrInvalidBoard is returned when a board cannot be built from its config.
var ErrInvalidBoard = errors.New("invalid board")

// BoundaryWarning is the distance from the board edge at which the car is
// reported as near the boundary.
const BoundaryWarning = 10.0

// Placement is a fixed obstacle center.
type Placement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoardConfig is everything a board needs at construction.
type BoardConfig struct {
	Width          float64
	Height         float64
	Car            CarConfig
	ObstacleCount  int
	ObstacleWidth  float64
	ObstacleHeight float64
	ParkingMargin  float64
	Lives          int
	// Layout, when set, replaces random placement: one obstacle per entry.
	Layout []Placement
}

// DefaultBoardConfig returns the standard board.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Width:          BoardWidth,
		Height:         BoardHeight,
		Car:            DefaultCarConfig(),
		ObstacleCount:  ObstacleCount,
		ObstacleWidth:  ObstacleWidth,
		ObstacleHeight: ObstacleHeight,
		ParkingMargin:  ParkingMargin,
		Lives:          InitialLives,
	}
}

// Validate checks that every entity fits on the board.
func (c BoardConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: board size %vx%v", ErrInvalidBoard, c.Width, c.Height)
	case c.Car.Width <= 0 || c.Car.Height <= 0:
		return fmt.Errorf("%w: car size %vx%v", ErrInvalidBoard, c.Car.Width, c.Car.Height)
	case c.ParkingMargin < 0:
		return fmt.Errorf("%w: parking margin %v", ErrInvalidBoard, c.ParkingMargin)
	case c.Car.Width+c.ParkingMargin > c.Width || c.Car.Height+c.ParkingMargin > c.Height:
		return fmt.Errorf("%w: parking does not fit on the board", ErrInvalidBoard)
	case c.Car.Speed < 0 || c.Car.TurnStep < 0:
		return fmt.Errorf("%w: negative speed or turn step", ErrInvalidBoard)
	case c.Car.TickPeriod <= 0:
		return fmt.Errorf("%w: tick period %v", ErrInvalidBoard, c.Car.TickPeriod)
	case c.ObstacleCount < 0:
		return fmt.Errorf("%w: obstacle count %d", ErrInvalidBoard, c.ObstacleCount)
	case c.obstacles() > 0 && (c.ObstacleWidth <= 0 || c.ObstacleHeight <= 0):
		return fmt.Errorf("%w: obstacle size %vx%v", ErrInvalidBoard, c.ObstacleWidth, c.ObstacleHeight)
	case c.Lives < 0:
		return fmt.Errorf("%w: lives %d", ErrInvalidBoard, c.Lives)
	}
	bounds := floatgeom.NewRect2(0, 0, c.Width, c.Height)
	for i, p := range c.Layout {
		if !bounds.Contains(floatgeom.Point2{p.X, p.Y}) {
			return fmt.Errorf("%w: obstacle %d at (%v, %v) is off the board", ErrInvalidBoard, i, p.X, p.Y)
		}
	}
	return nil
}

func (c BoardConfig) obstacles() int {
	if c.Layout != nil {
		return len(c.Layout)
	}
	return c.ObstacleCount
}

// Board owns one car, one parking and the obstacles, and re-evaluates lives
// and the win flag after every committed car movement.
type Board struct {
	Width     float64
	Height    float64
	Car       *Car
	Parking   *Parking
	Obstacles []*Obstacle
	Lives     int
	Winner    bool

	statusSubs []func(Status)
}

// NewBoard builds a board. Obstacles are placed once, here; sched drives the
// car's tasks and rng the obstacle placement.
func NewBoard(cfg BoardConfig, sched loop.Scheduler, rng *rand.Rand) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	b := &Board{
		Width:  cfg.Width,
		Height: cfg.Height,
		Lives:  cfg.Lives,
	}
	b.Parking = NewParking(cfg.Car.Width+cfg.ParkingMargin, cfg.Car.Height+cfg.ParkingMargin, cfg.Width, cfg.Height)
	b.Car = NewCar(cfg.Car, cfg.Width, cfg.Height, sched)

	if cfg.Layout != nil {
		for _, p := range cfg.Layout {
			o := NewObstacle(cfg.ObstacleWidth, cfg.ObstacleHeight, cfg.Width, cfg.Height, floatgeom.Rect2{}, rng)
			o.PlaceAt(p.X, p.Y)
			b.Obstacles = append(b.Obstacles, o)
		}
	} else {
		for _, cell := range ObstacleCells(cfg.Width, cfg.Height, cfg.ObstacleCount, rng) {
			o := NewObstacle(cfg.ObstacleWidth, cfg.ObstacleHeight, cfg.Width, cfg.Height, cell, rng)
			o.InitPos()
			b.Obstacles = append(b.Obstacles, o)
		}
	}

	b.Car.OnMove(func(MoveEvent) { b.CheckStatus() })

	slog.Debug("board created",
		"width", b.Width,
		"height", b.Height,
		"obstacles", len(b.Obstacles),
		"lives", b.Lives,
	)
	return b, nil
}

// CheckStatus applies the win and collision rules to the car's current
// position. The win check runs first; every overlapping obstacle costs one
// life; the engine turns off once the car is parked or lives drop below one.
func (b *Board) CheckStatus() {
	before := b.Status()

	if b.Parking.IsInside(b.Car) {
		b.Winner = true
		b.Car.TurnOffEngine()
	}

	for i, o := range b.Obstacles {
		if o.Intersects(b.Car) {
			b.Lives--
			slog.Debug("obstacle hit", "obstacle", i, "lives", b.Lives)
		}
	}

	if b.Lives < 1 {
		b.Car.TurnOffEngine()
	}

	after := b.Status()
	if after == before {
		return
	}
	if before.Outcome == OutcomeNone && after.Outcome != OutcomeNone {
		slog.Info("game decided", "outcome", after.Outcome.String(), "lives", after.Lives)
	}
	for _, fn := range b.statusSubs {
		fn(after)
	}
}

// Outcome reports parked before crashed when both hold.
func (b *Board) Outcome() Outcome {
	switch {
	case b.Winner:
		return OutcomeParked
	case b.Lives < 1:
		return OutcomeCrashed
	default:
		return OutcomeNone
	}
}

func (b *Board) Status() Status {
	return Status{Lives: b.Lives, Winner: b.Winner, Outcome: b.Outcome()}
}

// OnStatus registers fn to run whenever a status check changes lives or the
// win flag.
func (b *Board) OnStatus(fn func(Status)) {
	b.statusSubs = append(b.statusSubs, fn)
}

// NearBoundary reports whether the car center is within BoundaryWarning of
// any board edge.
func (b *Board) NearBoundary() bool {
	c := b.Car
	return c.X < BoundaryWarning || c.X > b.Width-BoundaryWarning ||
		c.Y < BoundaryWarning || c.Y > b.Height-BoundaryWarning
}
