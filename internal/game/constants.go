package game

import "time"

// Board dimensions (pixels)
const (
	BoardWidth  = 800
	BoardHeight = 600
)

// Car defaults
const (
	CarWidth   = 30.0
	CarHeight  = 80.0
	CarSpeed   = 100.0 // pixels per second
	TurnStep   = 5.0   // degrees per tick
	TickPeriod = 50 * time.Millisecond
)

// Obstacles
const (
	ObstacleCount  = 8
	ObstacleWidth  = 40.0
	ObstacleHeight = 40.0
)

// Parking is the car size plus this margin on each dimension.
const ParkingMargin = 20.0

// Lives at the start of a game
const InitialLives = 10

// Room limits: one driver, the rest spectate.
const MaxPlayers = 8
