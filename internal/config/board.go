package config

import (
	"github.com/urfave/cli/v3"

	"github.com/ugaemi/parkingdrive-server/internal/game"
)

const boardCategory = "board"

// BoardFlags are the board tunables. Each one can also be set from the
// environment variable named in its Sources.
func BoardFlags() []cli.Flag {
	d := game.DefaultBoardConfig()
	return []cli.Flag{
		&cli.FloatFlag{Name: "board-width", Category: boardCategory, Value: d.Width, Sources: cli.EnvVars("BOARD_WIDTH")},
		&cli.FloatFlag{Name: "board-height", Category: boardCategory, Value: d.Height, Sources: cli.EnvVars("BOARD_HEIGHT")},
		&cli.FloatFlag{Name: "car-width", Category: boardCategory, Value: d.Car.Width, Sources: cli.EnvVars("CAR_WIDTH")},
		&cli.FloatFlag{Name: "car-height", Category: boardCategory, Value: d.Car.Height, Sources: cli.EnvVars("CAR_HEIGHT")},
		&cli.FloatFlag{Name: "car-speed", Category: boardCategory, Usage: "pixels per second", Value: d.Car.Speed, Sources: cli.EnvVars("CAR_SPEED")},
		&cli.FloatFlag{Name: "turn-step", Category: boardCategory, Usage: "degrees per tick", Value: d.Car.TurnStep, Sources: cli.EnvVars("TURN_STEP")},
		&cli.DurationFlag{Name: "tick-period", Category: boardCategory, Value: d.Car.TickPeriod, Sources: cli.EnvVars("TICK_PERIOD")},
		&cli.IntFlag{Name: "obstacles", Category: boardCategory, Value: d.ObstacleCount, Sources: cli.EnvVars("OBSTACLE_COUNT")},
		&cli.FloatFlag{Name: "obstacle-width", Category: boardCategory, Value: d.ObstacleWidth, Sources: cli.EnvVars("OBSTACLE_WIDTH")},
		&cli.FloatFlag{Name: "obstacle-height", Category: boardCategory, Value: d.ObstacleHeight, Sources: cli.EnvVars("OBSTACLE_HEIGHT")},
		&cli.FloatFlag{Name: "parking-margin", Category: boardCategory, Value: d.ParkingMargin, Sources: cli.EnvVars("PARKING_MARGIN")},
		&cli.IntFlag{Name: "lives", Category: boardCategory, Value: d.Lives, Sources: cli.EnvVars("LIVES")},
	}
}

// BoardFromCommand reads the BoardFlags values from a parsed command.
func BoardFromCommand(cmd *cli.Command) game.BoardConfig {
	b := game.DefaultBoardConfig()
	b.Width = cmd.Float("board-width")
	b.Height = cmd.Float("board-height")
	b.Car.Width = cmd.Float("car-width")
	b.Car.Height = cmd.Float("car-height")
	b.Car.Speed = cmd.Float("car-speed")
	b.Car.TurnStep = cmd.Float("turn-step")
	b.Car.TickPeriod = cmd.Duration("tick-period")
	b.ObstacleCount = cmd.Int("obstacles")
	b.ObstacleWidth = cmd.Float("obstacle-width")
	b.ObstacleHeight = cmd.Float("obstacle-height")
	b.ParkingMargin = cmd.Float("parking-margin")
	b.Lives = cmd.Int("lives")
	return b
}
