package game

// ShapeState is what a renderer needs to draw one shape.
type ShapeState struct {
	Kind    Kind      `json:"kind"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Width   float64   `json:"width"`
	Height  float64   `json:"height"`
	Corners []float64 `json:"corners"`
}

type CarState struct {
	ShapeState
	Heading  float64 `json:"heading"`
	EngineOn bool    `json:"engine_on"`
	Moving   bool    `json:"moving"`
	Turning  bool    `json:"turning"`
}

// BoardState is a point-in-time copy of the board for renderers.
type BoardState struct {
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
	Car          CarState     `json:"car"`
	Parking      ShapeState   `json:"parking"`
	Obstacles    []ShapeState `json:"obstacles"`
	Lives        int          `json:"lives"`
	Winner       bool         `json:"winner"`
	Outcome      Outcome      `json:"outcome"`
	NearBoundary bool         `json:"near_boundary"`
}

func shapeState(b Body) ShapeState {
	s := b.Base()
	return ShapeState{
		Kind:    s.Kind,
		X:       s.X,
		Y:       s.Y,
		Width:   s.Width,
		Height:  s.Height,
		Corners: b.Corners().Flat(),
	}
}

// State returns a snapshot of the board.
func (b *Board) State() BoardState {
	obstacles := make([]ShapeState, len(b.Obstacles))
	for i, o := range b.Obstacles {
		obstacles[i] = shapeState(o)
	}
	return BoardState{
		Width:  b.Width,
		Height: b.Height,
		Car: CarState{
			ShapeState: shapeState(b.Car),
			Heading:    b.Car.Heading,
			EngineOn:   b.Car.EngineOn,
			Moving:     b.Car.IsMoving(),
			Turning:    b.Car.IsTurning(),
		},
		Parking:      shapeState(b.Parking),
		Obstacles:    obstacles,
		Lives:        b.Lives,
		Winner:       b.Winner,
		Outcome:      b.Outcome(),
		NearBoundary: b.NearBoundary(),
	}
}
