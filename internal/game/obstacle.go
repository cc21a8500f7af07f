package game

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/oakmound/oak/v4/alg/floatgeom"
)

// Obstacle is a static shape placed once, at a random point of its grid cell.
type Obstacle struct {
	Shape
	Cell floatgeom.Rect2

	rng    *rand.Rand
	placed bool
}

// NewObstacle creates an unplaced obstacle assigned to cell.
func NewObstacle(width, height, limitX, limitY float64, cell floatgeom.Rect2, rng *rand.Rand) *Obstacle {
	return &Obstacle{
		Shape: newShape(KindObstacle, width, height, limitX, limitY),
		Cell:  cell,
		rng:   rng,
	}
}

// InitPos draws the obstacle's center uniformly from its cell. Only the
// first call has any effect.
func (o *Obstacle) InitPos() {
	if o.placed {
		slog.Warn("obstacle already placed", "x", o.X, "y", o.Y)
		return
	}
	x := o.Cell.Min.X() + o.rng.Float64()*o.Cell.W()
	y := o.Cell.Min.Y() + o.rng.Float64()*o.Cell.H()
	o.placed = o.place(x, y)
}

// PlaceAt pins an unplaced obstacle to (x, y) instead of a random point.
func (o *Obstacle) PlaceAt(x, y float64) bool {
	if o.placed {
		slog.Warn("obstacle already placed", "x", o.X, "y", o.Y)
		return false
	}
	o.placed = o.place(x, y)
	return o.placed
}

// Placed reports whether the obstacle has its final position.
func (o *Obstacle) Placed() bool {
	return o.placed
}

// Intersects reports whether b overlaps the obstacle.
func (o *Obstacle) Intersects(b Body) bool {
	return Intersects(b, o)
}

// ObstacleCells splits a width×height board into an n×n grid and returns
// count cells in row-major order. The top-left cell (car start) and the
// bottom-right cell (parking) are never used. When the grid has more free
// cells than needed, rng picks which ones.
func ObstacleCells(width, height float64, count int, rng *rand.Rand) []floatgeom.Rect2 {
	if count <= 0 {
		return nil
	}

	n := int(math.Ceil(math.Sqrt(float64(count))))
	for n*n-reservedCells(n) < count {
		n++
	}
	stepX := width / float64(n)
	stepY := height / float64(n)

	free := make([]floatgeom.Rect2, 0, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if (i == 0 && j == 0) || (i == n-1 && j == n-1) {
				continue
			}
			free = append(free, floatgeom.NewRect2WH(float64(i)*stepX, float64(j)*stepY, stepX, stepY))
		}
	}
	if len(free) == count {
		return free
	}

	picked := make([]bool, len(free))
	for _, idx := range rng.Perm(len(free))[:count] {
		picked[idx] = true
	}
	cells := make([]floatgeom.Rect2, 0, count)
	for idx, cell := range free {
		if picked[idx] {
			cells = append(cells, cell)
		}
	}
	return cells
}

func reservedCells(n int) int {
	if n == 1 {
		return 1
	}
	return 2
}
