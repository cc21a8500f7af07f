package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParking_BottomRight(t *testing.T) {
	p := NewParking(50, 100, 800, 600)

	assert.Equal(t, 775.0, p.X)
	assert.Equal(t, 550.0, p.Y)
	assert.Equal(t, []float64{750, 500, 800, 500, 800, 600, 750, 600}, p.Corners().Flat())
}

func TestParking_IsInside(t *testing.T) {
	p := NewParking(CarWidth+ParkingMargin, CarHeight+ParkingMargin, BoardWidth, BoardHeight)
	// parking spans x 750..800, y 500..600

	tests := []struct {
		name    string
		x, y    float64
		heading float64
		want    bool
	}{
		{"centered", 775, 550, 0, true},
		{"centered facing down", 775, 550, 180, true},
		{"flush with the far corner", 785, 560, 0, true},
		{"half in", 775, 500, 0, false},
		{"sticking out the side", 740, 550, 0, false},
		{"rotated sideways does not fit", 775, 550, 90, false},
		{"nowhere near", 100, 100, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCar(t)
			require.True(t, c.SetPosition(tt.x, tt.y))
			require.True(t, c.SetHeading(tt.heading))
			assert.Equal(t, tt.want, p.IsInside(c))
		})
	}
}

func TestParking_IsInside_ExactFit(t *testing.T) {
	p := NewParking(CarWidth, CarHeight, BoardWidth, BoardHeight)
	c, _ := newTestCar(t)
	require.True(t, c.SetHeading(180))
	require.True(t, c.SetPosition(p.X, p.Y))

	assert.True(t, p.IsInside(c))
	assert.True(t, Intersects(c, p))
}

func TestParking_HalfOverlapIntersectsButIsNotInside(t *testing.T) {
	p := NewParking(CarWidth+ParkingMargin, CarHeight+ParkingMargin, BoardWidth, BoardHeight)
	c, _ := newTestCar(t)
	require.True(t, c.SetPosition(775, 500))

	assert.True(t, Intersects(c, p))
	assert.False(t, p.IsInside(c))
}
