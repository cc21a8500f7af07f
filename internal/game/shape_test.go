package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_IsPositionValid(t *testing.T) {
	bounded := newShape(KindObstacle, 10, 10, 100, 50)
	unbounded := newShape(KindObstacle, 10, 10, 0, 0)
	xOnly := newShape(KindObstacle, 10, 10, 100, 0)

	tests := []struct {
		name  string
		shape Shape
		x, y  float64
		want  bool
	}{
		{"origin", bounded, 0, 0, true},
		{"far corner", bounded, 100, 50, true},
		{"inside", bounded, 42.5, 17.25, true},
		{"left of board", bounded, -1, 10, false},
		{"right of board", bounded, 101, 10, false},
		{"above board", bounded, 50, -0.1, false},
		{"below board", bounded, 50, 51, false},
		{"unbounded accepts anything", unbounded, -500, 1e6, true},
		{"unbounded y", xOnly, 50, -1e6, true},
		{"bounded x still checked", xOnly, 150, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.shape
			assert.Equal(t, tt.want, s.IsPositionValid(tt.x, tt.y))
		})
	}
}

func TestShape_SetPosition(t *testing.T) {
	t.Run("valid target commits and notifies once", func(t *testing.T) {
		s := newShape(KindObstacle, 10, 10, 100, 50)
		var events []MoveEvent
		s.OnMove(func(ev MoveEvent) { events = append(events, ev) })

		require.True(t, s.SetPosition(30, 20))
		assert.Equal(t, 30.0, s.X)
		assert.Equal(t, 20.0, s.Y)
		require.Len(t, events, 1)
		assert.Equal(t, MoveEvent{Kind: KindObstacle, X: 30, Y: 20}, events[0])
	})

	t.Run("invalid target leaves state and stays silent", func(t *testing.T) {
		s := newShape(KindObstacle, 10, 10, 100, 50)
		require.True(t, s.SetPosition(30, 20))

		calls := 0
		s.OnMove(func(MoveEvent) { calls++ })

		assert.False(t, s.SetPosition(130, 20))
		assert.False(t, s.SetPosition(30, -20))
		assert.Equal(t, 30.0, s.X)
		assert.Equal(t, 20.0, s.Y)
		assert.Zero(t, calls)
	})
}

func TestShape_OnMove(t *testing.T) {
	s := newShape(KindObstacle, 10, 10, 0, 0)

	var order []string
	unsubA := s.OnMove(func(MoveEvent) { order = append(order, "a") })
	s.OnMove(func(MoveEvent) { order = append(order, "b") })

	s.SetPosition(1, 1)
	assert.Equal(t, []string{"a", "b"}, order)

	unsubA()
	unsubA()
	s.SetPosition(2, 2)
	assert.Equal(t, []string{"a", "b", "b"}, order)
}

func TestShape_OnMove_UnsubscribeDuringEmit(t *testing.T) {
	s := newShape(KindObstacle, 10, 10, 0, 0)

	calls := 0
	var unsub func()
	unsub = s.OnMove(func(MoveEvent) {
		calls++
		unsub()
	})

	s.SetPosition(1, 1)
	s.SetPosition(2, 2)
	assert.Equal(t, 1, calls)
}

func TestShape_Corners(t *testing.T) {
	s := newShape(KindParking, 20, 10, 0, 0)
	require.True(t, s.SetPosition(40, 30))

	assert.Equal(t, []float64{30, 25, 50, 25, 50, 35, 30, 35}, s.Corners().Flat())
}

func TestKind_MarshalJSON(t *testing.T) {
	data, err := KindParking.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"parking"`, string(data))
}

func TestKind_UnmarshalJSON(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalJSON([]byte(`"obstacle"`)))
	assert.Equal(t, KindObstacle, k)

	assert.Error(t, k.UnmarshalJSON([]byte(`"boat"`)))
	assert.Error(t, k.UnmarshalJSON([]byte(`3`)))
}
