package game

import "github.com/ugaemi/parkingdrive-server/internal/geom"

// Parking is the target zone pinned to the board's bottom-right corner.
type Parking struct {
	Shape
}

// NewParking creates a parking zone of the given size on a boardW×boardH board.
func NewParking(width, height, boardW, boardH float64) *Parking {
	p := &Parking{Shape: newShape(KindParking, width, height, boardW, boardH)}
	p.InitPos()
	return p
}

// InitPos touches the far corner of the parking to the board's bottom-right.
func (p *Parking) InitPos() {
	p.place(p.LimitX-p.Width/2, p.LimitY-p.Height/2)
}

// IsInside reports whether b lies wholly within the parking: the overlap of
// b with the parking must be exactly b's own corners, in order.
func (p *Parking) IsInside(b Body) bool {
	corners := b.Corners()
	overlap := geom.Intersection(corners, p.Corners())
	if len(overlap) == 0 {
		return false
	}
	return geom.Equal(overlap, corners)
}
