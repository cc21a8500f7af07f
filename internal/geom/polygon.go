// Package geom holds the polygon math used for collision and containment checks.
//
// Coordinates follow screen conventions: x grows to the right, y grows down.
// Headings are in degrees, 0 pointing up and increasing clockwise.
package geom

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon merges points closer than this and absorbs rounding error from
// rotated corners.
const Epsilon = 1e-9

// Polygon is an ordered list of corner points.
type Polygon []r2.Vec

// Rect returns the four corners of a w×h rectangle centered on center and
// rotated by headingDeg around it. The winding is fixed: top-left, top-right,
// bottom-right, bottom-left (as seen with heading 0).
func Rect(center r2.Vec, w, h, headingDeg float64) Polygon {
	hw, hh := w/2, h/2
	offsets := [4]r2.Vec{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}

	alpha := headingDeg * math.Pi / 180
	corners := make(Polygon, 0, len(offsets))
	for _, off := range offsets {
		if alpha != 0 {
			off = r2.Rotate(off, alpha, r2.Vec{})
		}
		corners = append(corners, r2.Add(center, off))
	}
	return corners
}

// Flat returns the corners as [x1, y1, x2, y2, ...].
func (p Polygon) Flat() []float64 {
	out := make([]float64, 0, 2*len(p))
	for _, v := range p {
		out = append(out, v.X, v.Y)
	}
	return out
}

// Area returns the unsigned shoelace area of p.
func Area(p Polygon) float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		j := (i + 1) % len(p)
		sum += r2.Cross(p[i], p[j])
	}
	return math.Abs(sum) / 2
}

// Equal reports whether a and b hold the same points in the same order.
func Equal(a, b Polygon) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i].X-b[i].X) > Epsilon || math.Abs(a[i].Y-b[i].Y) > Epsilon {
			return false
		}
	}
	return true
}

// Intersection clips subject against the convex polygon clip and returns the
// overlapping region (Sutherland–Hodgman). Points lying on the clip boundary
// count as inside, so a subject wholly inside clip comes back unchanged, in
// its own order. An empty result means no overlap; a concave clip also
// yields nil.
func Intersection(subject, clip Polygon) Polygon {
	if len(subject) < 3 || !Convex(clip) {
		return nil
	}

	orient := 1.0
	if signedArea(clip) < 0 {
		orient = -1
	}

	out := append(Polygon(nil), subject...)
	for i := range clip {
		if len(out) == 0 {
			break
		}
		a := clip[i]
		b := clip[(i+1)%len(clip)]

		in := out
		out = make(Polygon, 0, len(in)+1)
		prev := in[len(in)-1]
		prevInside := inside(prev, a, b, orient)
		for _, cur := range in {
			curInside := inside(cur, a, b, orient)
			if curInside {
				if !prevInside {
					out = append(out, lineCross(prev, cur, a, b))
				}
				out = append(out, cur)
			} else if prevInside {
				out = append(out, lineCross(prev, cur, a, b))
			}
			prev, prevInside = cur, curInside
		}
	}

	out = dedupe(out)
	if len(out) < 3 {
		return nil
	}
	return out
}

// Intersects reports whether a and b overlap with a positive area. Polygons
// that only share an edge or a corner do not intersect. Either may be concave.
func Intersects(a, b Polygon) bool {
	return OverlapArea(a, b) > Epsilon
}

// OverlapArea returns the area of the region covered by both a and b.
func OverlapArea(a, b Polygon) float64 {
	if len(a) < 3 || len(b) < 3 {
		return 0
	}
	subject, clip := toClip(a), toClip(b)
	if !subject.BoundingBox().Overlaps(clip.BoundingBox()) {
		return 0
	}

	var area float64
	for _, contour := range subject.Construct(polyclip.INTERSECTION, clip) {
		p := make(Polygon, 0, len(contour))
		for _, pt := range contour {
			p = append(p, r2.Vec{X: pt.X, Y: pt.Y})
		}
		area += Area(p)
	}
	return area
}

// Convex reports whether every turn along p goes the same way.
func Convex(p Polygon) bool {
	if len(p) < 3 {
		return false
	}
	var sign float64
	for i := range p {
		a, b, c := p[i], p[(i+1)%len(p)], p[(i+2)%len(p)]
		cross := r2.Cross(r2.Sub(b, a), r2.Sub(c, b))
		if math.Abs(cross) <= Epsilon {
			continue
		}
		if sign == 0 {
			sign = math.Copysign(1, cross)
		} else if sign*cross < 0 {
			return false
		}
	}
	return sign != 0
}

func toClip(p Polygon) polyclip.Polygon {
	contour := make(polyclip.Contour, 0, len(p))
	for _, v := range p {
		contour = append(contour, polyclip.Point{X: v.X, Y: v.Y})
	}
	return polyclip.Polygon{contour}
}

func signedArea(p Polygon) float64 {
	var sum float64
	for i := range p {
		sum += r2.Cross(p[i], p[(i+1)%len(p)])
	}
	return sum / 2
}

// inside reports whether p lies on the inner side of edge a->b.
func inside(p, a, b r2.Vec, orient float64) bool {
	return orient*r2.Cross(r2.Sub(b, a), r2.Sub(p, a)) >= -Epsilon
}

// lineCross returns the point where segment p->q crosses the line through a and b.
func lineCross(p, q, a, b r2.Vec) r2.Vec {
	d := r2.Sub(q, p)
	e := r2.Sub(b, a)
	den := r2.Cross(d, e)
	if den == 0 {
		return q
	}
	t := r2.Cross(r2.Sub(a, p), e) / den
	return r2.Add(p, r2.Scale(t, d))
}

func dedupe(p Polygon) Polygon {
	if len(p) == 0 {
		return p
	}
	out := make(Polygon, 0, len(p))
	for _, v := range p {
		if len(out) > 0 && near(out[len(out)-1], v) {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && near(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func near(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) <= Epsilon && math.Abs(a.Y-b.Y) <= Epsilon
}
