package geom

import "math"

// DEdge is a directed line segment between two points in micrometer units.
// The connectivity and routing code uses it both as a segment (port edges,
// overlap tests) and as a carrier for the infinite line through its points
// (tangent rays, backbone offsetting).
type DEdge struct {
	P1, P2 DPoint
}

// Vector returns the direction vector from P1 to P2.
func (e DEdge) Vector() DVector {
	return e.P2.Sub(e.P1)
}

// Length returns the segment length.
func (e DEdge) Length() float64 {
	return e.Vector().Length()
}

// CutPoint returns the intersection of the infinite lines through e and o.
// The second return value is false for parallel (or degenerate) lines.
func (e DEdge) CutPoint(o DEdge) (DPoint, bool) {
	d1 := e.Vector()
	d2 := o.Vector()
	det := d1.X*d2.Y - d1.Y*d2.X
	if det == 0 {
		return DPoint{}, false
	}
	w := o.P1.Sub(e.P1)
	t := (w.X*d2.Y - w.Y*d2.X) / det
	return e.P1.Add(d1.Scale(t)), true
}

// Shifted returns the edge moved by the distance d orthogonally to its
// direction. Positive distances shift to the left of the direction P1->P2.
func (e DEdge) Shifted(d float64) DEdge {
	v := e.Vector()
	l := v.Length()
	if l == 0 {
		return e
	}
	n := DVector{-v.Y / l, v.X / l}.Scale(d)
	return DEdge{P1: e.P1.Add(n), P2: e.P2.Add(n)}
}

// Transformed returns the edge with both points transformed.
func (e DEdge) Transformed(t DCplxTrans) DEdge {
	return DEdge{P1: t.ApplyPoint(e.P1), P2: t.ApplyPoint(e.P2)}
}

// OverlapLength returns the length of the part of o that lies on e, or 0 if
// the two segments are not collinear within tol.
func (e DEdge) OverlapLength(o DEdge, tol float64) float64 {
	v := e.Vector()
	l := v.Length()
	if l == 0 {
		return 0
	}
	u := DVector{v.X / l, v.Y / l}
	// Both endpoints of o must sit on the carrier line of e.
	for _, p := range []DPoint{o.P1, o.P2} {
		w := p.Sub(e.P1)
		if math.Abs(w.X*u.Y-w.Y*u.X) > tol {
			return 0
		}
	}
	// Project onto e and clip.
	t1 := o.P1.Sub(e.P1).X*u.X + o.P1.Sub(e.P1).Y*u.Y
	t2 := o.P2.Sub(e.P1).X*u.X + o.P2.Sub(e.P1).Y*u.Y
	lo := math.Min(t1, t2)
	hi := math.Max(t1, t2)
	lo = math.Max(lo, 0)
	hi = math.Min(hi, l)
	if hi <= lo {
		return 0
	}
	return hi - lo
}
