package geom

import "fmt"

// Trans is a simple rigid transformation on the integer grid: a rotation by a
// multiple of 90 degrees, an optional mirror at the x axis (applied before the
// rotation) and an integer displacement. Scale is always 1.
//
// Trans is a value type; all operations return new values.
type Trans struct {
	// Rot is the rotation as a quadrant count 0-3 (0, 90, 180, 270 degrees).
	Rot int
	// Mirror mirrors at the x axis before rotating.
	Mirror bool
	// Disp is the displacement in grid units.
	Disp Vector
}

// Common transformations.
var (
	TransR0   = Trans{Rot: 0}
	TransR90  = Trans{Rot: 1}
	TransR180 = Trans{Rot: 2}
	TransR270 = Trans{Rot: 3}
	TransM0   = Trans{Rot: 0, Mirror: true}
	TransM90  = Trans{Rot: 2, Mirror: true}
)

// NewTrans builds a transformation from a quadrant rotation, mirror flag and
// displacement in grid units.
func NewTrans(rot int, mirror bool, x, y int) Trans {
	return Trans{Rot: ((rot % 4) + 4) % 4, Mirror: mirror, Disp: Vector{x, y}}
}

// ApplyVector applies only the linear part (mirror, then rotation) to a
// displacement. Vectors do not translate.
func (t Trans) ApplyVector(v Vector) Vector {
	if t.Mirror {
		v.Y = -v.Y
	}
	switch t.Rot & 3 {
	case 1:
		v.X, v.Y = -v.Y, v.X
	case 2:
		v.X, v.Y = -v.X, -v.Y
	case 3:
		v.X, v.Y = v.Y, -v.X
	}
	return v
}

// ApplyPoint applies the full transformation to a point.
func (t Trans) ApplyPoint(p Point) Point {
	v := t.ApplyVector(p.ToVector())
	return Point{v.X + t.Disp.X, v.Y + t.Disp.Y}
}

// Mul composes two transformations. The result applies b first, then t,
// i.e. (t.Mul(b)).ApplyPoint(p) == t.ApplyPoint(b.ApplyPoint(p)).
func (t Trans) Mul(b Trans) Trans {
	rot := t.Rot + b.Rot
	if t.Mirror {
		rot = t.Rot - b.Rot
	}
	return Trans{
		Rot:    ((rot % 4) + 4) % 4,
		Mirror: t.Mirror != b.Mirror,
		Disp:   t.Disp.Add(t.ApplyVector(b.Disp)),
	}
}

// Inverted returns the inverse transformation.
func (t Trans) Inverted() Trans {
	inv := Trans{Rot: (4 - t.Rot) & 3, Mirror: t.Mirror}
	if t.Mirror {
		inv.Rot = t.Rot
	}
	inv.Disp = inv.ApplyVector(t.Disp).Neg()
	return inv
}

// ToDCplx widens the transformation to a complex transformation in micrometer
// units. The widening is exact: every simple transformation has an exact
// complex counterpart under the given resolution.
func (t Trans) ToDCplx(dbu float64) DCplxTrans {
	return DCplxTrans{
		Mag:    1,
		Angle:  float64(t.Rot&3) * 90,
		Mirror: t.Mirror,
		Disp:   t.Disp.ToD(dbu),
	}
}

// String renders the transformation in a compact debug form.
func (t Trans) String() string {
	m := "r"
	if t.Mirror {
		m = "m"
	}
	return fmt.Sprintf("%s%d %d,%d", m, (t.Rot&3)*90, t.Disp.X, t.Disp.Y)
}
