package geom

import (
	"fmt"
	"math"
)

// DCplxTrans is a complex affine transformation in continuous micrometer
// units: a uniform magnification, a rotation by an arbitrary angle in degrees,
// an optional mirror at the x axis (applied before the rotation) and a
// continuous displacement.
//
// No operation normalizes the angle behind the caller's back; use Canonical
// when a normalized representation is needed, e.g. before comparing.
type DCplxTrans struct {
	Mag    float64
	Angle  float64 // degrees, counterclockwise
	Mirror bool
	Disp   DVector
}

// Common complex transformations.
var (
	DCplxR0   = DCplxTrans{Mag: 1}
	DCplxR90  = DCplxTrans{Mag: 1, Angle: 90}
	DCplxR180 = DCplxTrans{Mag: 1, Angle: 180}
	DCplxR270 = DCplxTrans{Mag: 1, Angle: 270}
)

// NewDCplxTrans builds a complex transformation from magnification, angle in
// degrees, mirror flag and displacement in micrometers.
func NewDCplxTrans(mag, angle float64, mirror bool, x, y float64) DCplxTrans {
	return DCplxTrans{Mag: mag, Angle: angle, Mirror: mirror, Disp: DVector{x, y}}
}

// sincosDeg returns sin and cos of an angle in degrees. Multiples of 90
// degrees produce exact results so that grid-aligned transforms round-trip
// bit for bit.
func sincosDeg(deg float64) (sin, cos float64) {
	r := math.Mod(deg, 360)
	if r < 0 {
		r += 360
	}
	switch r {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(deg * math.Pi / 180)
}

// ApplyVector applies only the linear part (mirror, rotation, magnification)
// to a displacement.
func (t DCplxTrans) ApplyVector(v DVector) DVector {
	if t.Mirror {
		v.Y = -v.Y
	}
	sin, cos := sincosDeg(t.Angle)
	return DVector{
		X: t.Mag * (cos*v.X - sin*v.Y),
		Y: t.Mag * (sin*v.X + cos*v.Y),
	}
}

// ApplyPoint applies the full transformation to a point.
func (t DCplxTrans) ApplyPoint(p DPoint) DPoint {
	return t.ApplyVector(p.ToVector()).ToPoint().Add(t.Disp)
}

// Mul composes two transformations. The result applies b first, then t.
func (t DCplxTrans) Mul(b DCplxTrans) DCplxTrans {
	angle := t.Angle + b.Angle
	if t.Mirror {
		angle = t.Angle - b.Angle
	}
	return DCplxTrans{
		Mag:    t.Mag * b.Mag,
		Angle:  angle,
		Mirror: t.Mirror != b.Mirror,
		Disp:   t.Disp.Add(t.ApplyVector(b.Disp)),
	}
}

// Inverted returns the inverse transformation.
func (t DCplxTrans) Inverted() DCplxTrans {
	inv := DCplxTrans{Mag: 1 / t.Mag, Angle: -t.Angle, Mirror: t.Mirror}
	if t.Mirror {
		inv.Angle = t.Angle
	}
	inv.Disp = inv.ApplyVector(t.Disp).Neg()
	return inv
}

// Canonical returns the same transformation with the angle reduced to the
// range [0,360).
func (t DCplxTrans) Canonical() DCplxTrans {
	t.Angle = NormalizeAngle(t.Angle)
	return t
}

// Equal reports whether the canonical forms of two transformations match
// exactly. There is no tolerance; callers comparing derived values should
// canonicalize and round themselves first.
func (t DCplxTrans) Equal(b DCplxTrans) bool {
	return t.Canonical() == b.Canonical()
}

// IsComplex reports whether the transformation cannot be represented as a
// simple grid transformation regardless of displacement: a magnification
// other than 1 or a rotation off the 90 degree raster.
func (t DCplxTrans) IsComplex() bool {
	return t.Mag != 1 || math.Mod(NormalizeAngle(t.Angle), 90) != 0
}

// ToTrans narrows the transformation to a simple grid transformation. This is
// a checked, lossy-free narrowing: it fails unless the magnification is 1, the
// angle is an exact multiple of 90 degrees and the displacement round-trips
// exactly through the grid.
func (t DCplxTrans) ToTrans(dbu float64) (Trans, error) {
	if t.IsComplex() {
		return Trans{}, fmt.Errorf("geom: transformation %v is not grid representable", t)
	}
	x := math.Round(t.Disp.X / dbu)
	y := math.Round(t.Disp.Y / dbu)
	if x*dbu != t.Disp.X || y*dbu != t.Disp.Y {
		return Trans{}, fmt.Errorf("geom: displacement %v,%v is off the %v grid", t.Disp.X, t.Disp.Y, dbu)
	}
	return Trans{
		Rot:    int(NormalizeAngle(t.Angle)) / 90,
		Mirror: t.Mirror,
		Disp:   Vector{int(x), int(y)},
	}, nil
}

// STrans returns the closest simple transformation, rounding the displacement
// to the grid and the angle to the nearest quadrant. Magnification is
// discarded. Use ToTrans when the narrowing must be exact.
func (t DCplxTrans) STrans(dbu float64) Trans {
	rot := int(math.Round(NormalizeAngle(t.Angle)/90)) & 3
	return Trans{
		Rot:    rot,
		Mirror: t.Mirror,
		Disp: Vector{
			X: int(math.Round(t.Disp.X / dbu)),
			Y: int(math.Round(t.Disp.Y / dbu)),
		},
	}
}

// String renders the transformation in a compact debug form.
func (t DCplxTrans) String() string {
	m := "r"
	if t.Mirror {
		m = "m"
	}
	return fmt.Sprintf("%s%g*%g %g,%g", m, t.Angle, t.Mag, t.Disp.X, t.Disp.Y)
}

// NormalizeAngle reduces an angle in degrees to the range [0,360).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// NormalizeTurn reduces an angle difference in degrees to the range
// (-180,180], the signed turn between two headings. A U-turn is +180.
func NormalizeTurn(a float64) float64 {
	a = math.Mod(a, 360)
	if a <= -180 {
		a += 360
	} else if a > 180 {
		a -= 360
	}
	return a
}
