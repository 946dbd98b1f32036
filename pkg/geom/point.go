// Package geom provides the 2D transform algebra and the minimal geometric
// primitives (points, vectors, edges, boxes) used by the layout, connectivity
// and routing packages.
//
// Two parallel unit systems exist side by side: integer grid units (dbu) for
// exact on-grid geometry, and continuous micrometer units for arbitrary-angle
// geometry. Conversion between the two is always explicit and goes through a
// dbu resolution factor.
package geom

import "math"

// Point is a position on the integer fabrication grid.
type Point struct {
	X, Y int
}

// Vector is a displacement on the integer fabrication grid.
type Vector struct {
	X, Y int
}

// DPoint is a position in continuous micrometer units.
type DPoint struct {
	X, Y float64
}

// DVector is a displacement in continuous micrometer units.
type DVector struct {
	X, Y float64
}

// Add returns p shifted by v.
func (p Point) Add(v Vector) Point {
	return Point{p.X + v.X, p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{p.X - q.X, p.Y - q.Y}
}

// ToVector reinterprets the point as a displacement from the origin.
func (p Point) ToVector() Vector {
	return Vector{p.X, p.Y}
}

// ToD converts the grid point to micrometers using the given resolution.
func (p Point) ToD(dbu float64) DPoint {
	return DPoint{float64(p.X) * dbu, float64(p.Y) * dbu}
}

// Add returns the sum of two vectors.
func (v Vector) Add(w Vector) Vector {
	return Vector{v.X + w.X, v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vector) Sub(w Vector) Vector {
	return Vector{v.X - w.X, v.Y - w.Y}
}

// Neg returns the vector pointing the opposite way.
func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y}
}

// Scale returns the vector multiplied by an integer factor.
func (v Vector) Scale(f int) Vector {
	return Vector{v.X * f, v.Y * f}
}

// ToPoint reinterprets the displacement as a position relative to the origin.
func (v Vector) ToPoint() Point {
	return Point{v.X, v.Y}
}

// ToD converts the grid vector to micrometers using the given resolution.
func (v Vector) ToD(dbu float64) DVector {
	return DVector{float64(v.X) * dbu, float64(v.Y) * dbu}
}

// Add returns p shifted by v.
func (p DPoint) Add(v DVector) DPoint {
	return DPoint{p.X + v.X, p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p DPoint) Sub(q DPoint) DVector {
	return DVector{p.X - q.X, p.Y - q.Y}
}

// ToVector reinterprets the point as a displacement from the origin.
func (p DPoint) ToVector() DVector {
	return DVector{p.X, p.Y}
}

// Distance returns the Euclidean distance to another point.
func (p DPoint) Distance(q DPoint) float64 {
	return p.Sub(q).Length()
}

// Add returns the sum of two vectors.
func (v DVector) Add(w DVector) DVector {
	return DVector{v.X + w.X, v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v DVector) Sub(w DVector) DVector {
	return DVector{v.X - w.X, v.Y - w.Y}
}

// Neg returns the vector pointing the opposite way.
func (v DVector) Neg() DVector {
	return DVector{-v.X, -v.Y}
}

// Scale returns the vector multiplied by a factor.
func (v DVector) Scale(f float64) DVector {
	return DVector{v.X * f, v.Y * f}
}

// Length returns the Euclidean length of the vector.
func (v DVector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dot returns the scalar product of two vectors.
func (v DVector) Dot(w DVector) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Angle returns the four-quadrant angle of the vector in degrees.
func (v DVector) Angle() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// ToPoint reinterprets the displacement as a position relative to the origin.
func (v DVector) ToPoint() DPoint {
	return DPoint{v.X, v.Y}
}
