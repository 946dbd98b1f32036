package geom

import "math"

// Box is an axis-aligned bounding box in grid units. The zero value is the
// empty box.
type Box struct {
	Left, Bottom, Right, Top int
}

// NewBox builds a box from two corner coordinates in any order.
func NewBox(x1, y1, x2, y2 int) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{Left: x1, Bottom: y1, Right: x2, Top: y2}
}

// Empty reports whether the box covers no area.
func (b Box) Empty() bool {
	return b.Right <= b.Left || b.Top <= b.Bottom
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return Box{
		Left:   min(b.Left, o.Left),
		Bottom: min(b.Bottom, o.Bottom),
		Right:  max(b.Right, o.Right),
		Top:    max(b.Top, o.Top),
	}
}

// Intersection returns the overlap of both boxes, empty if they do not touch.
func (b Box) Intersection(o Box) Box {
	r := Box{
		Left:   max(b.Left, o.Left),
		Bottom: max(b.Bottom, o.Bottom),
		Right:  min(b.Right, o.Right),
		Top:    min(b.Top, o.Top),
	}
	if r.Empty() {
		return Box{}
	}
	return r
}

// Overlaps reports whether the two boxes share interior area.
func (b Box) Overlaps(o Box) bool {
	return !b.Intersection(o).Empty()
}

// Transformed returns the bounding box of the transformed corners.
func (b Box) Transformed(t Trans) Box {
	p1 := t.ApplyPoint(Point{b.Left, b.Bottom})
	p2 := t.ApplyPoint(Point{b.Right, b.Top})
	return NewBox(p1.X, p1.Y, p2.X, p2.Y)
}

// ToD converts the box to micrometer units.
func (b Box) ToD(dbu float64) DBox {
	return DBox{
		Left:   float64(b.Left) * dbu,
		Bottom: float64(b.Bottom) * dbu,
		Right:  float64(b.Right) * dbu,
		Top:    float64(b.Top) * dbu,
	}
}

// ToPolygon returns the box outline as a polygon.
func (b Box) ToPolygon() Polygon {
	return Polygon{Points: []Point{
		{b.Left, b.Bottom}, {b.Right, b.Bottom}, {b.Right, b.Top}, {b.Left, b.Top},
	}}
}

// DBox is an axis-aligned bounding box in micrometer units.
type DBox struct {
	Left, Bottom, Right, Top float64
}

// Empty reports whether the box covers no area.
func (b DBox) Empty() bool {
	return b.Right <= b.Left || b.Top <= b.Bottom
}

// Union returns the smallest box containing both boxes.
func (b DBox) Union(o DBox) DBox {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	return DBox{
		Left:   math.Min(b.Left, o.Left),
		Bottom: math.Min(b.Bottom, o.Bottom),
		Right:  math.Max(b.Right, o.Right),
		Top:    math.Max(b.Top, o.Top),
	}
}

// Intersection returns the overlap of both boxes, empty if they do not touch.
func (b DBox) Intersection(o DBox) DBox {
	r := DBox{
		Left:   math.Max(b.Left, o.Left),
		Bottom: math.Max(b.Bottom, o.Bottom),
		Right:  math.Min(b.Right, o.Right),
		Top:    math.Min(b.Top, o.Top),
	}
	if r.Empty() {
		return DBox{}
	}
	return r
}

// Overlaps reports whether the two boxes share interior area.
func (b DBox) Overlaps(o DBox) bool {
	return !b.Intersection(o).Empty()
}

// Transformed returns the bounding box of the four transformed corners.
func (b DBox) Transformed(t DCplxTrans) DBox {
	corners := []DPoint{
		{b.Left, b.Bottom}, {b.Right, b.Bottom}, {b.Right, b.Top}, {b.Left, b.Top},
	}
	out := DBox{}
	for i, c := range corners {
		p := t.ApplyPoint(c)
		if i == 0 {
			out = DBox{Left: p.X, Bottom: p.Y, Right: p.X, Top: p.Y}
			continue
		}
		out.Left = math.Min(out.Left, p.X)
		out.Bottom = math.Min(out.Bottom, p.Y)
		out.Right = math.Max(out.Right, p.X)
		out.Top = math.Max(out.Top, p.Y)
	}
	return out
}

// ToPolygon returns the box outline as a polygon.
func (b DBox) ToPolygon() DPolygon {
	return DPolygon{Points: []DPoint{
		{b.Left, b.Bottom}, {b.Right, b.Bottom}, {b.Right, b.Top}, {b.Left, b.Top},
	}}
}
