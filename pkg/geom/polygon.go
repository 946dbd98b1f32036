package geom

import (
	"fmt"
	"strings"
)

// Polygon is a simple polygon on the integer grid, described by its hull
// points in order. The kernel only carries polygons around (transforming them
// and taking bounding boxes); boolean polygon algebra is the job of a planar
// geometry library and out of scope here.
type Polygon struct {
	Points []Point
}

// Transformed returns the polygon with all points transformed.
func (p Polygon) Transformed(t Trans) Polygon {
	out := Polygon{Points: make([]Point, len(p.Points))}
	for i, pt := range p.Points {
		out.Points[i] = t.ApplyPoint(pt)
	}
	return out
}

// BBox returns the bounding box of the polygon.
func (p Polygon) BBox() Box {
	if len(p.Points) == 0 {
		return Box{}
	}
	b := Box{Left: p.Points[0].X, Bottom: p.Points[0].Y, Right: p.Points[0].X, Top: p.Points[0].Y}
	for _, pt := range p.Points[1:] {
		b.Left = min(b.Left, pt.X)
		b.Bottom = min(b.Bottom, pt.Y)
		b.Right = max(b.Right, pt.X)
		b.Top = max(b.Top, pt.Y)
	}
	return b
}

// Edges returns the outline segments of the polygon in micrometer units.
func (p Polygon) Edges(dbu float64) []DEdge {
	n := len(p.Points)
	if n < 2 {
		return nil
	}
	edges := make([]DEdge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, DEdge{
			P1: p.Points[i].ToD(dbu),
			P2: p.Points[(i+1)%n].ToD(dbu),
		})
	}
	return edges
}

// ToD converts the polygon to micrometer units.
func (p Polygon) ToD(dbu float64) DPolygon {
	out := DPolygon{Points: make([]DPoint, len(p.Points))}
	for i, pt := range p.Points {
		out.Points[i] = pt.ToD(dbu)
	}
	return out
}

// DPolygon is a simple polygon in micrometer units, used for diagnostic
// geometry attached to report items.
type DPolygon struct {
	Points []DPoint
}

// Transformed returns the polygon with all points transformed.
func (p DPolygon) Transformed(t DCplxTrans) DPolygon {
	out := DPolygon{Points: make([]DPoint, len(p.Points))}
	for i, pt := range p.Points {
		out.Points[i] = t.ApplyPoint(pt)
	}
	return out
}

// BBox returns the bounding box of the polygon.
func (p DPolygon) BBox() DBox {
	if len(p.Points) == 0 {
		return DBox{}
	}
	b := DBox{Left: p.Points[0].X, Bottom: p.Points[0].Y, Right: p.Points[0].X, Top: p.Points[0].Y}
	for _, pt := range p.Points[1:] {
		if pt.X < b.Left {
			b.Left = pt.X
		}
		if pt.X > b.Right {
			b.Right = pt.X
		}
		if pt.Y < b.Bottom {
			b.Bottom = pt.Y
		}
		if pt.Y > b.Top {
			b.Top = pt.Y
		}
	}
	return b
}

// Edges returns the outline segments of the polygon.
func (p DPolygon) Edges() []DEdge {
	n := len(p.Points)
	if n < 2 {
		return nil
	}
	edges := make([]DEdge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, DEdge{P1: p.Points[i], P2: p.Points[(i+1)%n]})
	}
	return edges
}

// String renders the polygon as a coordinate list.
func (p DPolygon) String() string {
	var sb strings.Builder
	for i, pt := range p.Points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%g,%g)", pt.X, pt.Y)
	}
	return sb.String()
}
