package layout

import "github.com/OpenPhotonLab/photonkit/pkg/geom"

// PortPolygon returns the marker polygon for a port of the given width in
// grid units: an arrow head sitting on the port edge and pointing along the
// port direction. Used for diagnostic geometry in reports.
func PortPolygon(width int) geom.Polygon {
	w2 := width / 2
	return geom.Polygon{Points: []geom.Point{
		{X: 0, Y: w2},
		{X: 0, Y: -w2},
		{X: w2, Y: 0},
	}}
}
