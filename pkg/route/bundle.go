package route

import (
	"fmt"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// DefaultReferenceOffset is the dog-leg distance used when endpoint rays do
// not cross ahead of both the port and the lane, in micrometers.
const DefaultReferenceOffset = 200.0

// BundleConfig extends Config for bundle routing.
type BundleConfig struct {
	Config
	// ReferenceOffset is the dog-leg distance for endpoint reconciliation.
	// Zero means DefaultReferenceOffset.
	ReferenceOffset float64
}

func (c BundleConfig) referenceOffset() float64 {
	if c.ReferenceOffset > 0 {
		return c.ReferenceOffset
	}
	return DefaultReferenceOffset
}

// RouteBundle routes N parallel lanes along one shared backbone. The backbone
// is offset into per-lane centerlines by the running half-width plus spacing
// sums around the center, each lane's endpoints are reconciled with its real
// start and end port, and the single-route algorithm runs per lane.
func RouteBundle(starts, ends []geom.DCplxTrans, backbone []geom.DPoint, widths, spacings []float64, cfg BundleConfig) ([]*Path, error) {
	n := len(starts)
	if n == 0 {
		return nil, fmt.Errorf("route: bundle has no lanes")
	}
	if len(ends) != n || len(widths) != n || len(spacings) != n {
		return nil, fmt.Errorf("route: bundle wants %d ends/widths/spacings, got %d/%d/%d",
			n, len(ends), len(widths), len(spacings))
	}
	if len(backbone) < 2 {
		return nil, ErrBackboneTooShort
	}

	lanes := bundleBackbones(backbone, widths, spacings)
	paths := make([]*Path, 0, n)
	for i, lane := range lanes {
		lane = reconcileStart(starts[i], lane, cfg.referenceOffset())
		lane = reverse(reconcileStart(ends[i], reverse(lane), cfg.referenceOffset()))
		path, err := Route(starts[i], lane, widths[i], cfg.Config)
		if err != nil {
			return nil, fmt.Errorf("route: lane %d: %w", i, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// bundleBackbones shifts the shared backbone into one centerline per lane.
// Lane offsets are running sums of half-width plus half-spacing on each side,
// centered on the original line. Shifted segments are rejoined at the cut
// points of consecutive edges.
func bundleBackbones(backbone []geom.DPoint, widths, spacings []float64) [][]geom.DPoint {
	edges := make([]geom.DEdge, 0, len(backbone)-1)
	for i := 0; i+1 < len(backbone); i++ {
		edges = append(edges, geom.DEdge{P1: backbone[i], P2: backbone[i+1]})
	}
	total := 0.0
	for i := range widths {
		total += widths[i] + spacings[i]
	}
	x := -total / 2
	lanes := make([][]geom.DPoint, 0, len(widths))
	for i := range widths {
		x += widths[i]/2 + spacings[i]/2
		shifted := make([]geom.DEdge, len(edges))
		for j, e := range edges {
			shifted[j] = e.Shifted(x)
		}
		pts := make([]geom.DPoint, 0, len(backbone))
		pts = append(pts, shifted[0].P1)
		for j := 0; j+1 < len(shifted); j++ {
			if cut, ok := shifted[j].CutPoint(shifted[j+1]); ok {
				pts = append(pts, cut)
			} else {
				pts = append(pts, shifted[j].P2)
			}
		}
		pts = append(pts, shifted[len(shifted)-1].P2)
		lanes = append(lanes, pts)
		x += widths[i]/2 + spacings[i]/2
	}
	return lanes
}

// reconcileStart replaces the lane's first waypoint with a connection to the
// real port: the cut point of the port's forward ray with the first segment
// when it lies ahead of both, a rectangular dog-leg at the reference offset
// otherwise.
func reconcileStart(port geom.DCplxTrans, lane []geom.DPoint, refOffset float64) []geom.DPoint {
	pp := geom.DPoint{X: port.Disp.X, Y: port.Disp.Y}
	dir := geom.NewDCplxTrans(1, port.Angle, false, 0, 0).ApplyVector(geom.DVector{X: 1})
	ray := geom.DEdge{P1: pp, P2: pp.Add(dir)}
	seg := geom.DEdge{P1: lane[0], P2: lane[1]}
	segDir := seg.Vector().Scale(1 / seg.Length())

	if cut, ok := ray.CutPoint(seg); ok {
		ahead := cut.Sub(pp).Dot(dir) > geomTol
		before := lane[1].Sub(cut).Dot(segDir) > geomTol
		if ahead && before {
			return dedupe(append([]geom.DPoint{pp, cut}, lane[1:]...))
		}
	}
	// Dog-leg: straight out of the port, then perpendicular onto the lane
	// line.
	a := pp.Add(dir.Scale(refOffset))
	foot := lane[0].Add(segDir.Scale(a.Sub(lane[0]).Dot(segDir)))
	return dedupe(append([]geom.DPoint{pp, a, foot}, lane[1:]...))
}

func reverse(pts []geom.DPoint) []geom.DPoint {
	out := make([]geom.DPoint, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func dedupe(pts []geom.DPoint) []geom.DPoint {
	out := pts[:1]
	for _, p := range pts[1:] {
		if p.Distance(out[len(out)-1]) > geomTol {
			out = append(out, p)
		}
	}
	return out
}
