package route

import (
	"fmt"
	"math"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// Config supplies the generators and port naming for a route.
type Config struct {
	Straight StraightFactory
	Bend     BendFactory
	// EntryPort and ExitPort name the two connection ports every generated
	// element carries. Empty means "o1"/"o2".
	EntryPort, ExitPort string
}

func (c Config) portNames() (entry, exit string) {
	entry, exit = c.EntryPort, c.ExitPort
	if entry == "" {
		entry = "o1"
	}
	if exit == "" {
		exit = "o2"
	}
	return
}

// geomTol is the tolerance for length and angle comparisons, in micrometers
// and degrees.
const geomTol = 1e-6

// cachedBend is one memoized bend for an absolute turn angle, with the
// effective radius derived from its own port geometry.
type cachedBend struct {
	elem      *Element
	effRadius float64
}

// router is the per-call state machine: the cursor transform at the open end
// of the route and the bend memo. Each Route call owns its own instance, so
// concurrent calls never share mutable state.
type router struct {
	cfg    Config
	width  float64
	cursor geom.DCplxTrans
	path   Path
	bends  map[int64]*cachedBend
}

// Route synthesizes a route along the backbone. The start port must already
// be placed at the first waypoint, facing the second one; elements are
// generated by the configured factories and connected edge-to-edge from
// there. The backbone needs at least three waypoints.
func Route(start geom.DCplxTrans, backbone []geom.DPoint, width float64, cfg Config) (*Path, error) {
	if len(backbone) < 3 {
		return nil, ErrBackboneTooShort
	}
	if cfg.Straight == nil || cfg.Bend == nil {
		return nil, fmt.Errorf("route: straight and bend factories are required")
	}
	if start.Disp.Sub(geom.DVector{X: backbone[0].X, Y: backbone[0].Y}).Length() > geomTol {
		return nil, fmt.Errorf("route: start port at (%g,%g) is not on the first waypoint (%g,%g)",
			start.Disp.X, start.Disp.Y, backbone[0].X, backbone[0].Y)
	}
	travel := backbone[1].Sub(backbone[0]).Angle()
	if math.Abs(geom.NormalizeTurn(start.Angle-travel)) > geomTol {
		return nil, fmt.Errorf("route: start port faces %g, the second waypoint lies at %g",
			geom.NormalizeAngle(start.Angle), geom.NormalizeAngle(travel))
	}

	r := &router{
		cfg:   cfg,
		width: width,
		bends: make(map[int64]*cachedBend),
	}
	// The cursor sits at the route's open end facing the travel direction.
	r.cursor = geom.NewDCplxTrans(1, backbone[1].Sub(backbone[0]).Angle(), false, backbone[0].X, backbone[0].Y)

	runStart := backbone[0]
	startOffset := 0.0
	for i := 1; i < len(backbone)-1; i++ {
		p, next := backbone[i], backbone[i+1]
		turn := geom.NormalizeTurn(next.Sub(p).Angle() - p.Sub(runStart).Angle())
		if math.Abs(turn) <= geomTol {
			// Collinear waypoint: the straight runs merge.
			continue
		}
		bend, err := r.bend(math.Abs(turn))
		if err != nil {
			return nil, err
		}
		dist := p.Sub(runStart).Length()
		straightLen := dist - startOffset - bend.effRadius
		if straightLen < -geomTol {
			return nil, &InsufficientSpaceError{
				From:      runStart,
				To:        p,
				Needed:    startOffset + bend.effRadius,
				Available: dist,
			}
		}
		if straightLen > geomTol {
			if err := r.place(r.cfg.Straight(width, straightLen), false); err != nil {
				return nil, err
			}
		}
		if err := r.place(bend.elem, turn < 0); err != nil {
			return nil, err
		}
		runStart = p
		startOffset = bend.effRadius
	}

	last := backbone[len(backbone)-1]
	dist := last.Sub(runStart).Length()
	closing := dist - startOffset
	if closing < -geomTol {
		return nil, &InsufficientSpaceError{
			From:      runStart,
			To:        last,
			Needed:    startOffset,
			Available: dist,
		}
	}
	if closing > geomTol {
		if err := r.place(r.cfg.Straight(width, closing), false); err != nil {
			return nil, err
		}
	}
	r.path.End = r.cursor
	return &r.path, nil
}

// bend memoizes bend generation per absolute angle within this call, so an
// angle and its negative share one element.
func (r *router) bend(absAngle float64) (*cachedBend, error) {
	key := int64(math.Round(absAngle * 1e9))
	if b, ok := r.bends[key]; ok {
		return b, nil
	}
	elem := r.cfg.Bend(r.width, absAngle)
	eff, err := effectiveRadius(elem, r.cfg)
	if err != nil {
		return nil, err
	}
	b := &cachedBend{elem: elem, effRadius: eff}
	r.bends[key] = b
	return b, nil
}

// effectiveRadius anchors a bend to the actual turn geometry: the distance
// from its entry port to the cut point of the tangent rays through both
// ports.
func effectiveRadius(elem *Element, cfg Config) (float64, error) {
	entry, exit := cfg.portNames()
	t1, ok := elem.Port(entry)
	if !ok {
		return 0, fmt.Errorf("route: element %q has no port %q", elem.Name, entry)
	}
	t2, ok := elem.Port(exit)
	if !ok {
		return 0, fmt.Errorf("route: element %q has no port %q", elem.Name, exit)
	}
	ray1 := tangentRay(t1)
	ray2 := tangentRay(t2)
	cut, ok := ray1.CutPoint(ray2)
	if !ok {
		return 0, fmt.Errorf("route: element %q has parallel port tangents, no turn point", elem.Name)
	}
	return cut.Sub(geom.DPoint{X: t1.Disp.X, Y: t1.Disp.Y}).Length(), nil
}

func tangentRay(t geom.DCplxTrans) geom.DEdge {
	p1 := geom.DPoint{X: t.Disp.X, Y: t.Disp.Y}
	d := geom.NewDCplxTrans(1, t.Angle, false, 0, 0).ApplyVector(geom.DVector{X: 1})
	return geom.DEdge{P1: p1, P2: geom.DPoint{X: p1.X + d.X, Y: p1.Y + d.Y}}
}

// place connects an element to the cursor: the chosen entry port's resolved
// transform equals the cursor with opposite orientation. For right turns the
// element is traversed backwards, so entry and exit swap.
func (r *router) place(elem *Element, reversed bool) error {
	entry, exit := r.cfg.portNames()
	if reversed {
		entry, exit = exit, entry
	}
	entryT, ok := elem.Port(entry)
	if !ok {
		return fmt.Errorf("route: element %q has no port %q", elem.Name, entry)
	}
	exitT, ok := elem.Port(exit)
	if !ok {
		return fmt.Errorf("route: element %q has no port %q", elem.Name, exit)
	}
	placement := r.cursor.Mul(geom.DCplxR180).Mul(entryT.Inverted())
	r.path.Placements = append(r.path.Placements, Placement{Element: elem, Trans: placement})
	r.cursor = placement.Mul(exitT)
	return nil
}
