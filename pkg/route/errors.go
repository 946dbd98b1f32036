package route

import (
	"errors"
	"fmt"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// ErrBackboneTooShort is returned when a backbone has fewer than three
// waypoints. No bend can be placed, so the route is rejected before any
// placement happens.
var ErrBackboneTooShort = errors.New("route: backbone needs at least 3 waypoints")

// InsufficientSpaceError reports that the straight run between two waypoints
// is too short for the bends flanking it. Geometry is never clamped or
// overlapped; the route fails instead.
type InsufficientSpaceError struct {
	From, To  geom.DPoint
	Needed    float64
	Available float64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("route: insufficient space between (%g,%g) and (%g,%g): need %g, have %g (deficit %g)",
		e.From.X, e.From.Y, e.To.X, e.To.Y, e.Needed, e.Available, e.Needed-e.Available)
}
