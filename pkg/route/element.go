// Package route synthesizes waveguide routes along waypoint backbones.
// Straight and bend elements come from pluggable generators; the router
// connects them edge-to-edge through transform composition and never computes
// absolute coordinates for element geometry itself.
package route

import (
	"fmt"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// Element is a placeable route piece with named connection ports. Port
// transforms are element-local, in micrometers, with each port facing out of
// the element.
type Element struct {
	Name  string
	Width float64
	Ports []ElementPort
}

// ElementPort is a named local port of an element.
type ElementPort struct {
	Name  string
	Trans geom.DCplxTrans
}

// Port returns the local transform of the named port.
func (e *Element) Port(name string) (geom.DCplxTrans, bool) {
	for _, p := range e.Ports {
		if p.Name == name {
			return p.Trans, true
		}
	}
	return geom.DCplxTrans{}, false
}

// StraightFactory produces a straight element of the given width and length.
// It must be deterministic for identical inputs.
type StraightFactory func(width, length float64) *Element

// BendFactory produces a bend element for the given width and positive corner
// angle in degrees. It must be deterministic for identical inputs.
type BendFactory func(width, angle float64) *Element

// Placement is one placed element: the element and its placement transform.
type Placement struct {
	Element *Element
	Trans   geom.DCplxTrans
}

// Port returns the resolved transform of a named element port.
func (p Placement) Port(name string) (geom.DCplxTrans, bool) {
	t, ok := p.Element.Port(name)
	if !ok {
		return geom.DCplxTrans{}, false
	}
	return p.Trans.Mul(t), true
}

// Path is a synthesized route: the placed elements in order and the resolved
// transform of the open end, facing along the travel direction.
type Path struct {
	Placements []Placement
	End        geom.DCplxTrans
}

// Length returns the number of placed elements.
func (p *Path) Length() int {
	return len(p.Placements)
}

func (p *Path) String() string {
	return fmt.Sprintf("path with %d elements ending at %s", len(p.Placements), p.End)
}
