package layout

import (
	"fmt"
	"math"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// portTrans is the tagged transform representation of a port: either a simple
// grid transform or a complex micrometer transform, never both. Which one is
// stored is an implementation detail; the accessors convert on demand.
type portTrans struct {
	complex bool
	simple  geom.Trans
	cplx    geom.DCplxTrans
}

// Port is a directional connection point: a position and orientation (via a
// transform), a cross-section (layer + nominal width), a free-form port type
// such as "optical" or "electrical", and opaque metadata.
//
// A port either lives in a cell's port list or stands alone (synthesized by
// routing). Ports obtained from instances are always computed copies.
type Port struct {
	Name     string
	PortType string
	Info     map[string]string

	cross *CrossSection
	lay   *Layout
	trans portTrans
}

// NewPort creates a standalone port at a simple grid transform.
func NewPort(lay *Layout, name string, cross *CrossSection, portType string, trans geom.Trans) *Port {
	return &Port{
		Name:     name,
		PortType: portType,
		cross:    cross,
		lay:      lay,
		trans:    portTrans{simple: trans},
	}
}

// NewDPort creates a standalone port at a complex transform. Exactly
// grid-aligned, unscaled transforms are narrowed to the simple representation.
func NewDPort(lay *Layout, name string, cross *CrossSection, portType string, trans geom.DCplxTrans) *Port {
	p := &Port{
		Name:     name,
		PortType: portType,
		cross:    cross,
		lay:      lay,
	}
	p.SetDCplxTrans(trans)
	return p
}

// Layout returns the layout the port resolves its units against.
func (p *Port) Layout() *Layout {
	return p.lay
}

// CrossSection returns the shared, immutable cross-section of the port.
func (p *Port) CrossSection() *CrossSection {
	return p.cross
}

// Width returns the nominal width in grid units.
func (p *Port) Width() int {
	return p.cross.Width()
}

// DWidth returns the nominal width in micrometers.
func (p *Port) DWidth() float64 {
	return float64(p.cross.Width()) * p.lay.dbu
}

// Layer returns the port's layer.
func (p *Port) Layer() LayerInfo {
	return p.cross.Layer()
}

// Trans returns the simple grid transform of the port. If the port stores a
// complex transform the result is rounded to the grid and the 90 degree
// raster; use DCplxTrans when exactness matters.
func (p *Port) Trans() geom.Trans {
	if p.trans.complex {
		return p.trans.cplx.STrans(p.lay.dbu)
	}
	return p.trans.simple
}

// DCplxTrans returns the complex micrometer transform of the port. The
// conversion from a stored simple transform is exact.
func (p *Port) DCplxTrans() geom.DCplxTrans {
	if p.trans.complex {
		return p.trans.cplx
	}
	return p.trans.simple.ToDCplx(p.lay.dbu)
}

// SetTrans stores a simple grid transform, dropping any complex one.
func (p *Port) SetTrans(t geom.Trans) {
	p.trans = portTrans{simple: t}
}

// SetDCplxTrans stores a complex transform. A value that is exactly
// representable on the grid (magnification 1, angle on the 90 degree raster,
// displacement on grid points) is narrowed to the simple representation
// instead.
func (p *Port) SetDCplxTrans(t geom.DCplxTrans) {
	if s, err := t.ToTrans(p.lay.dbu); err == nil {
		p.trans = portTrans{simple: s}
		return
	}
	p.trans = portTrans{complex: true, cplx: t}
}

// X returns the x position in grid units.
func (p *Port) X() int { return p.Trans().Disp.X }

// Y returns the y position in grid units.
func (p *Port) Y() int { return p.Trans().Disp.Y }

// DX returns the x position in micrometers.
func (p *Port) DX() float64 { return p.DCplxTrans().Disp.X }

// DY returns the y position in micrometers.
func (p *Port) DY() float64 { return p.DCplxTrans().Disp.Y }

// Angle returns the orientation as a quadrant count 0-3.
func (p *Port) Angle() int { return p.Trans().Rot }

// SetAngle forces the simple representation and sets the quadrant.
func (p *Port) SetAngle(rot int) {
	t := p.Trans()
	t.Rot = ((rot % 4) + 4) % 4
	p.trans = portTrans{simple: t}
}

// Orientation returns the orientation in degrees.
func (p *Port) Orientation() float64 { return p.DCplxTrans().Angle }

// SetOrientation sets the orientation in degrees. Multiples of 90 on a
// grid-aligned port keep the simple representation; anything else promotes
// the port to a complex transform.
func (p *Port) SetOrientation(deg float64) {
	if !p.trans.complex && math.Mod(geom.NormalizeAngle(deg), 90) == 0 {
		p.trans.simple.Rot = int(geom.NormalizeAngle(deg)) / 90
		return
	}
	t := p.DCplxTrans()
	t.Angle = deg
	p.SetDCplxTrans(t)
}

// Mirror returns the mirror flag of the transform.
func (p *Port) Mirror() bool {
	if p.trans.complex {
		return p.trans.cplx.Mirror
	}
	return p.trans.simple.Mirror
}

// SetMirror sets the mirror flag without touching the representation.
func (p *Port) SetMirror(m bool) {
	if p.trans.complex {
		p.trans.cplx.Mirror = m
		return
	}
	p.trans.simple.Mirror = m
}

// Copy returns a new port with transform trans * port * post. The source is
// never mutated; the cross-section reference is shared, the info map copied.
func (p *Port) Copy(trans, post geom.Trans) *Port {
	out := p.clone()
	if !p.trans.complex {
		out.trans = portTrans{simple: trans.Mul(p.trans.simple).Mul(post)}
		return out
	}
	dbu := p.lay.dbu
	out.trans = portTrans{
		complex: true,
		cplx:    trans.ToDCplx(dbu).Mul(p.trans.cplx).Mul(post.ToDCplx(dbu)),
	}
	return out
}

// CopyD returns a new port with complex transform trans * port * post.
func (p *Port) CopyD(trans, post geom.DCplxTrans) *Port {
	out := p.clone()
	out.trans = portTrans{
		complex: true,
		cplx:    trans.Mul(p.DCplxTrans()).Mul(post),
	}
	return out
}

// CopyPolar returns a copy of the port placed relative to it: d along the
// port direction, dOrth orthogonal to it (positive is left for a port facing
// 0 degrees), turned by angle quadrants and optionally mirrored.
func (p *Port) CopyPolar(d, dOrth, angle int, mirror bool) *Port {
	return p.Copy(geom.TransR0, geom.NewTrans(angle, mirror, d, dOrth))
}

// DCopyPolar is CopyPolar in continuous units with the angle in degrees.
func (p *Port) DCopyPolar(d, dOrth, angle float64, mirror bool) *Port {
	return p.CopyD(geom.DCplxR0, geom.NewDCplxTrans(1, angle, mirror, d, dOrth))
}

// Equal reports structural equality: same name, type, cross-section, info and
// stored transform representation.
func (p *Port) Equal(o *Port) bool {
	if p.Name != o.Name || p.PortType != o.PortType || p.cross != o.cross {
		return false
	}
	if len(p.Info) != len(o.Info) {
		return false
	}
	for k, v := range p.Info {
		if ov, ok := o.Info[k]; !ok || ov != v {
			return false
		}
	}
	if p.trans.complex != o.trans.complex {
		return false
	}
	if p.trans.complex {
		return p.trans.cplx.Equal(o.trans.cplx)
	}
	return p.trans.simple == o.trans.simple
}

// String renders the port for debugging and report messages.
func (p *Port) String() string {
	name := p.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("Port(%s %s %s %s)", name, p.PortType, p.cross, p.DCplxTrans())
}

func (p *Port) clone() *Port {
	out := &Port{
		Name:     p.Name,
		PortType: p.PortType,
		cross:    p.cross,
		lay:      p.lay,
		trans:    p.trans,
	}
	if p.Info != nil {
		out.Info = make(map[string]string, len(p.Info))
		for k, v := range p.Info {
			out.Info[k] = v
		}
	}
	return out
}
