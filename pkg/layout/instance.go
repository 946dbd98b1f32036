package layout

import (
	"fmt"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// Instance is a placement of a target cell inside a parent cell: a transform
// plus an optional regular array (basis vectors and repeat counts). An
// instance owns no ports; its ports are computed on demand by composing the
// placement transform with the target cell's local ports.
type Instance struct {
	name   string
	parent *Cell
	target *Cell
	trans  portTrans

	a, b   geom.Vector
	na, nb int
}

// Name returns the instance name, which may be empty.
func (in *Instance) Name() string {
	return in.name
}

// Cell returns the target cell of the instance.
func (in *Instance) Cell() *Cell {
	return in.target
}

// IsArray reports whether the instance is a regular array.
func (in *Instance) IsArray() bool {
	return in.na > 1 || in.nb > 1
}

// Counts returns the array repeat counts; (1,1) for a plain instance.
func (in *Instance) Counts() (na, nb int) {
	return in.na, in.nb
}

// Basis returns the array basis vectors in grid units.
func (in *Instance) Basis() (a, b geom.Vector) {
	return in.a, in.b
}

// Trans returns the placement as a simple grid transform, rounded if the
// placement is complex.
func (in *Instance) Trans() geom.Trans {
	if in.trans.complex {
		return in.trans.cplx.STrans(in.parent.lay.dbu)
	}
	return in.trans.simple
}

// DCplxTrans returns the placement as a complex transform.
func (in *Instance) DCplxTrans() geom.DCplxTrans {
	if in.trans.complex {
		return in.trans.cplx
	}
	return in.trans.simple.ToDCplx(in.parent.lay.dbu)
}

// IsComplex reports whether the placement is stored as a complex transform.
func (in *Instance) IsComplex() bool {
	return in.trans.complex
}

// Ports returns resolved copies of the target cell's ports for the first
// array element. Resolution never mutates cell or instance state.
func (in *Instance) Ports() ([]*Port, error) {
	return in.PortsAt(0, 0)
}

// PortsAt returns resolved copies of the target cell's ports for array
// element (ia, ib): each port transform is instance * local, shifted by
// ia*a + ib*b in the parent frame.
func (in *Instance) PortsAt(ia, ib int) ([]*Port, error) {
	if in.target.destroyed {
		return nil, fmt.Errorf("layout: cell %q is destroyed", in.target.name)
	}
	if ia < 0 || ia >= in.na || ib < 0 || ib >= in.nb {
		return nil, fmt.Errorf("layout: array index (%d,%d) outside %dx%d", ia, ib, in.na, in.nb)
	}
	shift := in.a.Scale(ia).Add(in.b.Scale(ib))
	out := make([]*Port, 0, len(in.target.ports))
	for _, p := range in.target.ports {
		out = append(out, in.resolve(p, shift))
	}
	return out, nil
}

// Port resolves a single named port of the first array element.
func (in *Instance) Port(name string) (*Port, error) {
	if in.target.destroyed {
		return nil, fmt.Errorf("layout: cell %q is destroyed", in.target.name)
	}
	p, ok := in.target.PortByName(name)
	if !ok {
		return nil, fmt.Errorf("layout: cell %q has no port %q", in.target.name, name)
	}
	return in.resolve(p, geom.Vector{}), nil
}

func (in *Instance) resolve(p *Port, shift geom.Vector) *Port {
	if in.trans.complex {
		t := geom.Trans{Disp: shift}.ToDCplx(in.parent.lay.dbu).Mul(in.trans.cplx)
		return p.CopyD(t, geom.DCplxR0)
	}
	return p.Copy(geom.Trans{Disp: shift}.Mul(in.trans.simple), geom.TransR0)
}

// BBox returns the bounding box of the instance on a layer in the parent
// frame, covering all array elements.
func (in *Instance) BBox(layer LayerInfo) geom.Box {
	base := in.target.BBox(layer)
	if base.Empty() {
		return geom.Box{}
	}
	var out geom.Box
	if in.trans.complex {
		d := base.ToD(in.parent.lay.dbu).Transformed(in.trans.cplx)
		out = geom.NewBox(
			in.parent.lay.ToDBU(geom.DVector{X: d.Left, Y: d.Bottom}).X,
			in.parent.lay.ToDBU(geom.DVector{X: d.Left, Y: d.Bottom}).Y,
			in.parent.lay.ToDBU(geom.DVector{X: d.Right, Y: d.Top}).X,
			in.parent.lay.ToDBU(geom.DVector{X: d.Right, Y: d.Top}).Y,
		)
	} else {
		out = base.Transformed(in.trans.simple)
	}
	// An array covers the union over the corner elements.
	full := out
	for _, s := range []geom.Vector{
		in.a.Scale(in.na - 1),
		in.b.Scale(in.nb - 1),
		in.a.Scale(in.na - 1).Add(in.b.Scale(in.nb - 1)),
	} {
		full = full.Union(geom.Box{
			Left:   out.Left + s.X,
			Bottom: out.Bottom + s.Y,
			Right:  out.Right + s.X,
			Top:    out.Top + s.Y,
		})
	}
	return full
}

// String renders the instance for debugging.
func (in *Instance) String() string {
	name := in.name
	if name == "" {
		name = "<unnamed>"
	}
	if in.IsArray() {
		return fmt.Sprintf("Instance(%s -> %s %v %dx%d)", name, in.target.name, in.Trans(), in.na, in.nb)
	}
	return fmt.Sprintf("Instance(%s -> %s %v)", name, in.target.name, in.Trans())
}
