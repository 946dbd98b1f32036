package layout

import (
	"fmt"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// Cell is a named container of shapes, boundary ports and sub-cell instances.
type Cell struct {
	name      string
	lay       *Layout
	ports     []*Port
	insts     []*Instance
	shapes    map[LayerInfo][]geom.Polygon
	destroyed bool
}

// Name returns the cell name.
func (c *Cell) Name() string {
	return c.name
}

// Layout returns the owning layout.
func (c *Cell) Layout() *Layout {
	return c.lay
}

// Destroyed reports whether the cell was deleted from its layout.
func (c *Cell) Destroyed() bool {
	return c.destroyed
}

// AddPort copies the given port into the cell's port list and returns the
// owned copy.
func (c *Cell) AddPort(p *Port) *Port {
	own := p.clone()
	own.lay = c.lay
	c.ports = append(c.ports, own)
	return own
}

// CreatePort creates a boundary port on the cell at a simple grid transform.
func (c *Cell) CreatePort(name string, cross *CrossSection, portType string, trans geom.Trans) *Port {
	p := NewPort(c.lay, name, cross, portType, trans)
	c.ports = append(c.ports, p)
	return p
}

// CreateDPort creates a boundary port on the cell at a complex transform.
func (c *Cell) CreateDPort(name string, cross *CrossSection, portType string, trans geom.DCplxTrans) *Port {
	p := NewDPort(c.lay, name, cross, portType, trans)
	c.ports = append(c.ports, p)
	return p
}

// Ports returns the cell's boundary ports. The slice is a copy; the ports are
// the owned originals.
func (c *Cell) Ports() []*Port {
	out := make([]*Port, len(c.ports))
	copy(out, c.ports)
	return out
}

// PortByName returns the first boundary port with the given name.
func (c *Cell) PortByName(name string) (*Port, bool) {
	for _, p := range c.ports {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// AddShape adds a polygon on the given layer.
func (c *Cell) AddShape(layer LayerInfo, poly geom.Polygon) {
	c.lay.Layer(layer)
	c.shapes[layer] = append(c.shapes[layer], poly)
}

// AddBox adds a rectangle on the given layer.
func (c *Cell) AddBox(layer LayerInfo, box geom.Box) {
	c.AddShape(layer, box.ToPolygon())
}

// Shapes returns the cell's own shapes on a layer (no instance shapes).
func (c *Cell) Shapes(layer LayerInfo) []geom.Polygon {
	return c.shapes[layer]
}

// CreateInstance places a sub-cell at a simple grid transform.
func (c *Cell) CreateInstance(name string, target *Cell, trans geom.Trans) (*Instance, error) {
	return c.createInstance(name, target, portTrans{simple: trans}, geom.Vector{}, geom.Vector{}, 1, 1)
}

// CreateDInstance places a sub-cell at a complex transform.
func (c *Cell) CreateDInstance(name string, target *Cell, trans geom.DCplxTrans) (*Instance, error) {
	return c.createInstance(name, target, portTrans{complex: true, cplx: trans}, geom.Vector{}, geom.Vector{}, 1, 1)
}

// CreateArray places a regular array of a sub-cell: na x nb repetitions along
// the basis vectors a and b (grid units), each at trans composed with the
// element shift.
func (c *Cell) CreateArray(name string, target *Cell, trans geom.Trans, a, b geom.Vector, na, nb int) (*Instance, error) {
	if na < 1 || nb < 1 {
		return nil, fmt.Errorf("layout: array counts must be positive, got %dx%d", na, nb)
	}
	return c.createInstance(name, target, portTrans{simple: trans}, a, b, na, nb)
}

func (c *Cell) createInstance(name string, target *Cell, trans portTrans, a, b geom.Vector, na, nb int) (*Instance, error) {
	if target == nil {
		return nil, fmt.Errorf("layout: instance target is nil")
	}
	if target.destroyed {
		return nil, fmt.Errorf("layout: cell %q is destroyed", target.name)
	}
	if target.lay != c.lay {
		return nil, fmt.Errorf("layout: cell %q belongs to a different layout", target.name)
	}
	inst := &Instance{
		name:   name,
		parent: c,
		target: target,
		trans:  trans,
		a:      a,
		b:      b,
		na:     na,
		nb:     nb,
	}
	c.insts = append(c.insts, inst)
	return inst, nil
}

// Instances returns the cell's direct instances.
func (c *Cell) Instances() []*Instance {
	out := make([]*Instance, len(c.insts))
	copy(out, c.insts)
	return out
}

// BBox returns the bounding box of the cell on one layer in grid units,
// including instance contributions.
func (c *Cell) BBox(layer LayerInfo) geom.Box {
	var b geom.Box
	for _, poly := range c.shapes[layer] {
		b = b.Union(poly.BBox())
	}
	for _, inst := range c.insts {
		b = b.Union(inst.BBox(layer))
	}
	return b
}

// DBBox returns the bounding box of the cell on one layer in micrometers.
func (c *Cell) DBBox(layer LayerInfo) geom.DBox {
	return c.BBox(layer).ToD(c.lay.dbu)
}
