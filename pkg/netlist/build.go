package netlist

import (
	"errors"
	"fmt"
	"sort"

	"github.com/OpenPhotonLab/photonkit/pkg/layout"
)

// Options controls connectivity extraction.
type Options struct {
	// PortTypes restricts extraction to ports of the listed types. Empty
	// means all types participate.
	PortTypes []string
}

func (o Options) allows(portType string) bool {
	if len(o.PortTypes) == 0 {
		return true
	}
	for _, t := range o.PortTypes {
		if t == portType {
			return true
		}
	}
	return false
}

// bucketKey identifies a connection point: grid position, facing axis and
// layer. Opposite-facing ports at the same point map to the same key.
type bucketKey struct {
	x, y   int
	parity int
	layer  layout.LayerInfo
}

func keyFor(p *layout.Port) bucketKey {
	t := p.Trans()
	return bucketKey{
		x:      t.Disp.X,
		y:      t.Disp.Y,
		parity: ((t.Rot % 2) + 2) % 2,
		layer:  p.Layer(),
	}
}

type instPort struct {
	sub  *SubCircuit
	port *layout.Port
}

// Build extracts connectivity for top and every cell it instantiates,
// bottom-up. A topology error in one cell aborts that cell's circuit only;
// circuits of other cells are still extracted and committed. The returned
// error joins the per-cell failures.
func Build(top *layout.Cell, opts Options) (*Netlist, error) {
	if top == nil {
		return nil, fmt.Errorf("netlist: top cell is nil")
	}
	nl := newNetlist()
	cells := append(top.Layout().CalledCells(top), top)
	var errs []error
	for _, cell := range cells {
		circ, err := buildCircuit(cell, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		layout.Log().Debug("netlist: extracted circuit",
			"cell", circ.Name, "nets", len(circ.Nets), "pins", len(circ.Pins))
		nl.add(circ)
	}
	return nl, errors.Join(errs...)
}

func buildCircuit(cell *layout.Cell, opts Options) (*Circuit, error) {
	circ := &Circuit{Name: cell.Name()}

	// Boundary ports, bucketed by connection point. Colliding pin names
	// make the circuit's interface ambiguous.
	boundary := make(map[bucketKey][]*layout.Port)
	seenNames := make(map[string]bool)
	for _, p := range cell.Ports() {
		if !opts.allows(p.PortType) {
			continue
		}
		if seenNames[p.Name] {
			return nil, &TopologyError{
				Cell:   cell.Name(),
				Reason: "duplicate boundary port name",
				Ports:  []string{p.Name},
			}
		}
		seenNames[p.Name] = true
		boundary[keyFor(p)] = append(boundary[keyFor(p)], p)
	}

	instBuckets := make(map[bucketKey][]instPort)
	for _, inst := range cell.Instances() {
		na, nb := inst.Counts()
		for ia := 0; ia < na; ia++ {
			for ib := 0; ib < nb; ib++ {
				name := inst.Name()
				if inst.IsArray() {
					name = fmt.Sprintf("%s[%d,%d]", inst.Name(), ia, ib)
				}
				sub := &SubCircuit{Name: name, Cell: inst.Cell().Name()}
				circ.Subs = append(circ.Subs, sub)
				ports, err := inst.PortsAt(ia, ib)
				if err != nil {
					return nil, fmt.Errorf("netlist: cell %q: %w", cell.Name(), err)
				}
				for _, p := range ports {
					if !opts.allows(p.PortType) {
						continue
					}
					instBuckets[keyFor(p)] = append(instBuckets[keyFor(p)], instPort{sub: sub, port: p})
				}
			}
		}
	}

	// One net per boundary bucket; coincident boundary ports share it.
	boundaryNets := make(map[bucketKey]*Net)
	for _, key := range sortedKeys(boundary) {
		ports := boundary[key]
		sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
		net := &Net{Name: ports[0].Name}
		for _, p := range ports {
			pin := &Pin{Name: p.Name, Net: net}
			net.Pins = append(net.Pins, pin)
			circ.Pins = append(circ.Pins, pin)
		}
		circ.Nets = append(circ.Nets, net)
		boundaryNets[key] = net
	}

	for _, key := range sortedKeys(instBuckets) {
		group := instBuckets[key]
		if net, ok := boundaryNets[key]; ok {
			if len(group) > 1 {
				return nil, &TopologyError{
					Cell:   cell.Name(),
					Reason: "multiple instance ports collide with a boundary pin",
					Ports:  portNames(group),
				}
			}
			ip := group[0]
			for _, bp := range boundary[key] {
				if m := layout.CheckCoincident(bp, ip.port); m != 0 {
					circ.Warnings = append(circ.Warnings, fmt.Sprintf(
						"%s between %s and %s/%s", m, bp.Name, ip.sub.Name, ip.port.Name))
				}
			}
			pin := &Pin{Name: ip.port.Name, Sub: ip.sub.Name, Net: net}
			net.Pins = append(net.Pins, pin)
			ip.sub.Pins = append(ip.sub.Pins, pin)
			continue
		}
		switch len(group) {
		case 1:
			// Dangling instance port, allowed.
			ip := group[0]
			ip.sub.Pins = append(ip.sub.Pins, &Pin{Name: ip.port.Name, Sub: ip.sub.Name})
		case 2:
			a, b := group[0], group[1]
			if m := layout.CheckOpposite(a.port, b.port); m != 0 {
				circ.Warnings = append(circ.Warnings, fmt.Sprintf(
					"%s between %s/%s and %s/%s", m, a.sub.Name, a.port.Name, b.sub.Name, b.port.Name))
			}
			net := &Net{Name: fmt.Sprintf("%s_%s-%s_%s", a.sub.Name, a.port.Name, b.sub.Name, b.port.Name)}
			for _, ip := range []instPort{a, b} {
				pin := &Pin{Name: ip.port.Name, Sub: ip.sub.Name, Net: net}
				net.Pins = append(net.Pins, pin)
				ip.sub.Pins = append(ip.sub.Pins, pin)
			}
			circ.Nets = append(circ.Nets, net)
		default:
			return nil, &TopologyError{
				Cell:   cell.Name(),
				Reason: fmt.Sprintf("%d ports collide at one point", len(group)),
				Ports:  portNames(group),
			}
		}
	}
	return circ, nil
}

func portNames(group []instPort) []string {
	out := make([]string, len(group))
	for i, ip := range group {
		out[i] = ip.sub.Name + "/" + ip.port.Name
	}
	return out
}

func sortedKeys[V any](m map[bucketKey]V) []bucketKey {
	keys := make([]bucketKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.layer != b.layer {
			if a.layer.Layer != b.layer.Layer {
				return a.layer.Layer < b.layer.Layer
			}
			return a.layer.Datatype < b.layer.Datatype
		}
		if a.y != b.y {
			return a.y < b.y
		}
		if a.x != b.x {
			return a.x < b.x
		}
		return a.parity < b.parity
	})
	return keys
}
