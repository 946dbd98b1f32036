// Package netlist extracts connectivity from a cell hierarchy. Ports that
// coincide in position and layer are grouped into nets, per cell, producing a
// circuit per cell with boundary pins and sub-circuit references.
package netlist

import (
	"fmt"
	"sort"
)

// Netlist holds the extracted circuits, one per cell.
type Netlist struct {
	circuits map[string]*Circuit
	order    []string
}

// Circuit is the connectivity of one cell: its boundary pins, its
// sub-circuit instances and the nets joining their pins.
type Circuit struct {
	Name string
	Nets []*Net
	Pins []*Pin
	Subs []*SubCircuit

	// Warnings records port compatibility findings (width, angle, type,
	// layer) for connected pairs. Findings never abort extraction.
	Warnings []string
}

// Net is a named connectivity group of pins within one circuit.
type Net struct {
	Name string
	Pins []*Pin
}

// Pin is a connection point on a net. Boundary pins have an empty Sub; pins
// on a sub-circuit name the instance element they belong to.
type Pin struct {
	Name string
	Sub  string
	Net  *Net
}

// SubCircuit is one placed instance element referencing another circuit.
type SubCircuit struct {
	Name string
	Cell string
	Pins []*Pin
}

func newNetlist() *Netlist {
	return &Netlist{circuits: make(map[string]*Circuit)}
}

func (nl *Netlist) add(c *Circuit) {
	nl.circuits[c.Name] = c
	nl.order = append(nl.order, c.Name)
}

// Circuit returns the circuit extracted for a cell name.
func (nl *Netlist) Circuit(name string) (*Circuit, bool) {
	c, ok := nl.circuits[name]
	return c, ok
}

// Circuits returns all circuits in extraction (bottom-up) order.
func (nl *Netlist) Circuits() []*Circuit {
	out := make([]*Circuit, 0, len(nl.order))
	for _, n := range nl.order {
		out = append(out, nl.circuits[n])
	}
	return out
}

// Top returns the circuit extracted last, the top cell of the build.
func (nl *Netlist) Top() *Circuit {
	if len(nl.order) == 0 {
		return nil
	}
	return nl.circuits[nl.order[len(nl.order)-1]]
}

// NetCount returns the total number of nets across all circuits.
func (nl *Netlist) NetCount() int {
	n := 0
	for _, c := range nl.circuits {
		n += len(c.Nets)
	}
	return n
}

// PinByName returns the boundary pin with the given name.
func (c *Circuit) PinByName(name string) (*Pin, bool) {
	for _, p := range c.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Sub returns the sub-circuit entry with the given instance element name.
func (c *Circuit) Sub(name string) (*SubCircuit, bool) {
	for _, s := range c.Subs {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// DanglingPins returns the sub-circuit pins not connected to any net.
func (c *Circuit) DanglingPins() []*Pin {
	var out []*Pin
	for _, s := range c.Subs {
		for _, p := range s.Pins {
			if p.Net == nil {
				out = append(out, p)
			}
		}
	}
	return out
}

// TopologyError reports an ambiguous connection topology in one cell. It is
// fatal to that cell's extraction; other cells are unaffected.
type TopologyError struct {
	Cell   string
	Reason string
	Ports  []string
}

func (e *TopologyError) Error() string {
	ports := append([]string(nil), e.Ports...)
	sort.Strings(ports)
	return fmt.Sprintf("netlist: cell %q: %s (ports %v)", e.Cell, e.Reason, ports)
}
