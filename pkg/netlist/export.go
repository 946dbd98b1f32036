package netlist

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type jsonPin struct {
	Name string `json:"name"`
	Sub  string `json:"sub,omitempty"`
}

type jsonNet struct {
	Name string    `json:"name"`
	Pins []jsonPin `json:"pins"`
}

type jsonSub struct {
	Name string   `json:"name"`
	Cell string   `json:"cell"`
	Pins []string `json:"pins"`
}

type jsonCircuit struct {
	Name     string    `json:"name"`
	Pins     []string  `json:"pins"`
	Subs     []jsonSub `json:"subs,omitempty"`
	Nets     []jsonNet `json:"nets,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// ExportJSON writes the netlist as a JSON document, circuits in bottom-up
// order.
func (nl *Netlist) ExportJSON(w io.Writer) error {
	doc := struct {
		Version  string        `json:"version"`
		Circuits []jsonCircuit `json:"circuits"`
	}{Version: "1.0"}
	for _, c := range nl.Circuits() {
		jc := jsonCircuit{Name: c.Name, Warnings: c.Warnings}
		for _, p := range c.Pins {
			jc.Pins = append(jc.Pins, p.Name)
		}
		for _, s := range c.Subs {
			js := jsonSub{Name: s.Name, Cell: s.Cell}
			for _, p := range s.Pins {
				js.Pins = append(js.Pins, p.Name)
			}
			jc.Subs = append(jc.Subs, js)
		}
		for _, n := range c.Nets {
			jn := jsonNet{Name: n.Name}
			for _, p := range n.Pins {
				jn.Pins = append(jn.Pins, jsonPin{Name: p.Name, Sub: p.Sub})
			}
			jc.Nets = append(jc.Nets, jn)
		}
		doc.Circuits = append(doc.Circuits, jc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ExportKiCad writes the top circuit in a KiCad-style netlist format:
// components from sub-circuit instances, nets with (node) entries per pin.
func (nl *Netlist) ExportKiCad(w io.Writer) error {
	top := nl.Top()
	if top == nil {
		return fmt.Errorf("netlist: empty netlist")
	}
	var b strings.Builder
	b.WriteString("(export (version D)\n")
	b.WriteString("  (design\n")
	fmt.Fprintf(&b, "    (source %q)\n", top.Name)
	b.WriteString("  )\n")
	b.WriteString("  (components\n")
	for _, s := range top.Subs {
		fmt.Fprintf(&b, "    (comp (ref %s) (value %s))\n", s.Name, s.Cell)
	}
	b.WriteString("  )\n")
	b.WriteString("  (nets\n")
	for i, n := range top.Nets {
		fmt.Fprintf(&b, "    (net (code %d) (name %s)\n", i, n.Name)
		for _, p := range n.Pins {
			ref := top.Name
			if p.Sub != "" {
				ref = p.Sub
			}
			fmt.Fprintf(&b, "      (node (ref %s) (pin %s))\n", ref, p.Name)
		}
		b.WriteString("    )\n")
	}
	b.WriteString("  )\n")
	b.WriteString(")\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes a plain-text summary of all circuits.
func (nl *Netlist) WriteText(w io.Writer) error {
	for _, c := range nl.Circuits() {
		if _, err := fmt.Fprintf(w, "circuit %s\n", c.Name); err != nil {
			return err
		}
		for _, p := range c.Pins {
			fmt.Fprintf(w, "  pin %s\n", p.Name)
		}
		for _, s := range c.Subs {
			fmt.Fprintf(w, "  sub %s (%s)\n", s.Name, s.Cell)
		}
		for _, n := range c.Nets {
			names := make([]string, len(n.Pins))
			for i, p := range n.Pins {
				if p.Sub != "" {
					names[i] = p.Sub + "/" + p.Name
				} else {
					names[i] = p.Name
				}
			}
			fmt.Fprintf(w, "  net %s: %s\n", n.Name, strings.Join(names, " "))
		}
		for _, msg := range c.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", msg)
		}
	}
	return nil
}
