package netlist

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
	"github.com/OpenPhotonLab/photonkit/pkg/layout"
)

var wg = layout.LayerInfo{Layer: 1, Datatype: 0}

// straightCell builds a two-port pass-through cell of the given length.
func straightCell(t *testing.T, lay *layout.Layout, name string, length, width int) *layout.Cell {
	t.Helper()
	c, err := lay.CreateCell(name)
	if err != nil {
		t.Fatalf("CreateCell(%s): %v", name, err)
	}
	xs := lay.CrossSection(wg, width)
	c.CreatePort("o1", xs, "optical", geom.NewTrans(2, false, 0, 0))
	c.CreatePort("o2", xs, "optical", geom.NewTrans(0, false, length, 0))
	c.AddBox(wg, geom.NewBox(0, -width/2, length, width/2))
	return c
}

func TestBuildChain(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	xs := lay.CrossSection(wg, 500)

	top, _ := lay.CreateCell("top")
	top.CreatePort("in", xs, "optical", geom.NewTrans(2, false, 0, 0))
	top.CreatePort("out", xs, "optical", geom.NewTrans(0, false, 20000, 0))
	if _, err := top.CreateInstance("s1", straight, geom.TransR0); err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	if _, err := top.CreateInstance("s2", straight, geom.NewTrans(0, false, 10000, 0)); err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}

	nl, err := Build(top, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, ok := nl.Circuit("straight"); !ok {
		t.Fatalf("sub-cell circuit missing")
	}
	circ, ok := nl.Circuit("top")
	if !ok {
		t.Fatalf("top circuit missing")
	}
	if nl.Top() != circ {
		t.Fatalf("Top() should be the last extracted circuit")
	}
	if len(circ.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", circ.Warnings)
	}
	if len(circ.Nets) != 3 {
		t.Fatalf("got %d nets, want 3 (in, out, internal)", len(circ.Nets))
	}
	if len(circ.Subs) != 2 {
		t.Fatalf("got %d subs, want 2", len(circ.Subs))
	}

	in, ok := circ.PinByName("in")
	if !ok || in.Net == nil {
		t.Fatalf("boundary pin in missing or unconnected")
	}
	if len(in.Net.Pins) != 2 {
		t.Fatalf("in net has %d pins, want boundary + s1/o1", len(in.Net.Pins))
	}

	s1, _ := circ.Sub("s1")
	s2, _ := circ.Sub("s2")
	if s1 == nil || s2 == nil {
		t.Fatalf("sub-circuits missing: %v", circ.Subs)
	}
	var internal *Net
	for _, p := range s1.Pins {
		if p.Name == "o2" {
			internal = p.Net
		}
	}
	if internal == nil {
		t.Fatalf("s1/o2 not connected")
	}
	found := false
	for _, p := range s2.Pins {
		if p.Name == "o1" && p.Net == internal {
			found = true
		}
	}
	if !found {
		t.Fatalf("s1/o2 and s2/o1 not on the same net")
	}
	if len(circ.DanglingPins()) != 0 {
		t.Fatalf("unexpected dangling pins: %v", circ.DanglingPins())
	}
}

func TestBuildRecordsMismatchWarnings(t *testing.T) {
	lay := layout.NewLayout(0.001)
	narrow := straightCell(t, lay, "narrow", 10000, 500)
	wide := straightCell(t, lay, "wide", 10000, 600)

	top, _ := lay.CreateCell("top")
	top.CreateInstance("a", narrow, geom.TransR0)
	top.CreateInstance("b", wide, geom.NewTrans(0, false, 10000, 0))

	nl, err := Build(top, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	circ, _ := nl.Circuit("top")
	if len(circ.Warnings) != 1 || !strings.Contains(circ.Warnings[0], "width") {
		t.Fatalf("want one width warning, got %v", circ.Warnings)
	}
	// Mismatch is data, never an error: the net still exists.
	if len(circ.Nets) != 1 {
		t.Fatalf("mismatched pair should still form a net, got %d nets", len(circ.Nets))
	}
}

func TestBuildTopologyErrors(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)

	// Three instance ports colliding at (10000,0).
	bad, _ := lay.CreateCell("collision")
	bad.CreateInstance("a", straight, geom.TransR0)
	bad.CreateInstance("b", straight, geom.NewTrans(0, false, 10000, 0))
	bad.CreateInstance("c", straight, geom.NewTrans(2, false, 20000, 0))

	nl, err := Build(bad, Options{})
	var topo *TopologyError
	if !errors.As(err, &topo) {
		t.Fatalf("want TopologyError, got %v", err)
	}
	if topo.Cell != "collision" {
		t.Fatalf("error names cell %q", topo.Cell)
	}
	// The failing cell's circuit is not committed; the sub-cell's is.
	if _, ok := nl.Circuit("collision"); ok {
		t.Fatalf("failed cell's circuit should not be committed")
	}
	if _, ok := nl.Circuit("straight"); !ok {
		t.Fatalf("sibling circuit lost after topology error")
	}
}

func TestBuildDuplicateBoundaryNames(t *testing.T) {
	lay := layout.NewLayout(0.001)
	xs := lay.CrossSection(wg, 500)
	top, _ := lay.CreateCell("top")
	top.CreatePort("o1", xs, "optical", geom.NewTrans(2, false, 0, 0))
	top.CreatePort("o1", xs, "optical", geom.NewTrans(0, false, 1000, 0))

	_, err := Build(top, Options{})
	var topo *TopologyError
	if !errors.As(err, &topo) || !strings.Contains(topo.Reason, "duplicate") {
		t.Fatalf("want duplicate-name TopologyError, got %v", err)
	}
}

func TestBuildBoundaryPinAmbiguity(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	xs := lay.CrossSection(wg, 500)

	top, _ := lay.CreateCell("top")
	top.CreatePort("in", xs, "optical", geom.NewTrans(0, false, 10000, 0))
	top.CreateInstance("a", straight, geom.TransR0)
	top.CreateInstance("b", straight, geom.NewTrans(0, false, 10000, 0))

	_, err := Build(top, Options{})
	var topo *TopologyError
	if !errors.As(err, &topo) || !strings.Contains(topo.Reason, "boundary") {
		t.Fatalf("want boundary ambiguity TopologyError, got %v", err)
	}
}

func TestBuildDanglingAndTypeFilter(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	el := lay.CrossSection(layout.LayerInfo{Layer: 2}, 1000)
	straight.CreatePort("gnd", el, "electrical", geom.NewTrans(1, false, 5000, 250))

	top, _ := lay.CreateCell("top")
	top.CreateInstance("a", straight, geom.TransR0)

	nl, err := Build(top, Options{PortTypes: []string{"optical"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	circ, _ := nl.Circuit("top")
	dangling := circ.DanglingPins()
	if len(dangling) != 2 {
		t.Fatalf("got %d dangling pins, want o1+o2 (gnd filtered)", len(dangling))
	}
	for _, p := range dangling {
		if p.Name == "gnd" {
			t.Fatalf("electrical port should be filtered out")
		}
	}
}

func TestExports(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	top, _ := lay.CreateCell("top")
	top.CreateInstance("a", straight, geom.TransR0)
	top.CreateInstance("b", straight, geom.NewTrans(0, false, 10000, 0))

	nl, err := Build(top, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var js bytes.Buffer
	if err := nl.ExportJSON(&js); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	for _, want := range []string{`"name": "top"`, `"cell": "straight"`} {
		if !strings.Contains(js.String(), want) {
			t.Fatalf("json missing %q:\n%s", want, js.String())
		}
	}

	var ki bytes.Buffer
	if err := nl.ExportKiCad(&ki); err != nil {
		t.Fatalf("ExportKiCad: %v", err)
	}
	for _, want := range []string{"(export (version D)", "(comp (ref a) (value straight))", "(node (ref a) (pin o2))"} {
		if !strings.Contains(ki.String(), want) {
			t.Fatalf("kicad missing %q:\n%s", want, ki.String())
		}
	}

	var txt bytes.Buffer
	if err := nl.WriteText(&txt); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(txt.String(), "circuit top") {
		t.Fatalf("text summary missing top:\n%s", txt.String())
	}
}
