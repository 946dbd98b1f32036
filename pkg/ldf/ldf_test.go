package ldf

import (
	"strings"
	"testing"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
	"github.com/OpenPhotonLab/photonkit/pkg/layout"
)

const sample = `
layout dbu 0.001;

# waveguide core
layer wg 1/0;
layer metal 2/0;

cell straight {
  port o1 optical wg width 0.5 at 0 0 rot 180;
  port o2 optical wg width 0.5 at 10 0;
  box wg 0 -0.25 10 0.25;
}

cell bend {
  port o1 optical wg width 0.5 at 0 0 rot 180;
  port o2 optical wg width 0.5 at 5 5 rot 90;
  poly wg (0 -0.25) (5.25 -0.25) (5.25 5) (4.75 5) (4.75 0.25) (0 0.25);
}

cell top {
  inst s1 straight at 0 0;
  inst b1 bend at 10 0;
  inst s2 straight at 15 5 rot 90;
  array taps straight at 0 -20 step 12 0 0 5 count 2 2;
}
`

func TestParseSample(t *testing.T) {
	p, err := NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	f, err := p.ParseString(sample)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if f.DBU != 0.001 {
		t.Fatalf("dbu = %g, want 0.001", f.DBU)
	}
	if len(f.Layers) != 2 || f.Layers[0].Name != "wg" || f.Layers[0].Layer != 1 {
		t.Fatalf("layers = %+v", f.Layers)
	}
	if len(f.Cells) != 3 {
		t.Fatalf("got %d cells, want 3", len(f.Cells))
	}

	var ports, boxes, polys, insts, arrays int
	var box *BoxDecl
	var arr *ArrayDecl
	for _, c := range f.Cells {
		for _, item := range c.Items {
			switch {
			case item.Port != nil:
				ports++
			case item.Box != nil:
				boxes++
				box = item.Box
			case item.Poly != nil:
				polys++
			case item.Inst != nil:
				insts++
			case item.Array != nil:
				arrays++
				arr = item.Array
			}
		}
	}
	if ports != 4 || boxes != 1 || polys != 1 || insts != 3 || arrays != 1 {
		t.Fatalf("item counts: ports=%d boxes=%d polys=%d insts=%d arrays=%d",
			ports, boxes, polys, insts, arrays)
	}

	// Each coordinate lands in its own field.
	if box.X1 != 0 || box.Y1 != -0.25 || box.X2 != 10 || box.Y2 != 0.25 {
		t.Fatalf("box = %+v", box)
	}
	if arr.AX != 12 || arr.AY != 0 || arr.BX != 0 || arr.BY != 5 {
		t.Fatalf("array step = (%g %g) (%g %g)", arr.AX, arr.AY, arr.BX, arr.BY)
	}
	if arr.NA != 2 || arr.NB != 2 {
		t.Fatalf("array count = %d %d", arr.NA, arr.NB)
	}
}

func TestLoadSample(t *testing.T) {
	lay, err := Load(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lay.DBU() != 0.001 {
		t.Fatalf("dbu = %g", lay.DBU())
	}

	straight, ok := lay.Cell("straight")
	if !ok {
		t.Fatalf("cell straight missing")
	}
	o2, ok := straight.PortByName("o2")
	if !ok {
		t.Fatalf("port o2 missing")
	}
	// Grid-aligned port declarations narrow to simple transforms.
	if o2.Trans() != geom.NewTrans(0, false, 10000, 0) {
		t.Fatalf("o2 trans = %v", o2.Trans())
	}
	if o2.Width() != 500 {
		t.Fatalf("o2 width = %d, want 500", o2.Width())
	}
	if o2.Layer() != (layout.LayerInfo{Layer: 1, Datatype: 0}) {
		t.Fatalf("o2 layer = %v", o2.Layer())
	}

	top, ok := lay.Cell("top")
	if !ok {
		t.Fatalf("cell top missing")
	}
	if len(top.Instances()) != 4 {
		t.Fatalf("top has %d instances, want 4", len(top.Instances()))
	}
	for _, inst := range top.Instances() {
		if inst.Name() == "taps" {
			na, nb := inst.Counts()
			if !inst.IsArray() || na != 2 || nb != 2 {
				t.Fatalf("taps = %v", inst)
			}
			a, _ := inst.Basis()
			if a != (geom.Vector{X: 12000}) {
				t.Fatalf("taps basis a = %v", a)
			}
		}
		if inst.Name() == "s2" && inst.Trans().Rot != 1 {
			t.Fatalf("s2 rot = %d, want 1", inst.Trans().Rot)
		}
	}

	if got := straight.Shapes(layout.LayerInfo{Layer: 1}); len(got) != 1 {
		t.Fatalf("straight shapes = %d, want 1", len(got))
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name, src string
	}{
		{"undeclared layer", `
layout dbu 0.001;
cell c {
  box wg 0 0 1 1;
}`},
		{"forward instance reference", `
layout dbu 0.001;
layer wg 1/0;
cell top {
  inst s later at 0 0;
}
cell later {
}`},
		{"off-grid array placement", `
layout dbu 0.001;
layer wg 1/0;
cell leaf {
}
cell top {
  array a leaf at 0 0 rot 45 step 1 0 0 1 count 2 2;
}`},
		{"duplicate cell", `
layout dbu 0.001;
cell c {
}
cell c {
}`},
	}
	for _, tc := range cases {
		if _, err := Load(strings.NewReader(tc.src)); err == nil {
			t.Errorf("%s: want error, got nil", tc.name)
		}
	}
}

func TestComplexInstancePlacement(t *testing.T) {
	src := `
layout dbu 0.001;
layer wg 1/0;
cell leaf {
  port o1 optical wg width 0.5 at 0 0 rot 180;
}
cell top {
  inst l leaf at 1 2 rot 30;
}`
	lay, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	top, _ := lay.Cell("top")
	inst := top.Instances()[0]
	if !inst.IsComplex() {
		t.Fatalf("30 degree placement should stay complex")
	}
	if inst.DCplxTrans().Angle != 30 {
		t.Fatalf("angle = %g", inst.DCplxTrans().Angle)
	}
}
