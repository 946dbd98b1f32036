package check

import (
	"testing"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
	"github.com/OpenPhotonLab/photonkit/pkg/layout"
)

var wg = layout.LayerInfo{Layer: 1, Datatype: 0}

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

func TestCleanConnectionHasNoFindings(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	xs := lay.CrossSection(wg, 500)

	top, _ := lay.CreateCell("top")
	top.CreatePort("in", xs, "optical", geom.NewTrans(2, false, 0, 0))
	top.CreatePort("out", xs, "optical", geom.NewTrans(0, false, 20000, 0))
	top.CreateInstance("s1", straight, geom.TransR0)
	top.CreateInstance("s2", straight, geom.NewTrans(0, false, 10000, 0))

	db, err := Check(top, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if db.NumItems() != 0 {
		t.Fatalf("clean cell produced %d findings", db.NumItems())
	}
}

func TestOrphanPort(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	top, _ := lay.CreateCell("top")
	top.CreateInstance("s1", straight, geom.TransR0)

	db, err := Check(top, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := db.Category("OrphanPort").ItemCount(); got != 2 {
		t.Fatalf("OrphanPort items = %d, want 2 (o1 and o2)", got)
	}
}

func TestThreeWayCollisionIsPortOverlapNotError(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	top, _ := lay.CreateCell("top")
	top.CreateInstance("a", straight, geom.TransR0)
	top.CreateInstance("b", straight, geom.NewTrans(0, false, 10000, 0))
	top.CreateInstance("c", straight, geom.NewTrans(2, false, 20000, 0))

	db, err := Check(top, Options{})
	if err != nil {
		t.Fatalf("checker must not error on findings: %v", err)
	}
	if got := db.Category("PortOverlap").ItemCount(); got != 1 {
		t.Fatalf("PortOverlap items = %d, want 1", got)
	}
}

func TestWidthMismatchCategory(t *testing.T) {
	lay := layout.NewLayout(0.001)
	narrow := straightCell(t, lay, "narrow", 10000, 500)
	wide := straightCell(t, lay, "wide", 10000, 600)
	top, _ := lay.CreateCell("top")
	top.CreateInstance("a", narrow, geom.TransR0)
	top.CreateInstance("b", wide, geom.NewTrans(0, false, 10000, 0))

	db, err := Check(top, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := db.Category("WidthMismatch").ItemCount(); got != 1 {
		t.Fatalf("WidthMismatch items = %d, want 1", got)
	}
	if got := db.Category("AngleMismatch").ItemCount(); got != 0 {
		t.Fatalf("AngleMismatch items = %d, want 0", got)
	}
}

func TestMissingAndPartialPhysicalShape(t *testing.T) {
	lay := layout.NewLayout(0.001)
	xs := lay.CrossSection(wg, 500)

	bare, _ := lay.CreateCell("bare")
	bare.CreatePort("o1", xs, "optical", geom.NewTrans(2, false, 0, 0))

	thin, _ := lay.CreateCell("thin")
	thin.CreatePort("o1", xs, "optical", geom.NewTrans(2, false, 0, 0))
	thin.AddBox(wg, geom.NewBox(0, -150, 10000, 150))

	db, err := Check(bare, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := db.Category("MissingPhysicalShape").ItemCount(); got != 1 {
		t.Fatalf("MissingPhysicalShape items = %d, want 1", got)
	}

	db, err = Check(thin, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := db.Category("PartialPhysicalShape").ItemCount(); got != 1 {
		t.Fatalf("PartialPhysicalShape items = %d, want 1", got)
	}
}

func TestPhysicalShapeThroughHierarchy(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	xs := lay.CrossSection(wg, 500)

	// The boundary port's shape lives two levels down.
	mid, _ := lay.CreateCell("mid")
	mid.CreateInstance("s", straight, geom.TransR0)
	top, _ := lay.CreateCell("top")
	top.CreatePort("in", xs, "optical", geom.NewTrans(2, false, 0, 0))
	top.CreateInstance("m", mid, geom.TransR0)

	db, err := Check(top, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := db.Category("MissingPhysicalShape").ItemCount(); got != 0 {
		t.Fatalf("shape below hierarchy not found: %d missing-shape items", got)
	}
}

func TestLayerOverlapChecks(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)

	top, _ := lay.CreateCell("top")
	top.CreateInstance("a", straight, geom.TransR0)
	top.CreateInstance("b", straight, geom.NewTrans(0, false, 5000, 0))
	top.AddBox(wg, geom.NewBox(2000, -100, 3000, 100))

	db, err := Check(top, Options{CheckLayerConnectivity: true})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := db.Category("InstanceShapeOverlap").ItemCount(); got != 1 {
		t.Fatalf("InstanceShapeOverlap items = %d, want 1", got)
	}
	if got := db.Category("ShapeInstanceShapeOverlap").ItemCount(); got == 0 {
		t.Fatalf("own shape over instance not flagged")
	}
}

func TestAbuttingInstancesDoNotOverlap(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)
	top, _ := lay.CreateCell("top")
	top.CreateInstance("a", straight, geom.TransR0)
	top.CreateInstance("b", straight, geom.NewTrans(0, false, 10000, 0))

	db, err := Check(top, Options{CheckLayerConnectivity: true})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if got := db.Category("InstanceShapeOverlap").ItemCount(); got != 0 {
		t.Fatalf("edge-abutting instances flagged as overlap: %d items", got)
	}
}

func TestRecursiveCheck(t *testing.T) {
	lay := layout.NewLayout(0.001)
	straight := straightCell(t, lay, "straight", 10000, 500)

	mid, _ := lay.CreateCell("mid")
	mid.CreateInstance("s", straight, geom.TransR0)
	top, _ := lay.CreateCell("top")
	top.CreateInstance("m", mid, geom.TransR0)

	db, err := Check(top, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	// Orphans in mid are reported under mid's cell entry.
	foundMid := false
	for _, c := range db.Cells() {
		if c.Name() == "mid" && len(c.Items()) > 0 {
			foundMid = true
		}
	}
	if !foundMid {
		t.Fatalf("recursive check did not report into sub-cell entry")
	}
}

func TestGridIndex(t *testing.T) {
	idx := newGridIndex(100)
	a := idx.Insert(geom.NewBox(0, 0, 250, 250))
	b := idx.Insert(geom.NewBox(1000, 1000, 1100, 1100))
	idx.Insert(geom.NewBox(-300, -300, -200, -200))

	got := idx.Query(geom.NewBox(200, 200, 1050, 1050))
	want := map[int]bool{a: true, b: true}
	if len(got) != 2 {
		t.Fatalf("Query returned %v, want 2 entries", got)
	}
	for _, id := range got {
		if !want[id] {
			t.Fatalf("Query returned unexpected entry %d", id)
		}
	}
	if res := idx.Query(geom.NewBox(5000, 5000, 5100, 5100)); len(res) != 0 {
		t.Fatalf("empty region query returned %v", res)
	}
}
