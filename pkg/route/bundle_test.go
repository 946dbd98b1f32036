package route

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

func TestBundleBackboneOffsets(t *testing.T) {
	backbone := []geom.DPoint{{X: 0, Y: 0}, {X: 100, Y: 0}}
	lanes := bundleBackbones(backbone, []float64{1, 1}, []float64{1, 1})
	if len(lanes) != 2 {
		t.Fatalf("got %d lanes, want 2", len(lanes))
	}
	if !scalar.EqualWithinAbs(lanes[0][0].Y, -1, tol) {
		t.Fatalf("lane 0 offset = %g, want -1", lanes[0][0].Y)
	}
	if !scalar.EqualWithinAbs(lanes[1][0].Y, 1, tol) {
		t.Fatalf("lane 1 offset = %g, want 1", lanes[1][0].Y)
	}
}

func TestBundleBackboneCornerJoin(t *testing.T) {
	backbone := []geom.DPoint{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}}
	lanes := bundleBackbones(backbone, []float64{1, 1}, []float64{1, 1})
	// The outer lane (shifted right of travel) joins its segments at the
	// cut point of the two offset lines.
	outer := lanes[0]
	if len(outer) != 3 {
		t.Fatalf("outer lane has %d points, want 3", len(outer))
	}
	corner := outer[1]
	if !scalar.EqualWithinAbs(corner.X, 51, tol) || !scalar.EqualWithinAbs(corner.Y, -1, tol) {
		t.Fatalf("outer corner = (%g,%g), want (51,-1)", corner.X, corner.Y)
	}
}

func TestReconcileDogLeg(t *testing.T) {
	// A start port whose forward ray runs parallel to the lane never
	// crosses it; it gets a rectangular dog-leg at the reference offset.
	lane := []geom.DPoint{{X: 0, Y: 1}, {X: 100, Y: 1}}
	port := geom.NewDCplxTrans(1, 0, false, 0, 10)
	got := reconcileStart(port, lane, 20)
	want := []geom.DPoint{{X: 0, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 1}, {X: 100, Y: 1}}
	if len(got) != len(want) {
		t.Fatalf("dog-leg lane = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Distance(want[i]) > tol {
			t.Fatalf("dog-leg point %d = %v, want %v", i, got[i], want[i])
		}
	}

	// A second, non-colinear port gets its own distinct dog-leg.
	lane2 := []geom.DPoint{{X: 0, Y: -1}, {X: 100, Y: -1}}
	port2 := geom.NewDCplxTrans(1, 0, false, 0, -10)
	got2 := reconcileStart(port2, lane2, 20)
	if got2[1].Distance(got[1]) < 1 {
		t.Fatalf("lanes share a dog-leg point: %v vs %v", got2[1], got[1])
	}
}

func TestReconcileAheadCrossing(t *testing.T) {
	lane := []geom.DPoint{{X: 10, Y: 5}, {X: 100, Y: 5}}
	port := geom.NewDCplxTrans(1, 45, false, 0, 0)
	got := reconcileStart(port, lane, 200)
	if len(got) != 3 {
		t.Fatalf("crossing lane = %v, want single insertion point", got)
	}
	if got[1].Distance(geom.DPoint{X: 5, Y: 5}) > tol {
		t.Fatalf("insertion point = %v, want (5,5)", got[1])
	}
}

func TestRouteBundle(t *testing.T) {
	backbone := []geom.DPoint{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}}
	starts := []geom.DCplxTrans{
		geom.NewDCplxTrans(1, 0, false, -5, -1),
		geom.NewDCplxTrans(1, 0, false, -5, 1),
	}
	ends := []geom.DCplxTrans{
		geom.NewDCplxTrans(1, 270, false, 51, 55),
		geom.NewDCplxTrans(1, 270, false, 49, 55),
	}
	cfg := BundleConfig{Config: testConfig(), ReferenceOffset: 5}

	paths, err := RouteBundle(starts, ends, backbone, []float64{1, 1}, []float64{1, 1}, cfg)
	if err != nil {
		t.Fatalf("RouteBundle: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	for i, path := range paths {
		end := path.End
		if end.Disp.Sub(ends[i].Disp).Length() > tol {
			t.Fatalf("lane %d ends at %v, want %v", i, end.Disp, ends[i].Disp)
		}
		if !scalar.EqualWithinAbs(geom.NormalizeAngle(end.Angle-ends[i].Angle), 180, tol) {
			t.Fatalf("lane %d end not opposite to end port: %g vs %g", i, end.Angle, ends[i].Angle)
		}
	}
}

func TestRouteBundleValidation(t *testing.T) {
	cfg := BundleConfig{Config: testConfig()}
	if _, err := RouteBundle(nil, nil, nil, nil, nil, cfg); err == nil {
		t.Fatalf("empty bundle should fail")
	}
	starts := []geom.DCplxTrans{geom.NewDCplxTrans(1, 0, false, 0, 0)}
	if _, err := RouteBundle(starts, nil, []geom.DPoint{{}, {X: 1}}, []float64{1}, []float64{1}, cfg); err == nil {
		t.Fatalf("mismatched lane counts should fail")
	}
}
