package layout

import (
	"sync"
	"testing"
	"time"
)

func TestCrossSectionRegistersNewLayer(t *testing.T) {
	lay := newTestLayout()

	// First use of a layer must come back, not block on the registry lock.
	done := make(chan *CrossSection, 1)
	go func() {
		done <- lay.CrossSection(wg, 500)
	}()
	var xs *CrossSection
	select {
	case xs = <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("CrossSection blocked registering a new layer")
	}

	if got := lay.Layers(); len(got) != 1 || got[0] != wg {
		t.Fatalf("layers after first cross-section = %v, want [%v]", got, wg)
	}
	if again := lay.CrossSection(wg, 500); again != xs {
		t.Fatalf("equal (layer, width) pairs not interned: %p vs %p", again, xs)
	}
	if other := lay.CrossSection(wg, 600); other == xs {
		t.Fatalf("distinct widths share a cross-section")
	}
}

func TestCrossSectionConcurrent(t *testing.T) {
	lay := newTestLayout()

	var wgrp sync.WaitGroup
	out := make([]*CrossSection, 8)
	for i := range out {
		wgrp.Add(1)
		go func(i int) {
			defer wgrp.Done()
			out[i] = lay.CrossSection(LayerInfo{Layer: 2, Datatype: 0}, 400)
		}(i)
	}
	wgrp.Wait()

	for i := 1; i < len(out); i++ {
		if out[i] != out[0] {
			t.Fatalf("goroutine %d got a different cross-section", i)
		}
	}
	if got := len(lay.Layers()); got != 1 {
		t.Fatalf("got %d layers, want 1", got)
	}
}
