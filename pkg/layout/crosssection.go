package layout

import "fmt"

// CrossSection describes the physical profile of a connection: its layer and
// nominal width in grid units. Cross-sections are immutable and interned by
// the owning Layout, so equal profiles share one value and pointer equality
// implies profile equality.
type CrossSection struct {
	layer LayerInfo
	width int
}

// Width returns the nominal width in grid units.
func (cs *CrossSection) Width() int {
	return cs.width
}

// Layer returns the layer of the cross-section.
func (cs *CrossSection) Layer() LayerInfo {
	return cs.layer
}

// String renders the cross-section for debugging.
func (cs *CrossSection) String() string {
	return fmt.Sprintf("%s w%d", cs.layer, cs.width)
}
