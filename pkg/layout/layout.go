// Package layout models hierarchical 2D chip layout: cells, sub-cell
// instances, shapes per layer and typed, oriented connection ports. It owns
// the shared registries (layers, interned cross-sections) and the dual
// grid/micrometer unit conversion.
package layout

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// LayerInfo identifies a fabrication layer by layer number and datatype.
type LayerInfo struct {
	Layer    int
	Datatype int
}

// String renders the layer as "layer/datatype".
func (li LayerInfo) String() string {
	return fmt.Sprintf("%d/%d", li.Layer, li.Datatype)
}

type xsKey struct {
	layer LayerInfo
	width int
}

// Layout owns a cell hierarchy together with its grid resolution, layer
// registry and interned cross-sections.
//
// The registries are safe for concurrent readers; mutation (registering
// layers, creating cells) is serialized internally but the caller must not
// mutate a hierarchy while extraction or checking walks it.
type Layout struct {
	dbu float64

	mu         sync.RWMutex
	layers     []LayerInfo
	layerIndex map[LayerInfo]int
	xsections  map[xsKey]*CrossSection
	cells      map[string]*Cell
	cellNames  []string
}

// NewLayout creates an empty layout with the given grid resolution in
// micrometers per grid unit (e.g. 0.001 for a 1 nm grid).
func NewLayout(dbu float64) *Layout {
	return &Layout{
		dbu:        dbu,
		layerIndex: make(map[LayerInfo]int),
		xsections:  make(map[xsKey]*CrossSection),
		cells:      make(map[string]*Cell),
	}
}

// DBU returns the grid resolution in micrometers per grid unit.
func (l *Layout) DBU() float64 {
	return l.dbu
}

// ToUM converts a grid displacement to micrometers.
func (l *Layout) ToUM(v geom.Vector) geom.DVector {
	return v.ToD(l.dbu)
}

// ToDBU converts a micrometer displacement to the nearest grid displacement.
func (l *Layout) ToDBU(v geom.DVector) geom.Vector {
	return geom.Vector{
		X: int(math.Round(v.X / l.dbu)),
		Y: int(math.Round(v.Y / l.dbu)),
	}
}

// Layer returns the stable index for a layer, registering it on first use.
func (l *Layout) Layer(info LayerInfo) int {
	l.mu.RLock()
	idx, ok := l.layerIndex[info]
	l.mu.RUnlock()
	if ok {
		return idx
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.layerLocked(info)
}

// layerLocked registers info if needed. Callers hold l.mu for writing.
func (l *Layout) layerLocked(info LayerInfo) int {
	if idx, ok := l.layerIndex[info]; ok {
		return idx
	}
	idx := len(l.layers)
	l.layers = append(l.layers, info)
	l.layerIndex[info] = idx
	return idx
}

// LayerInfoAt resolves a layer index back to its layer/datatype pair.
func (l *Layout) LayerInfoAt(index int) (LayerInfo, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.layers) {
		return LayerInfo{}, false
	}
	return l.layers[index], true
}

// Layers returns all registered layers in registration order.
func (l *Layout) Layers() []LayerInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]LayerInfo, len(l.layers))
	copy(out, l.layers)
	return out
}

// CrossSection returns the interned cross-section for a layer and nominal
// width in grid units. Equal (layer, width) pairs share one value.
func (l *Layout) CrossSection(layer LayerInfo, width int) *CrossSection {
	key := xsKey{layer: layer, width: width}
	l.mu.RLock()
	xs, ok := l.xsections[key]
	l.mu.RUnlock()
	if ok {
		return xs
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if xs, ok = l.xsections[key]; ok {
		return xs
	}
	l.layerLocked(layer) // cross-sections imply layer registration
	xs = &CrossSection{layer: layer, width: width}
	l.xsections[key] = xs
	return xs
}

// CreateCell creates a new empty cell. Cell names are unique per layout.
func (l *Layout) CreateCell(name string) (*Cell, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cells[name]; ok {
		return nil, fmt.Errorf("layout: cell %q already exists", name)
	}
	c := &Cell{name: name, lay: l, shapes: make(map[LayerInfo][]geom.Polygon)}
	l.cells[name] = c
	l.cellNames = append(l.cellNames, name)
	return c, nil
}

// Cell looks up a cell by name.
func (l *Layout) Cell(name string) (*Cell, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.cells[name]
	return c, ok
}

// DeleteCell marks a cell as destroyed and removes it from the layout.
// Resolving ports through instances of a destroyed cell fails.
func (l *Layout) DeleteCell(c *Cell) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.cells[c.name]; ok && cur == c {
		delete(l.cells, c.name)
		for i, n := range l.cellNames {
			if n == c.name {
				l.cellNames = append(l.cellNames[:i], l.cellNames[i+1:]...)
				break
			}
		}
	}
	c.destroyed = true
}

// Cells returns all cells in creation order.
func (l *Layout) Cells() []*Cell {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Cell, 0, len(l.cellNames))
	for _, n := range l.cellNames {
		out = append(out, l.cells[n])
	}
	return out
}

// EachCellBottomUp returns the cells in dependency order: every cell appears
// after all cells it instantiates. Cells with equal depth keep creation order.
func (l *Layout) EachCellBottomUp() []*Cell {
	cells := l.Cells()
	state := make(map[*Cell]int, len(cells)) // 0 new, 1 visiting, 2 done
	var order []*Cell
	var visit func(c *Cell)
	visit = func(c *Cell) {
		if state[c] != 0 {
			return
		}
		state[c] = 1
		for _, inst := range c.insts {
			visit(inst.target)
		}
		state[c] = 2
		order = append(order, c)
	}
	for _, c := range cells {
		visit(c)
	}
	return order
}

// CalledCells returns the set of cells reachable from top, excluding top
// itself, in bottom-up order.
func (l *Layout) CalledCells(top *Cell) []*Cell {
	seen := map[*Cell]bool{}
	var order []*Cell
	var visit func(c *Cell)
	visit = func(c *Cell) {
		if seen[c] {
			return
		}
		seen[c] = true
		for _, inst := range c.insts {
			visit(inst.target)
		}
		if c != top {
			order = append(order, c)
		}
	}
	visit(top)
	return order
}

// SortedCellNames returns all cell names sorted alphabetically.
func (l *Layout) SortedCellNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.cellNames))
	copy(out, l.cellNames)
	sort.Strings(out)
	return out
}
