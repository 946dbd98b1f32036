package check

import "github.com/OpenPhotonLab/photonkit/pkg/geom"

// gridIndex is a uniform-grid spatial index over integer bounding boxes.
// Entries are inserted incrementally; queries return the indices of all
// entries whose box overlaps the query box. It exists so layer-overlap
// checking extracts shapes only for bbox pairs that already intersect.
type gridIndex struct {
	cellSize int
	buckets  map[[2]int][]int
	boxes    []geom.Box
}

func newGridIndex(cellSize int) *gridIndex {
	if cellSize < 1 {
		cellSize = 1
	}
	return &gridIndex{cellSize: cellSize, buckets: make(map[[2]int][]int)}
}

func (g *gridIndex) cellsOf(b geom.Box) (x1, y1, x2, y2 int) {
	x1 = floorDiv(b.Left, g.cellSize)
	y1 = floorDiv(b.Bottom, g.cellSize)
	x2 = floorDiv(b.Right, g.cellSize)
	y2 = floorDiv(b.Top, g.cellSize)
	return
}

// Insert adds a box and returns its entry index.
func (g *gridIndex) Insert(b geom.Box) int {
	id := len(g.boxes)
	g.boxes = append(g.boxes, b)
	if b.Empty() {
		return id
	}
	x1, y1, x2, y2 := g.cellsOf(b)
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			key := [2]int{x, y}
			g.buckets[key] = append(g.buckets[key], id)
		}
	}
	return id
}

// Query returns the indices of entries overlapping b, each at most once.
func (g *gridIndex) Query(b geom.Box) []int {
	if b.Empty() {
		return nil
	}
	seen := make(map[int]bool)
	var out []int
	x1, y1, x2, y2 := g.cellsOf(b)
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			for _, id := range g.buckets[[2]int{x, y}] {
				if seen[id] {
					continue
				}
				seen[id] = true
				if g.boxes[id].Overlaps(b) {
					out = append(out, id)
				}
			}
		}
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
