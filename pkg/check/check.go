// Package check verifies the connection topology of a cell: ports must sit on
// real shapes, coinciding ports must be compatible, and overlapping instance
// regions are flagged. Findings go into a report database; the checker only
// errors on malformed input.
package check

import (
	"fmt"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
	"github.com/OpenPhotonLab/photonkit/pkg/layout"
	"github.com/OpenPhotonLab/photonkit/pkg/report"
)

// Options controls which ports and layers are checked.
type Options struct {
	// PortTypes restricts checks to ports of the listed types. Empty means
	// all types.
	PortTypes []string
	// Layers restricts physical-shape and layer-overlap checks to the
	// listed layers. Empty means all layers the ports/shapes are on.
	Layers []layout.LayerInfo
	// Recursive also checks every cell instantiated below the given one.
	Recursive bool
	// AddCellPorts reports boundary ports with no instance port at their
	// point as orphans too.
	AddCellPorts bool
	// CheckLayerConnectivity enables the pairwise instance/shape region
	// overlap pass.
	CheckLayerConnectivity bool
	// Database receives the findings. A fresh one is created when nil.
	Database *report.Database
}

func (o Options) allowsType(portType string) bool {
	if len(o.PortTypes) == 0 {
		return true
	}
	for _, t := range o.PortTypes {
		if t == portType {
			return true
		}
	}
	return false
}

func (o Options) allowsLayer(layer layout.LayerInfo) bool {
	if len(o.Layers) == 0 {
		return true
	}
	for _, l := range o.Layers {
		if l == layer {
			return true
		}
	}
	return false
}

// Check runs all enabled checks on the cell and returns the report database
// the findings were written to.
func Check(cell *layout.Cell, opts Options) (*report.Database, error) {
	if cell == nil {
		return nil, fmt.Errorf("check: cell is nil")
	}
	if cell.Destroyed() {
		return nil, fmt.Errorf("check: cell %q is destroyed", cell.Name())
	}
	db := opts.Database
	if db == nil {
		db = report.NewDatabase("connectivity check " + cell.Name())
	}
	ck := &checker{
		db:        db,
		opts:      opts,
		dbu:       cell.Layout().DBU(),
		portPolys: make(map[int]geom.Polygon),
	}
	cells := []*layout.Cell{cell}
	if opts.Recursive {
		cells = append(cells, cell.Layout().CalledCells(cell)...)
	}
	for _, c := range cells {
		if err := ck.checkCell(c); err != nil {
			return db, err
		}
	}
	layout.Log().Debug("check: finished", "cell", cell.Name(), "items", db.NumItems())
	return db, nil
}

// checker carries the per-run state: the sink, the unit scale and the port
// marker polygon cache. The cache lives for one Check call only.
type checker struct {
	db        *report.Database
	opts      Options
	dbu       float64
	portPolys map[int]geom.Polygon
}

func (ck *checker) portMarker(p *layout.Port) geom.DPolygon {
	poly, ok := ck.portPolys[p.Width()]
	if !ok {
		poly = layout.PortPolygon(p.Width())
		ck.portPolys[p.Width()] = poly
	}
	return poly.ToD(ck.dbu).Transformed(p.DCplxTrans())
}

type bucketKey struct {
	x, y   int
	parity int
	layer  layout.LayerInfo
}

func keyFor(p *layout.Port) bucketKey {
	t := p.Trans()
	return bucketKey{
		x:      t.Disp.X,
		y:      t.Disp.Y,
		parity: ((t.Rot % 2) + 2) % 2,
		layer:  p.Layer(),
	}
}

type instPort struct {
	inst string
	port *layout.Port
}

func (ck *checker) checkCell(c *layout.Cell) error {
	rcell := ck.db.Cell(c.Name())

	boundary := make(map[bucketKey][]*layout.Port)
	for _, p := range c.Ports() {
		if !ck.opts.allowsType(p.PortType) {
			continue
		}
		boundary[keyFor(p)] = append(boundary[keyFor(p)], p)
		if ck.opts.allowsLayer(p.Layer()) {
			ck.checkPhysicalShape(c, rcell, p)
		}
	}

	buckets := make(map[bucketKey][]instPort)
	var keys []bucketKey
	for _, inst := range c.Instances() {
		na, nb := inst.Counts()
		for ia := 0; ia < na; ia++ {
			for ib := 0; ib < nb; ib++ {
				name := inst.Name()
				if inst.IsArray() {
					name = fmt.Sprintf("%s[%d,%d]", inst.Name(), ia, ib)
				}
				ports, err := inst.PortsAt(ia, ib)
				if err != nil {
					return fmt.Errorf("check: cell %q: %w", c.Name(), err)
				}
				for _, p := range ports {
					if !ck.opts.allowsType(p.PortType) {
						continue
					}
					k := keyFor(p)
					if _, ok := buckets[k]; !ok {
						keys = append(keys, k)
					}
					buckets[k] = append(buckets[k], instPort{inst: name, port: p})
				}
			}
		}
	}

	for _, key := range keys {
		ck.classifyBucket(rcell, key, buckets[key], boundary[key])
	}

	if ck.opts.AddCellPorts {
		for key, ports := range boundary {
			if _, ok := buckets[key]; ok {
				continue
			}
			for _, p := range ports {
				ck.db.CreateItem(rcell, ck.db.Category("OrphanPort")).
					AddText("boundary port %s at %s has no instance port", p.Name, p.DCplxTrans()).
					AddPolygon(ck.portMarker(p))
			}
		}
	}

	if ck.opts.CheckLayerConnectivity {
		ck.checkLayerOverlaps(c, rcell)
	}
	return nil
}

func (ck *checker) classifyBucket(rcell *report.Cell, key bucketKey, group []instPort, bps []*layout.Port) {
	switch {
	case len(group) == 1:
		ip := group[0]
		if len(bps) == 0 {
			ck.db.CreateItem(rcell, ck.db.Category("OrphanPort")).
				AddText("%s/%s at %s has no counterpart", ip.inst, ip.port.Name, ip.port.DCplxTrans()).
				AddPolygon(ck.portMarker(ip.port))
			return
		}
		for _, bp := range bps {
			ck.reportMismatches(rcell, layout.CheckCoincident(bp, ip.port),
				bp.Name, ip.inst+"/"+ip.port.Name, ip.port)
		}
	case len(group) == 2:
		a, b := group[0], group[1]
		ck.reportMismatches(rcell, layout.CheckOpposite(a.port, b.port),
			a.inst+"/"+a.port.Name, b.inst+"/"+b.port.Name, a.port)
		if len(bps) > 0 {
			ck.reportOverlap(rcell, group, bps)
		}
	default:
		ck.reportOverlap(rcell, group, bps)
	}
}

func (ck *checker) reportMismatches(rcell *report.Cell, m layout.Mismatch, a, b string, at *layout.Port) {
	for _, entry := range []struct {
		flag layout.Mismatch
		cat  string
	}{
		{layout.MismatchWidth, "WidthMismatch"},
		{layout.MismatchAngle, "AngleMismatch"},
		{layout.MismatchType, "TypeMismatch"},
	} {
		if m&entry.flag == 0 {
			continue
		}
		ck.db.CreateItem(rcell, ck.db.Category(entry.cat)).
			AddText("%s between %s and %s", entry.cat, a, b).
			AddPolygon(ck.portMarker(at))
	}
}

func (ck *checker) reportOverlap(rcell *report.Cell, group []instPort, bps []*layout.Port) {
	it := ck.db.CreateItem(rcell, ck.db.Category("PortOverlap"))
	n := len(group)
	if len(bps) > 0 {
		n += len(bps)
	}
	it.AddText("%d ports collide at %s", n, group[0].port.DCplxTrans())
	for _, ip := range group {
		it.AddPolygon(ck.portMarker(ip.port))
	}
	for _, bp := range bps {
		it.AddPolygon(ck.portMarker(bp))
	}
}

// checkPhysicalShape verifies that a shape edge lies under the port's facet:
// the overlap of the port edge with shape outline edges on the port's layer
// must cover the port width.
func (ck *checker) checkPhysicalShape(c *layout.Cell, rcell *report.Cell, p *layout.Port) {
	w := p.DWidth()
	half := w / 2
	t := p.DCplxTrans()
	portEdge := geom.DEdge{P1: geom.DPoint{Y: -half}, P2: geom.DPoint{Y: half}}.Transformed(t)

	clip := geom.DBox{
		Left:   minf(portEdge.P1.X, portEdge.P2.X) - ck.dbu,
		Bottom: minf(portEdge.P1.Y, portEdge.P2.Y) - ck.dbu,
		Right:  maxf(portEdge.P1.X, portEdge.P2.X) + ck.dbu,
		Top:    maxf(portEdge.P1.Y, portEdge.P2.Y) + ck.dbu,
	}
	var covered float64
	for _, poly := range collectShapes(c, p.Layer(), geom.DCplxR0, clip, ck.dbu) {
		for _, e := range poly.Edges() {
			covered += portEdge.OverlapLength(e, ck.dbu)
		}
	}
	switch {
	case covered <= ck.dbu:
		ck.db.CreateItem(rcell, ck.db.Category("MissingPhysicalShape")).
			AddText("no shape under port %s at %s", p.Name, t).
			AddPolygon(ck.portMarker(p))
	case covered < w-ck.dbu:
		ck.db.CreateItem(rcell, ck.db.Category("PartialPhysicalShape")).
			AddText("shape covers %.3f of %.3f under port %s", covered, w, p.Name).
			AddPolygon(ck.portMarker(p))
	}
}

// collectShapes gathers shapes on a layer, recursing through instances with
// accumulated transforms, pruned to the clip region.
func collectShapes(c *layout.Cell, layer layout.LayerInfo, t geom.DCplxTrans, clip geom.DBox, dbu float64) []geom.DPolygon {
	var out []geom.DPolygon
	for _, poly := range c.Shapes(layer) {
		dp := poly.ToD(dbu).Transformed(t)
		if clip.Empty() || dp.BBox().Overlaps(clip) {
			out = append(out, dp)
		}
	}
	for _, inst := range c.Instances() {
		if inst.Cell().Destroyed() {
			continue
		}
		na, nb := inst.Counts()
		a, b := inst.Basis()
		base := inst.DCplxTrans()
		for ia := 0; ia < na; ia++ {
			for ib := 0; ib < nb; ib++ {
				shift := a.Scale(ia).Add(b.Scale(ib)).ToD(dbu)
				elem := t.Mul(geom.NewDCplxTrans(1, 0, false, shift.X, shift.Y).Mul(base))
				sub := inst.Cell().DBBox(layer).Transformed(elem)
				if !clip.Empty() && !sub.Overlaps(clip) {
					continue
				}
				out = append(out, collectShapes(inst.Cell(), layer, elem, clip, dbu)...)
			}
		}
	}
	return out
}

// checkLayerOverlaps flags overlapping instance regions per layer. Instance
// bboxes go into a uniform grid; shapes are only extracted for bbox pairs
// that intersect.
func (ck *checker) checkLayerOverlaps(c *layout.Cell, rcell *report.Cell) {
	layers := ck.opts.Layers
	if len(layers) == 0 {
		layers = c.Layout().Layers()
	}
	insts := c.Instances()
	for _, layer := range layers {
		idx := newGridIndex(gridCellSize(c, layer))
		for _, inst := range insts {
			box := inst.BBox(layer)
			for _, j := range idx.Query(box) {
				ck.reportRegionOverlap(rcell, "InstanceShapeOverlap", layer,
					insts[j].Name(), inst.Name(),
					instShapes(insts[j], layer, ck.dbu), instShapes(inst, layer, ck.dbu))
			}
			idx.Insert(box)
		}
		own := c.Shapes(layer)
		for _, poly := range own {
			box := poly.BBox()
			for _, j := range idx.Query(box) {
				ck.reportRegionOverlap(rcell, "ShapeInstanceShapeOverlap", layer,
					c.Name(), insts[j].Name(),
					[]geom.DPolygon{poly.ToD(ck.dbu)}, instShapes(insts[j], layer, ck.dbu))
			}
		}
	}
}

func instShapes(inst *layout.Instance, layer layout.LayerInfo, dbu float64) []geom.DPolygon {
	var out []geom.DPolygon
	na, nb := inst.Counts()
	a, b := inst.Basis()
	base := inst.DCplxTrans()
	for ia := 0; ia < na; ia++ {
		for ib := 0; ib < nb; ib++ {
			shift := a.Scale(ia).Add(b.Scale(ib)).ToD(dbu)
			elem := geom.NewDCplxTrans(1, 0, false, shift.X, shift.Y).Mul(base)
			out = append(out, collectShapes(inst.Cell(), layer, elem, geom.DBox{}, dbu)...)
		}
	}
	return out
}

func (ck *checker) reportRegionOverlap(rcell *report.Cell, cat string, layer layout.LayerInfo, a, b string, sa, sb []geom.DPolygon) {
	for _, pa := range sa {
		for _, pb := range sb {
			r := pa.BBox().Intersection(pb.BBox())
			if r.Empty() {
				continue
			}
			ck.db.CreateItem(rcell, ck.db.Category(cat)).
				AddText("%s and %s overlap on layer %d/%d", a, b, layer.Layer, layer.Datatype).
				AddPolygon(r.ToPolygon())
			return
		}
	}
}

func gridCellSize(c *layout.Cell, layer layout.LayerInfo) int {
	box := c.BBox(layer)
	if box.Empty() {
		return 1
	}
	ext := max(box.Right-box.Left, box.Top-box.Bottom)
	size := ext / 16
	if size < 1 {
		size = 1
	}
	return size
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
