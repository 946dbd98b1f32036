package ldf

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
	"github.com/OpenPhotonLab/photonkit/pkg/layout"
)

// Load parses a description and builds the layout it describes. Instance
// targets must be declared before the cells that place them.
func Load(r io.Reader) (*layout.Layout, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	f, err := p.Parse(r)
	if err != nil {
		return nil, err
	}
	return Build(f)
}

// LoadFile loads a layout from a file path.
func LoadFile(filename string) (*layout.Layout, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ldf: %w", err)
	}
	defer file.Close()
	return Load(file)
}

// Build turns a parsed file into a layout.
func Build(f *File) (*layout.Layout, error) {
	if f.DBU <= 0 {
		return nil, fmt.Errorf("ldf: dbu must be positive, got %g", f.DBU)
	}
	lay := layout.NewLayout(f.DBU)

	layers := make(map[string]layout.LayerInfo)
	for _, ld := range f.Layers {
		if _, ok := layers[ld.Name]; ok {
			return nil, fmt.Errorf("ldf: duplicate layer %q", ld.Name)
		}
		info := layout.LayerInfo{Layer: ld.Layer, Datatype: ld.Datatype}
		layers[ld.Name] = info
		lay.Layer(info)
	}

	b := &builder{lay: lay, layers: layers}
	for _, cd := range f.Cells {
		if err := b.cell(cd); err != nil {
			return nil, err
		}
	}
	layout.Log().Debug("ldf: layout built",
		"dbu", f.DBU, "layers", len(layers), "cells", len(f.Cells))
	return lay, nil
}

type builder struct {
	lay    *layout.Layout
	layers map[string]layout.LayerInfo
}

func (b *builder) layer(cell, name string) (layout.LayerInfo, error) {
	info, ok := b.layers[name]
	if !ok {
		return layout.LayerInfo{}, fmt.Errorf("ldf: cell %q references undeclared layer %q", cell, name)
	}
	return info, nil
}

func (b *builder) dbu(um float64) int {
	return int(math.Round(um / b.lay.DBU()))
}

func placeTrans(p Placement) geom.DCplxTrans {
	return geom.NewDCplxTrans(1, p.Rot, p.Mirror, p.X, p.Y)
}

func (b *builder) cell(cd *CellDecl) error {
	cell, err := b.lay.CreateCell(cd.Name)
	if err != nil {
		return fmt.Errorf("ldf: %w", err)
	}
	for _, item := range cd.Items {
		switch {
		case item.Port != nil:
			if err := b.port(cell, item.Port); err != nil {
				return err
			}
		case item.Box != nil:
			info, err := b.layer(cd.Name, item.Box.Layer)
			if err != nil {
				return err
			}
			cell.AddBox(info, geom.NewBox(
				b.dbu(item.Box.X1), b.dbu(item.Box.Y1),
				b.dbu(item.Box.X2), b.dbu(item.Box.Y2)))
		case item.Poly != nil:
			info, err := b.layer(cd.Name, item.Poly.Layer)
			if err != nil {
				return err
			}
			pts := make([]geom.Point, len(item.Poly.Points))
			for i, pp := range item.Poly.Points {
				pts[i] = geom.Point{X: b.dbu(pp.X), Y: b.dbu(pp.Y)}
			}
			cell.AddShape(info, geom.Polygon{Points: pts})
		case item.Inst != nil:
			if err := b.instance(cell, item.Inst); err != nil {
				return err
			}
		case item.Array != nil:
			if err := b.array(cell, item.Array); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) port(cell *layout.Cell, pd *PortDecl) error {
	info, err := b.layer(cell.Name(), pd.Layer)
	if err != nil {
		return err
	}
	xs := b.lay.CrossSection(info, b.dbu(pd.Width))
	cell.CreateDPort(pd.Name, xs, pd.Type, placeTrans(pd.Place))
	return nil
}

func (b *builder) target(cell, name string) (*layout.Cell, error) {
	target, ok := b.lay.Cell(name)
	if !ok {
		return nil, fmt.Errorf("ldf: cell %q instantiates undeclared cell %q", cell, name)
	}
	return target, nil
}

func (b *builder) instance(cell *layout.Cell, id *InstDecl) error {
	target, err := b.target(cell.Name(), id.Cell)
	if err != nil {
		return err
	}
	t := placeTrans(id.Place)
	if simple, err := t.ToTrans(b.lay.DBU()); err == nil {
		_, err = cell.CreateInstance(id.Name, target, simple)
		return err
	}
	_, err = cell.CreateDInstance(id.Name, target, t)
	return err
}

func (b *builder) array(cell *layout.Cell, ad *ArrayDecl) error {
	target, err := b.target(cell.Name(), ad.Cell)
	if err != nil {
		return err
	}
	simple, err := placeTrans(ad.Place).ToTrans(b.lay.DBU())
	if err != nil {
		return fmt.Errorf("ldf: array %q placement must be grid-aligned: %w", ad.Name, err)
	}
	a := geom.Vector{X: b.dbu(ad.AX), Y: b.dbu(ad.AY)}
	bv := geom.Vector{X: b.dbu(ad.BX), Y: b.dbu(ad.BY)}
	_, err = cell.CreateArray(ad.Name, target, simple, a, bv, ad.NA, ad.NB)
	return err
}
