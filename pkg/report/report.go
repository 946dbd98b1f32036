// Package report implements a small diagnostics database. Findings are
// grouped into a hierarchy of named categories and attached to the cell they
// were found in, each carrying text and geometry values that point at the
// offending location.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/OpenPhotonLab/photonkit/pkg/geom"
)

// Database is a collection of diagnostic items grouped by category and cell.
type Database struct {
	name       string
	categories map[string]*Category
	roots      []*Category
	cells      map[string]*Cell
	cellNames  []string
	items      []*Item
}

// NewDatabase creates an empty database with a display name.
func NewDatabase(name string) *Database {
	return &Database{
		name:       name,
		categories: make(map[string]*Category),
		cells:      make(map[string]*Cell),
	}
}

// Name returns the database display name.
func (db *Database) Name() string {
	return db.name
}

// Category is a node in the category tree. Its path is the dot-joined chain
// of names from the root.
type Category struct {
	name   string
	path   string
	parent *Category
	subs   []*Category
	items  []*Item
}

// Category returns the category at the given dot-separated path, creating any
// missing levels. Repeated calls with the same path return the same node.
func (db *Database) Category(path string) *Category {
	if c, ok := db.categories[path]; ok {
		return c
	}
	var parent *Category
	name := path
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		parent = db.Category(path[:i])
		name = path[i+1:]
	}
	c := &Category{name: name, path: path, parent: parent}
	db.categories[path] = c
	if parent != nil {
		parent.subs = append(parent.subs, c)
	} else {
		db.roots = append(db.roots, c)
	}
	return c
}

// Categories returns the top-level categories in creation order.
func (db *Database) Categories() []*Category {
	out := make([]*Category, len(db.roots))
	copy(out, db.roots)
	return out
}

// Name returns the category's own name (the last path element).
func (c *Category) Name() string {
	return c.name
}

// Path returns the full dot-separated category path.
func (c *Category) Path() string {
	return c.path
}

// Subs returns the direct sub-categories in creation order.
func (c *Category) Subs() []*Category {
	out := make([]*Category, len(c.subs))
	copy(out, c.subs)
	return out
}

// ItemCount returns the number of items in this category including all
// sub-categories.
func (c *Category) ItemCount() int {
	n := len(c.items)
	for _, s := range c.subs {
		n += s.ItemCount()
	}
	return n
}

// Cell is the per-cell bucket items are attached to.
type Cell struct {
	name  string
	items []*Item
}

// Cell returns the entry for a cell name, creating it on first use.
func (db *Database) Cell(name string) *Cell {
	if c, ok := db.cells[name]; ok {
		return c
	}
	c := &Cell{name: name}
	db.cells[name] = c
	db.cellNames = append(db.cellNames, name)
	return c
}

// Cells returns the cell entries in creation order.
func (db *Database) Cells() []*Cell {
	out := make([]*Cell, 0, len(db.cellNames))
	for _, n := range db.cellNames {
		out = append(out, db.cells[n])
	}
	return out
}

// Name returns the cell name.
func (c *Cell) Name() string {
	return c.name
}

// Items returns the cell's items in insertion order.
func (c *Cell) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Item is one finding: a category, the cell it was found in, and a list of
// values describing it.
type Item struct {
	cell     *Cell
	category *Category
	values   []Value
}

// Value is one element of an item: a text note or a piece of geometry in
// micrometer units.
type Value struct {
	Text    string
	Polygon *geom.DPolygon
	Edge    *geom.DEdge
}

// CreateItem adds an empty item for a cell under a category.
func (db *Database) CreateItem(cell *Cell, cat *Category) *Item {
	it := &Item{cell: cell, category: cat}
	cell.items = append(cell.items, it)
	cat.items = append(cat.items, it)
	db.items = append(db.items, it)
	return it
}

// NumItems returns the total number of items in the database.
func (db *Database) NumItems() int {
	return len(db.items)
}

// Cell returns the cell the item belongs to.
func (it *Item) Cell() *Cell {
	return it.cell
}

// Category returns the item's category.
func (it *Item) Category() *Category {
	return it.category
}

// Values returns the item's values in insertion order.
func (it *Item) Values() []Value {
	out := make([]Value, len(it.values))
	copy(out, it.values)
	return out
}

// AddText appends a text value.
func (it *Item) AddText(format string, args ...any) *Item {
	it.values = append(it.values, Value{Text: fmt.Sprintf(format, args...)})
	return it
}

// AddPolygon appends a polygon value.
func (it *Item) AddPolygon(p geom.DPolygon) *Item {
	it.values = append(it.values, Value{Polygon: &p})
	return it
}

// AddEdge appends an edge value.
func (it *Item) AddEdge(e geom.DEdge) *Item {
	it.values = append(it.values, Value{Edge: &e})
	return it
}

// WriteSummary writes a per-category item count table, categories sorted by
// path, followed by the total.
func (db *Database) WriteSummary(w io.Writer) error {
	paths := make([]string, 0, len(db.categories))
	for p := range db.categories {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		c := db.categories[p]
		if len(c.items) == 0 && len(c.subs) > 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-40s %d\n", p, c.ItemCount()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%-40s %d\n", "total", len(db.items))
	return err
}

type jsonValue struct {
	Text    string        `json:"text,omitempty"`
	Polygon []geom.DPoint `json:"polygon,omitempty"`
	Edge    []geom.DPoint `json:"edge,omitempty"`
}

type jsonItem struct {
	Cell     string      `json:"cell"`
	Category string      `json:"category"`
	Values   []jsonValue `json:"values"`
}

type jsonDatabase struct {
	Name  string     `json:"name"`
	Items []jsonItem `json:"items"`
}

// ExportJSON writes all items as a flat JSON document.
func (db *Database) ExportJSON(w io.Writer) error {
	doc := jsonDatabase{Name: db.name, Items: make([]jsonItem, 0, len(db.items))}
	for _, it := range db.items {
		ji := jsonItem{Cell: it.cell.name, Category: it.category.path}
		for _, v := range it.values {
			jv := jsonValue{Text: v.Text}
			if v.Polygon != nil {
				jv.Polygon = v.Polygon.Points
			}
			if v.Edge != nil {
				jv.Edge = []geom.DPoint{v.Edge.P1, v.Edge.P2}
			}
			ji.Values = append(ji.Values, jv)
		}
		doc.Items = append(doc.Items, ji)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
