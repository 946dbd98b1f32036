package ldf

// File is a complete layout description: the resolution header, the layer
// table and the cell definitions. All coordinates and widths are in
// micrometers.
type File struct {
	DBU    float64      `parser:"KwLayout KwDBU @Number Semicolon"`
	Layers []*LayerDecl `parser:"@@*"`
	Cells  []*CellDecl  `parser:"@@*"`
}

// LayerDecl names a layer/datatype pair.
// Example: layer wg 1/0;
type LayerDecl struct {
	Name     string `parser:"KwLayer @Ident"`
	Layer    int    `parser:"@Number"`
	Datatype int    `parser:"Slash @Number Semicolon"`
}

// CellDecl is one cell with its ports, shapes and instances.
type CellDecl struct {
	Name  string      `parser:"KwCell @Ident LBrace"`
	Items []*CellItem `parser:"@@* RBrace"`
}

// CellItem is one statement inside a cell body.
type CellItem struct {
	Port  *PortDecl  `parser:"  @@"`
	Box   *BoxDecl   `parser:"| @@"`
	Poly  *PolyDecl  `parser:"| @@"`
	Array *ArrayDecl `parser:"| @@"`
	Inst  *InstDecl  `parser:"| @@"`
}

// Placement is a position with optional rotation (degrees) and mirror flag.
// Example: at 10 0 rot 90 mirror
type Placement struct {
	X      float64 `parser:"KwAt @Number"`
	Y      float64 `parser:"@Number"`
	Rot    float64 `parser:"( KwRot @Number )?"`
	Mirror bool    `parser:"@KwMirror?"`
}

// PortDecl declares a boundary port.
// Example: port o1 optical wg width 0.5 at 0 0 rot 180;
type PortDecl struct {
	Name  string    `parser:"KwPort @Ident"`
	Type  string    `parser:"@Ident"`
	Layer string    `parser:"@Ident"`
	Width float64   `parser:"KwWidth @Number"`
	Place Placement `parser:"@@ Semicolon"`
}

// BoxDecl adds a rectangle.
// Example: box wg 0 -0.25 10 0.25;
type BoxDecl struct {
	Layer string  `parser:"KwBox @Ident"`
	X1    float64 `parser:"@Number"`
	Y1    float64 `parser:"@Number"`
	X2    float64 `parser:"@Number"`
	Y2    float64 `parser:"@Number Semicolon"`
}

// PolyDecl adds a polygon from its hull points.
// Example: poly wg (0 0) (10 0) (10 10);
type PolyDecl struct {
	Layer  string       `parser:"KwPoly @Ident"`
	Points []*PolyPoint `parser:"@@+ Semicolon"`
}

// PolyPoint is one polygon hull point.
type PolyPoint struct {
	X float64 `parser:"LParen @Number"`
	Y float64 `parser:"@Number RParen"`
}

// InstDecl places a single sub-cell instance.
// Example: inst s1 straight at 0 0;
type InstDecl struct {
	Name  string    `parser:"KwInst @Ident"`
	Cell  string    `parser:"@Ident"`
	Place Placement `parser:"@@ Semicolon"`
}

// ArrayDecl places a regular array of a sub-cell.
// Example: array a straight at 0 0 step 20 0 0 10 count 3 2;
type ArrayDecl struct {
	Name  string    `parser:"KwArray @Ident"`
	Cell  string    `parser:"@Ident"`
	Place Placement `parser:"@@"`
	AX    float64   `parser:"KwStep @Number"`
	AY    float64   `parser:"@Number"`
	BX    float64   `parser:"@Number"`
	BY    float64   `parser:"@Number"`
	NA    int       `parser:"KwCount @Number"`
	NB    int       `parser:"@Number Semicolon"`
}
