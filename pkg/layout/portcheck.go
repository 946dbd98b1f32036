package layout

import "github.com/OpenPhotonLab/photonkit/pkg/geom"

// Mismatch is a bit set of port compatibility violations between two ports at
// the same connection point.
type Mismatch uint8

const (
	MismatchWidth Mismatch = 1 << iota
	MismatchAngle
	MismatchType
	MismatchLayer
)

// String lists the set mismatch categories.
func (m Mismatch) String() string {
	if m == 0 {
		return "none"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "+"
		}
		s += name
	}
	if m&MismatchWidth != 0 {
		add("width")
	}
	if m&MismatchAngle != 0 {
		add("angle")
	}
	if m&MismatchType != 0 {
		add("type")
	}
	if m&MismatchLayer != 0 {
		add("layer")
	}
	return s
}

// CheckCoincident compares two ports that are supposed to overlap facing the
// same way, e.g. a cell boundary port and the instance port exposing it.
func CheckCoincident(p1, p2 *Port) Mismatch {
	return checkPorts(p1, p2, 0)
}

// CheckOpposite compares two ports that are supposed to face each other,
// e.g. two instance ports butt-coupled at one point.
func CheckOpposite(p1, p2 *Port) Mismatch {
	return checkPorts(p1, p2, 180)
}

func checkPorts(p1, p2 *Port, wantTurn float64) Mismatch {
	var m Mismatch
	if p1.Width() != p2.Width() {
		m |= MismatchWidth
	}
	if geom.NormalizeAngle(p1.Orientation()-p2.Orientation()) != wantTurn {
		m |= MismatchAngle
	}
	if p1.PortType != p2.PortType {
		m |= MismatchType
	}
	if p1.Layer() != p2.Layer() {
		m |= MismatchLayer
	}
	return m
}
