package layout

import (
	"fmt"
	"regexp"
	"sort"
)

// FilterLayer returns the ports on the given layer.
func FilterLayer(ports []*Port, layer LayerInfo) []*Port {
	var out []*Port
	for _, p := range ports {
		if p.Layer() == layer {
			out = append(out, p)
		}
	}
	return out
}

// FilterPortType returns the ports with the given port type.
func FilterPortType(ports []*Port, portType string) []*Port {
	var out []*Port
	for _, p := range ports {
		if p.PortType == portType {
			out = append(out, p)
		}
	}
	return out
}

// FilterRegex returns the ports whose name matches the pattern.
func FilterRegex(ports []*Port, pattern string) ([]*Port, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("layout: bad port filter pattern: %w", err)
	}
	var out []*Port
	for _, p := range ports {
		if p.Name != "" && re.MatchString(p.Name) {
			out = append(out, p)
		}
	}
	return out, nil
}

// FilterDirection returns the ports facing the given quadrant direction.
func FilterDirection(ports []*Port, rot int) []*Port {
	var out []*Port
	for _, p := range ports {
		if p.Angle() == ((rot%4)+4)%4 {
			out = append(out, p)
		}
	}
	return out
}

// RenameClockwise renames the ports counter starting at the lower left,
// walking up the west side, across the north, down the east and back along
// the south edge. Names are prefix + running index starting at start.
func RenameClockwise(ports []*Port, prefix string, start int) {
	sorted := make([]*Port, len(ports))
	copy(sorted, ports)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki := clockwiseKey(sorted[i])
		kj := clockwiseKey(sorted[j])
		if ki[0] != kj[0] {
			return ki[0] < kj[0]
		}
		if ki[1] != kj[1] {
			return ki[1] < kj[1]
		}
		return ki[2] < kj[2]
	})
	for i, p := range sorted {
		p.Name = fmt.Sprintf("%s%d", prefix, start+i)
	}
}

// clockwiseKey orders west, north, east, south; within one side along the
// walking direction.
func clockwiseKey(p *Port) [3]int {
	t := p.Trans()
	var side int
	switch t.Rot {
	case 2: // facing west -> west side
		side = 0
	case 1: // facing north -> north side
		side = 1
	case 0: // facing east -> east side
		side = 2
	default: // facing south -> south side
		side = 3
	}
	dir1 := 1
	if side >= 2 {
		dir1 = -1
	}
	dir2 := -1
	if t.Rot < 2 {
		dir2 = 1
	}
	if side%2 == 1 {
		return [3]int{side, dir1 * t.Disp.X, dir2 * t.Disp.Y}
	}
	return [3]int{side, dir1 * t.Disp.Y, dir2 * t.Disp.X}
}

// RenameByDirection renames ports per facing direction with the prefixes
// east, north, west, south (E0, E1, N0, ...) ordered along each edge.
func RenameByDirection(ports []*Port, prefix string) {
	names := [4]string{"E", "N", "W", "S"}
	for dir := 0; dir < 4; dir++ {
		group := FilterDirection(ports, dir)
		dir2 := 1
		if dir < 2 {
			dir2 = -1
		}
		sort.SliceStable(group, func(i, j int) bool {
			ti, tj := group[i].Trans(), group[j].Trans()
			if dir%2 == 1 {
				if ti.Disp.X != tj.Disp.X {
					return ti.Disp.X < tj.Disp.X
				}
				return dir2*ti.Disp.Y < dir2*tj.Disp.Y
			}
			if ti.Disp.Y != tj.Disp.Y {
				return ti.Disp.Y < tj.Disp.Y
			}
			return dir2*ti.Disp.X < dir2*tj.Disp.X
		})
		for i, p := range group {
			p.Name = fmt.Sprintf("%s%s%d", prefix, names[dir], i)
		}
	}
}
