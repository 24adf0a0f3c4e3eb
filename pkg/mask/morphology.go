package mask

import (
	"cmp"
	"slices"
)

// neighbours8 lists the 8-adjacency offsets in scan order.
var neighbours8 = [8]Point{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// FillHoles fills every background pixel that is enclosed by foreground.
//
// This is grayscale reconstruction by erosion seeded with the mask's maximum
// everywhere except a one-pixel border: background survives only where it is
// reachable from border background through the 3x3 (8-connected) footprint.
// The outer silhouette is never changed.
func FillHoles(m *Mask) *Mask {
	out := m.Clone()
	if m.width == 0 || m.height == 0 || m.Empty() {
		return out
	}

	reached := make([]bool, len(m.bits))
	queue := make([]Point, 0, 2*(m.width+m.height))
	push := func(r, c int) {
		i := r*m.width + c
		if m.bits[i] || reached[i] {
			return
		}
		reached[i] = true
		queue = append(queue, Point{r, c})
	}
	for c := 0; c < m.width; c++ {
		push(0, c)
		push(m.height-1, c)
	}
	for r := 0; r < m.height; r++ {
		push(r, 0)
		push(r, m.width-1)
	}

	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, d := range neighbours8 {
			r, c := p.Row+d.Row, p.Col+d.Col
			if r < 0 || c < 0 || r >= m.height || c >= m.width {
				continue
			}
			push(r, c)
		}
	}

	for i, b := range m.bits {
		if !b && !reached[i] {
			out.bits[i] = true
		}
	}
	return out
}

// Component is one 8-connected blob. Pixels are in row-major order.
type Component struct {
	Label  int
	Pixels []Point
}

// Area is the pixel count of the component.
func (c Component) Area() int { return len(c.Pixels) }

// Label finds the 8-connected components of m. Labels start at 1 and are
// assigned in the order a raster scan first meets each component, so the
// result is deterministic for a given mask.
func Label(m *Mask) []Component {
	labels := make([]int, len(m.bits))
	var comps []Component
	var stack []Point

	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			i := r*m.width + c
			if !m.bits[i] || labels[i] != 0 {
				continue
			}
			id := len(comps) + 1
			labels[i] = id
			stack = append(stack[:0], Point{r, c})
			var pixels []Point
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				pixels = append(pixels, p)
				for _, d := range neighbours8 {
					nr, nc := p.Row+d.Row, p.Col+d.Col
					if nr < 0 || nc < 0 || nr >= m.height || nc >= m.width {
						continue
					}
					j := nr*m.width + nc
					if m.bits[j] && labels[j] == 0 {
						labels[j] = id
						stack = append(stack, Point{nr, nc})
					}
				}
			}
			sortRowMajor(pixels)
			comps = append(comps, Component{Label: id, Pixels: pixels})
		}
	}
	return comps
}

// Largest returns the index of the biggest component, the first one in label
// order on ties, or -1 when there are none.
func Largest(comps []Component) int {
	best := -1
	for i, c := range comps {
		if best < 0 || c.Area() > comps[best].Area() {
			best = i
		}
	}
	return best
}

func sortRowMajor(pts []Point) {
	slices.SortFunc(pts, func(a, b Point) int {
		if a.Row != b.Row {
			return cmp.Compare(a.Row, b.Row)
		}
		return cmp.Compare(a.Col, b.Col)
	})
}
