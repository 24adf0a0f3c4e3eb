// Package landmark derives directional anatomical landmarks from cleaned
// trait regions. The rules assume a horizontally aligned fish, head left.
package landmark

import (
	"math"

	"fish-morphology/pkg/mask"
	"fish-morphology/pkg/region"

	"gonum.org/v1/gonum/stat"
)

// Point is an integer pixel position.
type Point struct {
	Row, Col int
}

// Landmark is a point that may be absent.
type Landmark struct {
	Point
	Present bool
}

// At returns a present landmark.
func At(row, col int) Landmark {
	return Landmark{Point: Point{Row: row, Col: col}, Present: true}
}

// Generic holds the five directional landmarks of one region.
type Generic struct {
	Front, Back, Top, Bottom Landmark
	// Center is the unrounded centroid; Present follows the region.
	Center        region.Centroid
	CenterPresent bool
}

// Extremes computes the directional landmarks of a cleaned region. A nil
// region gives all landmarks absent.
func Extremes(reg *region.Region) Generic {
	if reg == nil {
		return Generic{}
	}
	m := reg.Mask()
	bb := reg.BBox
	return Generic{
		Top:           rowExtreme(m, bb.MinRow),
		Bottom:        rowExtreme(m, bb.MaxRow),
		Front:         colExtreme(m, bb.MinCol),
		Back:          colExtreme(m, bb.MaxCol),
		Center:        reg.Centroid,
		CenterPresent: true,
	}
}

// rowExtreme places a landmark on row at the mean foreground column.
func rowExtreme(m *mask.Mask, row int) Landmark {
	cols := m.Row(row)
	if len(cols) == 0 {
		return Landmark{}
	}
	return At(row, roundMean(cols))
}

// colExtreme places a landmark on col at the mean foreground row.
func colExtreme(m *mask.Mask, col int) Landmark {
	rows := m.Col(col)
	if len(rows) == 0 {
		return Landmark{}
	}
	return At(roundMean(rows), col)
}

// front finds the left-most foreground column among rows [r0, r1) and
// places a landmark at the mean row of that column within the range.
func front(m *mask.Mask, r0, r1 int) Landmark {
	r0, r1 = max(r0, 0), min(r1, m.Height())
	for c := 0; c < m.Width(); c++ {
		var rows []int
		for r := r0; r < r1; r++ {
			if m.Get(r, c) {
				rows = append(rows, r)
			}
		}
		if len(rows) > 0 {
			return At(roundMean(rows), c)
		}
	}
	return Landmark{}
}

// CaudalSplit splits a caudal fin at its rounded centroid row and returns the
// front of the lower half (rows >= split) and of the upper half (rows <
// split). A half without pixels gives an absent landmark.
func CaudalSplit(reg *region.Region) (lower, upper Landmark) {
	if reg == nil {
		return Landmark{}, Landmark{}
	}
	m := reg.Mask()
	split := int(math.RoundToEven(reg.Centroid.Row))
	return front(m, split, m.Height()), front(m, 0, split)
}

func roundMean(xs []int) int {
	fs := make([]float64, len(xs))
	for i, x := range xs {
		fs[i] = float64(x)
	}
	return int(math.RoundToEven(stat.Mean(fs, nil)))
}

// Round converts a centroid into a landmark, rounding half to even.
func Round(c region.Centroid) Landmark {
	return At(int(math.RoundToEven(c.Row)), int(math.RoundToEven(c.Col)))
}
