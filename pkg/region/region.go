// Package region computes connected-region properties and implements the
// dominant-blob cleaner used for every trait.
package region

import (
	"errors"
	"fmt"
	"math"

	"fish-morphology/pkg/mask"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultCutoff is the minimum share of a trait's area its largest blob must
// hold to be accepted.
const DefaultCutoff = 0.6

// ErrCutoff is returned for a cutoff outside (0, 1].
var ErrCutoff = errors.New("cutoff must be in (0, 1]")

// BBox is an inclusive bounding box.
type BBox struct {
	MinRow, MinCol, MaxRow, MaxCol int
}

// Width is the horizontal extent MaxCol-MinCol.
func (b BBox) Width() int { return b.MaxCol - b.MinCol }

// Height is the vertical extent MaxRow-MinRow.
func (b BBox) Height() int { return b.MaxRow - b.MinRow }

// Centroid is a sub-pixel position.
type Centroid struct {
	Row, Col float64
}

// Region is one connected component and its shape descriptors.
type Region struct {
	Area     int
	BBox     BBox
	Centroid Centroid
	// Orientation is the angle in radians between the row axis and the major
	// axis of the best-fit ellipse, in (-pi/2, pi/2].
	Orientation        float64
	EquivalentDiameter float64
	MajorAxisLength    float64
	MinorAxisLength    float64

	width, height int
	pixels        []mask.Point
}

// Mask rebuilds a full-size mask holding only this region's pixels.
func (r *Region) Mask() *mask.Mask {
	return mask.FromPoints(r.width, r.height, r.pixels)
}

// FromComponent computes the properties of a labelled component of a
// width x height mask.
func FromComponent(c mask.Component, width, height int) *Region {
	n := len(c.Pixels)
	rows := make([]float64, n)
	cols := make([]float64, n)
	bb := BBox{MinRow: math.MaxInt, MinCol: math.MaxInt, MaxRow: -1, MaxCol: -1}
	for i, p := range c.Pixels {
		rows[i], cols[i] = float64(p.Row), float64(p.Col)
		bb.MinRow = min(bb.MinRow, p.Row)
		bb.MinCol = min(bb.MinCol, p.Col)
		bb.MaxRow = max(bb.MaxRow, p.Row)
		bb.MaxCol = max(bb.MaxCol, p.Col)
	}

	reg := &Region{
		Area:               n,
		BBox:               bb,
		Centroid:           Centroid{Row: stat.Mean(rows, nil), Col: stat.Mean(cols, nil)},
		EquivalentDiameter: math.Sqrt(4 * float64(n) / math.Pi),
		width:              width,
		height:             height,
		pixels:             c.Pixels,
	}

	// Second central moments normalised by area.
	var muRR, muCC, muRC float64
	for i := range rows {
		dr, dc := rows[i]-reg.Centroid.Row, cols[i]-reg.Centroid.Col
		muRR += dr * dr
		muCC += dc * dc
		muRC += dr * dc
	}
	muRR /= float64(n)
	muCC /= float64(n)
	muRC /= float64(n)

	// Equal moments with no cross term (a square or disc) give 0.
	reg.Orientation = 0.5 * math.Atan2(2*muRC, muRR-muCC)
	if reg.Orientation <= -math.Pi/2 {
		reg.Orientation += math.Pi
	}
	reg.MajorAxisLength, reg.MinorAxisLength = axes(muRR, muCC, muRC)
	return reg
}

// axes returns the major and minor axis lengths of the ellipse with the same
// second moments.
func axes(muRR, muCC, muRC float64) (major, minor float64) {
	cov := mat.NewSymDense(2, []float64{muRR, muRC, muRC, muCC})
	var eig mat.EigenSym
	if !eig.Factorize(cov, false) {
		return 0, 0
	}
	vals := eig.Values(nil) // ascending
	lo, hi := math.Max(vals[0], 0), math.Max(vals[1], 0)
	return 4 * math.Sqrt(hi), 4 * math.Sqrt(lo)
}

// Dominant fills holes in m, labels it and returns the largest blob with its
// share of the filled foreground. It returns nil and 0 for an empty mask.
func Dominant(m *mask.Mask) (*Region, float64) {
	filled := mask.FillHoles(m)
	total := filled.Count()
	if total == 0 {
		return nil, 0
	}
	comps := mask.Label(filled)
	best := comps[mask.Largest(comps)]
	return FromComponent(best, m.Width(), m.Height()), float64(best.Area()) / float64(total)
}

// Clean returns the dominant blob of m when it covers at least cutoff of the
// trait's filled area, and nil otherwise. A nil region means the trait is
// absent.
func Clean(m *mask.Mask, cutoff float64) *Region {
	reg, frac := Dominant(m)
	if reg == nil || frac < cutoff {
		return nil
	}
	return reg
}

// ValidateCutoff checks that a cutoff lies in (0, 1].
func ValidateCutoff(cutoff float64) error {
	if !(cutoff > 0 && cutoff <= 1) {
		return fmt.Errorf("%w: got %v", ErrCutoff, cutoff)
	}
	return nil
}
