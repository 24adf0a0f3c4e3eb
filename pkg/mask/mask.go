// Package mask implements binary masks with the two morphological primitives
// the trait cleaner needs: hole filling and 8-connected component labelling.
package mask

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is returned when masks of different dimensions are combined.
var ErrSizeMismatch = errors.New("mask dimensions differ")

// Point is a pixel position.
type Point struct {
	Row, Col int
}

// Mask is an H x W binary grid stored row-major.
type Mask struct {
	width, height int
	bits          []bool
}

// New returns an all-zero mask.
func New(width, height int) *Mask {
	return &Mask{width: width, height: height, bits: make([]bool, width*height)}
}

// FromRows builds a mask from rows of 0/1 values. Handy for tests and fixtures.
func FromRows(rows [][]int) *Mask {
	if len(rows) == 0 {
		return New(0, 0)
	}
	m := New(len(rows[0]), len(rows))
	for r, row := range rows {
		for c, v := range row {
			if v != 0 {
				m.Set(r, c, true)
			}
		}
	}
	return m
}

func (m *Mask) Width() int  { return m.width }
func (m *Mask) Height() int { return m.height }

// Get reports whether (row, col) is foreground. Out-of-range is background.
func (m *Mask) Get(row, col int) bool {
	if row < 0 || col < 0 || row >= m.height || col >= m.width {
		return false
	}
	return m.bits[row*m.width+col]
}

// Set assigns (row, col). Callers only use it while building a new mask.
func (m *Mask) Set(row, col int, v bool) {
	m.bits[row*m.width+col] = v
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Empty reports whether the mask has no foreground.
func (m *Mask) Empty() bool {
	for _, b := range m.bits {
		if b {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (m *Mask) Clone() *Mask {
	return &Mask{width: m.width, height: m.height, bits: append([]bool(nil), m.bits...)}
}

// Or returns the union of m and others.
func (m *Mask) Or(others ...*Mask) (*Mask, error) {
	out := m.Clone()
	for _, o := range others {
		if o.width != m.width || o.height != m.height {
			return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, m.width, m.height, o.width, o.height)
		}
		for i, b := range o.bits {
			if b {
				out.bits[i] = true
			}
		}
	}
	return out, nil
}

// Row returns the foreground columns of one row in ascending order.
func (m *Mask) Row(row int) []int {
	var cols []int
	for c := 0; c < m.width; c++ {
		if m.Get(row, c) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Col returns the foreground rows of one column in ascending order.
func (m *Mask) Col(col int) []int {
	var rows []int
	for r := 0; r < m.height; r++ {
		if m.Get(r, col) {
			rows = append(rows, r)
		}
	}
	return rows
}

// FromPoints builds a width x height mask with exactly pts set.
func FromPoints(width, height int, pts []Point) *Mask {
	m := New(width, height)
	for _, p := range pts {
		m.Set(p.Row, p.Col, true)
	}
	return m
}
