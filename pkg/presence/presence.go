// Package presence reports raw per-trait connectivity: how many blobs a trait
// has and how much of its area the largest blob holds. It looks at the masks
// as decoded, before any hole filling or cutoff.
package presence

import (
	"bytes"
	"encoding/json"
	"strconv"

	"fish-morphology/pkg/mask"
	"fish-morphology/pkg/trait"
)

// Entry is the presence record of one trait.
type Entry struct {
	Number     int     `json:"number"`
	Percentage float64 `json:"percentage"`
}

// Row pairs an entry with its trait.
type Row struct {
	Trait trait.Name
	Entry
}

// Matrix is the presence table in trait table order.
type Matrix struct {
	BaseName string
	Rows     []Row
}

// Measure computes the entry of one raw mask.
func Measure(m *mask.Mask) Entry {
	comps := mask.Label(m)
	if len(comps) == 0 {
		return Entry{}
	}
	total := 0
	for _, c := range comps {
		total += c.Area()
	}
	best := comps[mask.Largest(comps)]
	return Entry{Number: len(comps), Percentage: float64(best.Area()) / float64(total)}
}

// Build computes the presence matrix of every decoded trait.
func Build(masks trait.Masks) Matrix {
	rows := make([]Row, len(masks))
	for i, tm := range masks {
		rows[i] = Row{Trait: tm.Name, Entry: Measure(tm.Mask)}
	}
	return Matrix{Rows: rows}
}

// Get returns the entry of a trait.
func (m Matrix) Get(n trait.Name) (Entry, bool) {
	for _, r := range m.Rows {
		if r.Trait == n {
			return r.Entry, true
		}
	}
	return Entry{}, false
}

// MarshalJSON writes {"base_name": ..., "<trait>": {"number": n, "percentage": p}, ...}
// keeping trait order. base_name is omitted when empty.
func (m Matrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	sep := func() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
	}
	if m.BaseName != "" {
		sep()
		buf.WriteString(`"base_name":`)
		buf.WriteString(strconv.Quote(m.BaseName))
	}
	for _, r := range m.Rows {
		sep()
		buf.WriteString(strconv.Quote(string(r.Trait)))
		buf.WriteByte(':')
		b, err := json.Marshal(r.Entry)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
