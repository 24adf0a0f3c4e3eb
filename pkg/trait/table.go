// Package trait maps anatomical traits to the flat colors of a segmented fish
// image and decodes such an image into one binary mask per trait.
package trait

import (
	"errors"
	"fmt"
	"os"

	"fish-morphology/pkg/raster"

	"gopkg.in/yaml.v3"
)

// Name identifies an anatomical trait.
type Name string

const (
	Background   Name = "background"
	DorsalFin    Name = "dorsal_fin"
	AdiposFin    Name = "adipos_fin"
	CaudalFin    Name = "caudal_fin"
	AnalFin      Name = "anal_fin"
	PelvicFin    Name = "pelvic_fin"
	PectoralFin  Name = "pectoral_fin"
	Head         Name = "head"
	Eye          Name = "eye"
	CaudalFinRay Name = "caudal_fin_ray"
	AltFinRay    Name = "alt_fin_ray"
	Trunk        Name = "trunk"
)

var (
	// ErrDuplicateColor is returned when two traits share one color.
	ErrDuplicateColor = errors.New("two traits share a color")

	// ErrDuplicateTrait is returned when a trait is listed twice.
	ErrDuplicateTrait = errors.New("trait listed twice")

	// ErrEmptyTable is returned for a table without any trait.
	ErrEmptyTable = errors.New("trait table is empty")

	// ErrUnknownTrait is returned when a trait is not in the table.
	ErrUnknownTrait = errors.New("unknown trait")

	// ErrBadColor is returned for a color that is not three 0-255 channels.
	ErrBadColor = errors.New("color must be three channels in 0-255")
)

// Entry binds a trait to its color.
type Entry struct {
	Name  Name
	Color raster.RGB
}

// Table is an ordered, injective trait-to-color mapping. It is immutable.
type Table struct {
	entries []Entry
	index   map[Name]int
}

// NewTable validates entries and builds a table. Order is preserved.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{entries: append([]Entry(nil), entries...), index: make(map[Name]int, len(entries))}
	colors := make(map[raster.RGB]Name, len(entries))
	for i, e := range entries {
		if _, ok := t.index[e.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTrait, e.Name)
		}
		if other, ok := colors[e.Color]; ok {
			return nil, fmt.Errorf("%w: %s and %s are both %s", ErrDuplicateColor, other, e.Name, e.Color)
		}
		t.index[e.Name] = i
		colors[e.Color] = e.Name
	}
	return t, nil
}

// DefaultTable is the color scheme of the fish segmentation model.
func DefaultTable() *Table {
	t, err := NewTable([]Entry{
		{Background, raster.RGB{R: 0, G: 0, B: 0}},
		{DorsalFin, raster.RGB{R: 254, G: 0, B: 0}},
		{AdiposFin, raster.RGB{R: 0, G: 254, B: 0}},
		{CaudalFin, raster.RGB{R: 0, G: 0, B: 254}},
		{AnalFin, raster.RGB{R: 254, G: 254, B: 0}},
		{PelvicFin, raster.RGB{R: 0, G: 254, B: 254}},
		{PectoralFin, raster.RGB{R: 254, G: 0, B: 254}},
		{Head, raster.RGB{R: 254, G: 254, B: 254}},
		{Eye, raster.RGB{R: 0, G: 254, B: 102}},
		{CaudalFinRay, raster.RGB{R: 254, G: 102, B: 102}},
		{AltFinRay, raster.RGB{R: 254, G: 102, B: 204}},
		{Trunk, raster.RGB{R: 0, G: 124, B: 124}},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Entries returns the table in order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Color returns the color of a trait.
func (t *Table) Color(n Name) (raster.RGB, error) {
	i, ok := t.index[n]
	if !ok {
		return raster.RGB{}, fmt.Errorf("%w: %s", ErrUnknownTrait, n)
	}
	return t.entries[i].Color, nil
}

// BackgroundColor is the background entry's color, black if the table has
// none.
func (t *Table) BackgroundColor() raster.RGB {
	c, _ := t.Color(Background)
	return c
}

// Traits lists every trait except background, in table order.
func (t *Table) Traits() []Name {
	names := make([]Name, 0, len(t.entries))
	for _, e := range t.entries {
		if e.Name != Background {
			names = append(names, e.Name)
		}
	}
	return names
}

// fileEntry is the on-disk form of an entry.
type fileEntry struct {
	Name  Name  `yaml:"name"`
	Color []int `yaml:"color,flow"`
}

type fileTable struct {
	Traits []fileEntry `yaml:"traits"`
}

// ParseTable reads a table from YAML (or JSON, which YAML accepts):
//
//	traits:
//	  - {name: background, color: [0, 0, 0]}
//	  - {name: head, color: [254, 254, 254]}
func ParseTable(data []byte) (*Table, error) {
	var ft fileTable
	if err := yaml.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("parse trait table: %w", err)
	}
	entries := make([]Entry, len(ft.Traits))
	for i, fe := range ft.Traits {
		if len(fe.Color) != 3 {
			return nil, fmt.Errorf("%w: %s has %d channels", ErrBadColor, fe.Name, len(fe.Color))
		}
		for _, v := range fe.Color {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: %s channel %d", ErrBadColor, fe.Name, v)
			}
		}
		entries[i] = Entry{Name: fe.Name, Color: raster.RGB{R: uint8(fe.Color[0]), G: uint8(fe.Color[1]), B: uint8(fe.Color[2])}}
	}
	return NewTable(entries)
}

// LoadTable reads a table file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trait table: %w", err)
	}
	t, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// MarshalYAML writes the table in the format ParseTable reads.
func (t *Table) MarshalYAML() (interface{}, error) {
	ft := fileTable{Traits: make([]fileEntry, len(t.entries))}
	for i, e := range t.entries {
		ft.Traits[i] = fileEntry{Name: e.Name, Color: []int{int(e.Color.R), int(e.Color.G), int(e.Color.B)}}
	}
	return ft, nil
}
