package landmark

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"fish-morphology/pkg/region"
	"fish-morphology/pkg/trait"
)

// Kind selects which point of a trait region a landmark takes.
type Kind int

const (
	Front Kind = iota
	Back
	Top
	Bottom
	Center
	// CaudalLower is the front of the half at or below the centroid row.
	CaudalLower
	// CaudalUpper is the front of the half above the centroid row.
	CaudalUpper
)

// Rule binds a landmark id to a trait and a kind.
type Rule struct {
	ID    int
	Trait trait.Name
	Kind  Kind
}

// Scheme is the set of landmark rules for one dataset.
type Scheme []Rule

// DefaultScheme is the 18-landmark scheme for a lateral fish view.
func DefaultScheme() Scheme {
	return Scheme{
		{1, trait.Head, Front},
		{2, trait.Head, Top},
		{3, trait.DorsalFin, Front},
		{4, trait.DorsalFin, Bottom},
		{5, trait.CaudalFin, CaudalLower},
		{6, trait.Trunk, Back},
		{7, trait.CaudalFin, CaudalUpper},
		{8, trait.AnalFin, Top},
		{9, trait.AnalFin, Front},
		{10, trait.PelvicFin, Front},
		{11, trait.PectoralFin, Front},
		{12, trait.Head, Back},
		{13, trait.Head, Bottom},
		{14, trait.Eye, Front},
		{15, trait.Eye, Back},
		{16, trait.Eye, Top},
		{17, trait.Eye, Bottom},
		{18, trait.Eye, Center},
	}
}

var (
	// ErrEmptyScheme is returned for a scheme without rules.
	ErrEmptyScheme = errors.New("landmark scheme has no rules")

	// ErrBadRule is returned for a rule with a non-positive or repeated id,
	// no trait or an unknown kind.
	ErrBadRule = errors.New("invalid landmark rule")
)

// Validate checks that s has rules and that every rule is usable. Ids must be
// unique so every run writes the same keys.
func (s Scheme) Validate() error {
	if len(s) == 0 {
		return ErrEmptyScheme
	}
	seen := make(map[int]bool, len(s))
	for _, r := range s {
		switch {
		case r.ID < 1:
			return fmt.Errorf("%w: id %d", ErrBadRule, r.ID)
		case seen[r.ID]:
			return fmt.Errorf("%w: id %d used twice", ErrBadRule, r.ID)
		case r.Trait == "":
			return fmt.Errorf("%w: id %d has no trait", ErrBadRule, r.ID)
		case r.Kind < Front || r.Kind > CaudalUpper:
			return fmt.Errorf("%w: id %d has kind %d", ErrBadRule, r.ID, r.Kind)
		}
		seen[r.ID] = true
	}
	return nil
}

// Set maps landmark ids to landmarks. Every id of the scheme is present as a
// key, absent landmarks included.
type Set map[int]Landmark

// Get returns landmark id, absent if unknown.
func (s Set) Get(id int) Landmark { return s[id] }

// IDs returns the ids in ascending order.
func (s Set) IDs() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MarshalJSON writes {"1": [row, col], "2": [], ...} in ascending id order.
func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteByte(':')
		lm := s[id]
		if lm.Present {
			fmt.Fprintf(&buf, "[%d,%d]", lm.Row, lm.Col)
		} else {
			buf.WriteString("[]")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the format written by MarshalJSON.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw map[string][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Set, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("landmark id %q: %w", k, err)
		}
		switch len(v) {
		case 0:
			out[id] = Landmark{}
		case 2:
			out[id] = At(v[0], v[1])
		default:
			return fmt.Errorf("landmark %d: want [row, col] or [], got %v", id, v)
		}
	}
	*s = out
	return nil
}

// Extract applies scheme to the cleaned regions. A trait missing from regions
// or mapped to nil is absent.
func Extract(scheme Scheme, regions map[trait.Name]*region.Region) Set {
	generic := make(map[trait.Name]Generic)
	type halves struct{ lower, upper Landmark }
	caudal := make(map[trait.Name]halves)

	set := make(Set, len(scheme))
	for _, rule := range scheme {
		reg := regions[rule.Trait]
		switch rule.Kind {
		case CaudalLower, CaudalUpper:
			h, ok := caudal[rule.Trait]
			if !ok {
				h.lower, h.upper = CaudalSplit(reg)
				caudal[rule.Trait] = h
			}
			if rule.Kind == CaudalLower {
				set[rule.ID] = h.lower
			} else {
				set[rule.ID] = h.upper
			}
			continue
		}

		g, ok := generic[rule.Trait]
		if !ok {
			g = Extremes(reg)
			generic[rule.Trait] = g
		}
		switch rule.Kind {
		case Front:
			set[rule.ID] = g.Front
		case Back:
			set[rule.ID] = g.Back
		case Top:
			set[rule.ID] = g.Top
		case Bottom:
			set[rule.ID] = g.Bottom
		case Center:
			if g.CenterPresent {
				set[rule.ID] = Round(g.Center)
			} else {
				set[rule.ID] = Landmark{}
			}
		}
	}
	return set
}
