package trait

import (
	"fish-morphology/pkg/mask"
	"fish-morphology/pkg/raster"
)

// TraitMask is the binary mask of one trait.
type TraitMask struct {
	Name Name
	Mask *mask.Mask
}

// Masks holds one mask per trait in table order.
type Masks []TraitMask

// Get returns the mask of a trait, or nil when the trait was not decoded.
func (ms Masks) Get(n Name) *mask.Mask {
	for _, tm := range ms {
		if tm.Name == n {
			return tm.Mask
		}
	}
	return nil
}

// Combine unions the masks of names. ok is false when any of them is missing
// or empty, since a composite silhouette without one of its parts is
// meaningless.
func (ms Masks) Combine(names ...Name) (combined *mask.Mask, ok bool) {
	for _, n := range names {
		m := ms.Get(n)
		if m == nil || m.Empty() {
			return nil, false
		}
		if combined == nil {
			combined = m.Clone()
			continue
		}
		u, err := combined.Or(m)
		if err != nil {
			return nil, false
		}
		combined = u
	}
	return combined, combined != nil
}

// Decode builds one mask per non-background trait by exact color equality.
// A trait whose color never occurs gets an all-zero mask.
func Decode(img *raster.Image, t *Table) Masks {
	w, h := img.Width(), img.Height()
	out := make(Masks, 0, len(t.entries))
	slot := make(map[raster.RGB]int, len(t.entries))
	for _, e := range t.entries {
		if e.Name == Background {
			continue
		}
		slot[e.Color] = len(out)
		out = append(out, TraitMask{Name: e.Name, Mask: mask.New(w, h)})
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			if i, ok := slot[img.At(r, c)]; ok {
				out[i].Mask.Set(r, c, true)
			}
		}
	}
	return out
}

// WholeFish marks every pixel that is not the background color.
func WholeFish(img *raster.Image, t *Table) *mask.Mask {
	bg := t.BackgroundColor()
	m := mask.New(img.Width(), img.Height())
	for r := 0; r < img.Height(); r++ {
		for c := 0; c < img.Width(); c++ {
			if img.At(r, c) != bg {
				m.Set(r, c, true)
			}
		}
	}
	return m
}
