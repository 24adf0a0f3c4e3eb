// Package fish runs the morphology pipeline on one segmented specimen image
// and formats its results.
package fish

import (
	"fmt"
	"sync"

	"fish-morphology/pkg/landmark"
	"fish-morphology/pkg/morphology"
	"fish-morphology/pkg/presence"
	"fish-morphology/pkg/raster"
	"fish-morphology/pkg/region"
	"fish-morphology/pkg/trait"
)

// Specimen is everything derived from one image.
type Specimen struct {
	// Image is the image landmarks refer to: the aligned image when
	// alignment ran, the input otherwise.
	Image *raster.Image
	// InitialAngle is the body tilt of the input image.
	InitialAngle morphology.Value
	// FishAngle is the body tilt of Image.
	FishAngle morphology.Value

	Masks   trait.Masks
	Regions map[trait.Name]*region.Region
	// Body is the cleaned union of head and trunk, nil when either is
	// missing or the union is rejected.
	Body *region.Region

	Presence     presence.Matrix
	Landmarks    landmark.Set
	Measurements morphology.Record
}

// Analyze runs the full pipeline on img.
func Analyze(img *raster.Image, cfg Config) (*Specimen, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if img == nil {
		return nil, ErrNilImage
	}
	if img.Width() <= 0 || img.Height() <= 0 {
		return nil, raster.ErrEmptyImage
	}
	logger := cfg.logger()

	sp := &Specimen{Image: img}
	sp.InitialAngle = angleOf(img, cfg)
	sp.FishAngle = sp.InitialAngle
	if a, ok := sp.InitialAngle.Get(); cfg.Align && ok {
		sp.Image = img.Rotate(a, cfg.Traits.BackgroundColor())
		sp.FishAngle = angleOf(sp.Image, cfg)
		logger.Printf("aligned by %.2f degrees, residual angle %v", a, sp.FishAngle)
	} else if cfg.Align {
		logger.Printf("no fish found, skipping alignment")
	}

	sp.Masks = trait.Decode(sp.Image, cfg.Traits)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sp.Presence = presence.Build(sp.Masks)
	}()
	go func() {
		defer wg.Done()
		if combined, ok := sp.Masks.Combine(trait.Head, trait.Trunk); ok {
			sp.Body = region.Clean(combined, cfg.Cutoff)
		}
	}()
	sp.Regions = cleanAll(sp.Masks, cfg.Cutoff, cfg.workers())
	wg.Wait()

	for _, tm := range sp.Masks {
		if sp.Regions[tm.Name] == nil && !tm.Mask.Empty() {
			logger.Printf("%s rejected: no blob holds %.0f%% of its area", tm.Name, cfg.Cutoff*100)
		}
	}

	sp.Landmarks = landmark.Extract(cfg.Landmarks, sp.Regions)
	sp.Measurements = morphology.Aggregate(morphology.Input{
		Landmarks: sp.Landmarks,
		Head:      sp.Regions[trait.Head],
		Eye:       sp.Regions[trait.Eye],
		Body:      sp.Body,
		FishAngle: sp.FishAngle,
	})
	return sp, nil
}

func angleOf(img *raster.Image, cfg Config) morphology.Value {
	a, ok := region.FishAngle(trait.WholeFish(img, cfg.Traits), cfg.Cutoff)
	if !ok {
		return morphology.Unavailable
	}
	return morphology.Of(a)
}

// cleanAll cleans every trait mask on a bounded pool of workers. Each worker
// writes only its own slot.
func cleanAll(masks trait.Masks, cutoff float64, workers int) map[trait.Name]*region.Region {
	cleaned := make([]*region.Region, len(masks))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, max(len(masks), 1)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				cleaned[i] = region.Clean(masks[i].Mask, cutoff)
			}
		}()
	}
	for i := range masks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make(map[trait.Name]*region.Region, len(masks))
	for i, tm := range masks {
		out[tm.Name] = cleaned[i]
	}
	return out
}

// PresenceMatrix returns the presence table labelled with baseName.
func (sp *Specimen) PresenceMatrix(baseName string) presence.Matrix {
	m := sp.Presence
	m.BaseName = baseName
	return m
}

// Record returns the measurement record labelled with baseName and carrying
// the external scale and unit.
func (sp *Specimen) Record(baseName string, scale Scale) morphology.Record {
	rec := sp.Measurements.WithScale(scale.Value, scale.Unit)
	rec.BaseName = baseName
	return rec
}
