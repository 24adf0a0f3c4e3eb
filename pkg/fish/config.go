package fish

import (
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"

	"fish-morphology/pkg/landmark"
	"fish-morphology/pkg/region"
	"fish-morphology/pkg/trait"
)

// ErrNilImage is returned when Analyze is called without an image.
var ErrNilImage = errors.New("no image to analyze")

// Config holds the settings of one analysis run.
type Config struct {
	// Cutoff is the share of a trait's area its largest blob must hold
	// for the trait to count as present. Older runs used 0.5.
	Cutoff float64
	// Align rotates the image so the body axis is horizontal before
	// landmarks are taken.
	Align     bool
	Traits    *trait.Table
	Landmarks landmark.Scheme
	// Workers bounds the per-trait fan-out. Values below 1 mean one.
	Workers int
	Logger  *log.Logger
}

// DefaultConfig returns the settings used for published measurements.
func DefaultConfig() Config {
	return Config{
		Cutoff:    region.DefaultCutoff,
		Align:     true,
		Traits:    trait.DefaultTable(),
		Landmarks: landmark.DefaultScheme(),
		Workers:   runtime.NumCPU(),
	}
}

// Validate checks the settings.
func (c Config) Validate() error {
	if err := region.ValidateCutoff(c.Cutoff); err != nil {
		return err
	}
	if c.Traits == nil {
		return fmt.Errorf("config: %w", trait.ErrEmptyTable)
	}
	if err := c.Landmarks.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (c Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return c.Logger
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}
