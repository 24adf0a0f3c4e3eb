package region

import (
	"math"

	"fish-morphology/pkg/mask"
)

// Degrees re-expresses a principal-axis orientation (radians from the row
// axis) as a signed tilt in degrees where a horizontal fish is 0. The result
// is rounded to 2 decimals and never negative zero.
func Degrees(orientation float64) float64 {
	deg := math.Abs(orientation * 180 / math.Pi)
	var sign float64
	switch {
	case orientation > 0:
		sign = 1
	case orientation < 0:
		sign = -1
	}
	a := math.Round(sign*(90-deg)*100) / 100
	if a == 0 {
		return 0
	}
	return a
}

// FishAngle estimates the body tilt of a whole-fish mask in degrees. ok is
// false when the mask is empty or its dominant blob is rejected by cutoff.
func FishAngle(whole *mask.Mask, cutoff float64) (angle float64, ok bool) {
	reg := Clean(whole, cutoff)
	if reg == nil {
		return 0, false
	}
	return Degrees(reg.Orientation), true
}
