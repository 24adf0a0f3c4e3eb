package morphology

import (
	"math"

	"fish-morphology/pkg/landmark"
)

// Distance is the Euclidean distance between two landmarks, unavailable when
// either is absent.
func Distance(a, b landmark.Landmark) Value {
	if !a.Present || !b.Present {
		return Unavailable
	}
	return Of(math.Hypot(float64(a.Row-b.Row), float64(a.Col-b.Col)))
}

// TriangleArea is Heron's formula over three landmarks. Collinear points can
// leave a tiny negative radicand after rounding; it is clamped to zero.
func TriangleArea(p1, p2, p3 landmark.Landmark) Value {
	da, oka := Distance(p1, p2).Get()
	db, okb := Distance(p2, p3).Get()
	dc, okc := Distance(p3, p1).Get()
	if !oka || !okb || !okc {
		return Unavailable
	}
	s := (da + db + dc) / 2
	rad := s * (s - da) * (s - db) * (s - dc)
	if rad < 0 {
		rad = 0
	}
	return Of(math.Sqrt(rad))
}

// Bearing is the angle in degrees of the vector from a to b, with rows
// pointing down: atan2(drow, dcol).
func Bearing(a, b landmark.Landmark) Value {
	if !a.Present || !b.Present {
		return Unavailable
	}
	return Of(math.Atan2(float64(b.Row-a.Row), float64(b.Col-a.Col)) * 180 / math.Pi)
}
