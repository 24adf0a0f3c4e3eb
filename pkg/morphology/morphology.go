// Package morphology turns landmarks and cleaned trait regions into the fixed
// set of morphometric measurements. Every measurement is computed on its own:
// a missing input only makes that measurement unavailable.
package morphology

import (
	"math"

	"fish-morphology/pkg/landmark"
	"fish-morphology/pkg/region"
)

// Input is everything the aggregator reads. Nil regions are absent traits.
type Input struct {
	Landmarks landmark.Set
	Head      *region.Region
	Eye       *region.Region
	// Body is the cleaned union of head and trunk.
	Body *region.Region
	// FishAngle is the PCA tilt estimate in degrees.
	FishAngle Value
}

// Record is the measurement output. Field order is the output order.
type Record struct {
	BaseName string `json:"base_name"`

	StandardLengthBBox Value `json:"SL_bbox"`
	StandardLengthLM   Value `json:"SL_lm"`
	HeadLengthBBox     Value `json:"HL_bbox"`
	HeadLengthLM       Value `json:"HL_lm"`
	PreOrbitalBBox     Value `json:"pOD_bbox"`
	PreOrbitalLM       Value `json:"pOD_lm"`
	EyeDiameterBBox    Value `json:"ED_bbox"`
	EyeDiameterLM      Value `json:"ED_lm"`
	// EyeDiameterEq is the diameter of the disc with the eye's area.
	EyeDiameterEq Value `json:"ED_eq"`

	// HeadHeight and HeadHeightSpan follow the column through the eye centroid.
	HeadHeight     Value `json:"HH_lm"`
	HeadHeightSpan Value `json:"HH_lm_v2"`
	// HeadWidth and HeadWidthSpan follow the row through the eye centroid.
	HeadWidth     Value `json:"HW_lm"`
	HeadWidthSpan Value `json:"HW_lm_v2"`

	HeadDepthLM  Value `json:"HD_lm"`
	HeadTriangle Value `json:"HT_lm"`
	EyeArea      Value `json:"EA_m"`
	HeadArea     Value `json:"HA_m"`
	FishAnglePCA Value `json:"FA_pca"`
	FishAngleLM  Value `json:"FA_lm"`

	Scale Value   `json:"scale"`
	Unit  *string `json:"unit"`
}

// Aggregate computes every measurement of in.
func Aggregate(in Input) Record {
	lm := in.Landmarks.Get
	dist := func(a, b int) Value { return Distance(lm(a), lm(b)).RoundTo(2) }

	rec := Record{
		StandardLengthBBox: bboxWidth(in.Body),
		StandardLengthLM:   dist(1, 6),
		HeadLengthBBox:     bboxWidth(in.Head),
		HeadLengthLM:       dist(1, 12),
		PreOrbitalBBox:     preOrbitalBBox(in.Head, in.Eye),
		PreOrbitalLM:       dist(1, 14),
		EyeDiameterBBox:    bboxWidth(in.Eye),
		EyeDiameterLM:      dist(14, 15),
		EyeDiameterEq:      equivalentDiameter(in.Eye),
		HeadDepthLM:        dist(2, 13),
		HeadTriangle:       TriangleArea(lm(1), lm(2), lm(13)).RoundTo(2),
		EyeArea:            area(in.Eye),
		HeadArea:           area(in.Head),
		FishAnglePCA:       in.FishAngle,
		FishAngleLM:        Bearing(lm(1), lm(6)).RoundTo(2),
	}
	rec.HeadHeight, rec.HeadHeightSpan = headColumn(in.Head, in.Eye)
	rec.HeadWidth, rec.HeadWidthSpan = headRow(in.Head, in.Eye)
	return rec
}

func bboxWidth(r *region.Region) Value {
	if r == nil {
		return Unavailable
	}
	return OfInt(r.BBox.Width())
}

func equivalentDiameter(r *region.Region) Value {
	if r == nil {
		return Unavailable
	}
	return Of(r.EquivalentDiameter).RoundTo(2)
}

func area(r *region.Region) Value {
	if r == nil {
		return Unavailable
	}
	return OfInt(r.Area)
}

// preOrbitalBBox is the horizontal gap between the left edges of the head and
// eye boxes.
func preOrbitalBBox(head, eye *region.Region) Value {
	if head == nil || eye == nil {
		return Unavailable
	}
	return OfInt(eye.BBox.MinCol - head.BBox.MinCol)
}

// headRow measures the head along the row through the eye centroid: the pixel
// count and the distance between the first and last head pixel. They differ
// when the head outline is not convex along that row.
func headRow(head, eye *region.Region) (count, span Value) {
	if head == nil || eye == nil {
		return Unavailable, Unavailable
	}
	row := int(math.RoundToEven(eye.Centroid.Row))
	return line(head.Mask().Row(row))
}

// headColumn is headRow along the column through the eye centroid.
func headColumn(head, eye *region.Region) (count, span Value) {
	if head == nil || eye == nil {
		return Unavailable, Unavailable
	}
	col := int(math.RoundToEven(eye.Centroid.Col))
	return line(head.Mask().Col(col))
}

func line(idx []int) (count, span Value) {
	if len(idx) == 0 {
		return Unavailable, Unavailable
	}
	return OfInt(len(idx)), OfInt(idx[len(idx)-1] - idx[0])
}

// WithScale sets the pass-through scale and unit from external metadata.
func (r Record) WithScale(scale Value, unit string) Record {
	r.Scale = scale
	if unit != "" {
		r.Unit = &unit
	} else {
		r.Unit = nil
	}
	return r
}
