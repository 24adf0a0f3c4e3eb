package cv

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"fish-morphology/pkg/landmark"
	"fish-morphology/pkg/raster"
	"fish-morphology/pkg/region"

	"gocv.io/x/gocv"
)

// ErrWrite is returned when OpenCV fails to encode an output image.
var ErrWrite = errors.New("could not write image")

// LandmarkRenderer draws landmarks as labelled discs.
type LandmarkRenderer struct {
	Radius    int
	Fill      color.RGBA
	Text      color.RGBA
	FontScale float64
}

// NewLandmarkRenderer returns the grey-disc, black-label style.
func NewLandmarkRenderer() *LandmarkRenderer {
	return &LandmarkRenderer{
		Radius:    9,
		Fill:      color.RGBA{R: 128, G: 128, B: 128, A: 255},
		Text:      color.RGBA{A: 255},
		FontScale: 0.35,
	}
}

// Draw returns a BGR mat of img with every present landmark marked. The
// caller owns the mat.
func (lr *LandmarkRenderer) Draw(img *raster.Image, set landmark.Set) (gocv.Mat, error) {
	mat, err := toMat(img)
	if err != nil {
		return mat, err
	}
	for _, id := range set.IDs() {
		lm := set[id]
		if !lm.Present {
			continue
		}
		center := image.Pt(lm.Col, lm.Row)
		gocv.Circle(&mat, center, lr.Radius, lr.Fill, -1)
		gocv.PutText(&mat, strconv.Itoa(id), image.Pt(lm.Col-6, lm.Row+4),
			gocv.FontHersheySimplex, lr.FontScale, lr.Text, 1)
	}
	return mat, nil
}

// Save draws the landmarks and writes the result to path. The format follows
// the file extension.
func (lr *LandmarkRenderer) Save(path string, img *raster.Image, set landmark.Set) error {
	mat, err := lr.Draw(img, set)
	if err != nil {
		return err
	}
	defer mat.Close()
	return writeMat(path, mat)
}

// RegionRenderer outlines cleaned trait regions.
type RegionRenderer struct {
	Color     color.RGBA
	Thickness int
}

// NewRegionRenderer returns thin red outlines.
func NewRegionRenderer() *RegionRenderer {
	return &RegionRenderer{Color: color.RGBA{R: 255, A: 255}, Thickness: 1}
}

// DrawBoxes returns a BGR mat of img with the bounding box of every non-nil
// region drawn on it. The caller owns the mat.
func (rr *RegionRenderer) DrawBoxes(img *raster.Image, regions ...*region.Region) (gocv.Mat, error) {
	mat, err := toMat(img)
	if err != nil {
		return mat, err
	}
	for _, reg := range regions {
		if reg == nil {
			continue
		}
		b := reg.BBox
		// BBox is inclusive, image.Rectangle is not.
		gocv.Rectangle(&mat, image.Rect(b.MinCol, b.MinRow, b.MaxCol+1, b.MaxRow+1), rr.Color, rr.Thickness)
	}
	return mat, nil
}

// DrawAxes returns a BGR mat of img with the major and minor axes of reg's
// best-fit ellipse drawn through its centroid. A nil region draws nothing.
func (rr *RegionRenderer) DrawAxes(img *raster.Image, reg *region.Region) (gocv.Mat, error) {
	mat, err := toMat(img)
	if err != nil || reg == nil {
		return mat, err
	}
	major, minor := axisEnds(reg)
	gocv.Line(&mat, major[0], major[1], rr.Color, rr.Thickness)
	gocv.Line(&mat, minor[0], minor[1], rr.Color, rr.Thickness)
	return mat, nil
}

// SaveBoxes writes the DrawBoxes overlay to path.
func (rr *RegionRenderer) SaveBoxes(path string, img *raster.Image, regions ...*region.Region) error {
	mat, err := rr.DrawBoxes(img, regions...)
	if err != nil {
		return err
	}
	defer mat.Close()
	return writeMat(path, mat)
}

// SaveAxes writes the DrawAxes overlay to path.
func (rr *RegionRenderer) SaveAxes(path string, img *raster.Image, reg *region.Region) error {
	mat, err := rr.DrawAxes(img, reg)
	if err != nil {
		return err
	}
	defer mat.Close()
	return writeMat(path, mat)
}

// axisEnds returns the end points of both ellipse axes. Orientation is
// measured from the row axis, so the major axis runs along
// (cos, sin) in (row, col) and the minor axis along (-sin, cos).
func axisEnds(reg *region.Region) (major, minor [2]image.Point) {
	sin, cos := math.Sincos(reg.Orientation)
	r0, c0 := reg.Centroid.Row, reg.Centroid.Col
	pt := func(dr, dc float64) image.Point {
		return image.Pt(int(math.Round(c0+dc)), int(math.Round(r0+dr)))
	}
	a, b := reg.MajorAxisLength/2, reg.MinorAxisLength/2
	major = [2]image.Point{pt(-cos*a, -sin*a), pt(cos*a, sin*a)}
	minor = [2]image.Point{pt(sin*b, -cos*b), pt(-sin*b, cos*b)}
	return major, minor
}

func toMat(img *raster.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img.RGBA())
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("convert image: %w", err)
	}
	return mat, nil
}

func writeMat(path string, mat gocv.Mat) error {
	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("%w: %s", ErrWrite, path)
	}
	return nil
}
