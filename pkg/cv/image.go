// Package cv reads segmented fish images and draws landmark overlays with
// OpenCV.
package cv

import (
	"errors"
	"fmt"

	"fish-morphology/pkg/raster"

	"gocv.io/x/gocv"
)

var (
	// ErrUnreadable is returned when OpenCV cannot decode a file.
	ErrUnreadable = errors.New("could not load image")

	// ErrNotRGB is returned for images that are not 8-bit, 3-channel color.
	ErrNotRGB = errors.New("segmented image must be 8-bit RGB")
)

// LoadSegmentedImage decodes a segmented image. An alpha channel is dropped;
// any other layout than 8-bit BGR(A) is rejected.
func LoadSegmentedImage(imagePath string) (*raster.Image, error) {
	img := gocv.IMRead(imagePath, gocv.IMReadUnchanged)
	if img.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, imagePath)
	}
	defer img.Close()

	bgr := img
	switch img.Channels() {
	case 3:
	case 4:
		bgr = gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(img, &bgr, gocv.ColorBGRAToBGR)
	default:
		return nil, fmt.Errorf("%w: %s has %d channels", ErrNotRGB, imagePath, img.Channels())
	}
	if bgr.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("%w: %s has mat type %v", ErrNotRGB, imagePath, bgr.Type())
	}

	return matToRaster(bgr)
}

// matToRaster copies a CV_8UC3 BGR mat into an RGB raster.
func matToRaster(bgr gocv.Mat) (*raster.Image, error) {
	rows, cols := bgr.Rows(), bgr.Cols()
	pix := make([]uint8, 0, 3*rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := bgr.GetVecbAt(r, c)
			pix = append(pix, v[2], v[1], v[0])
		}
	}
	return raster.New(cols, rows, pix)
}
