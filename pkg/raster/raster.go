// Package raster holds the decoded RGB image the morphology pipeline works on.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

var (
	// ErrEmptyImage is returned when an image has zero width or height.
	ErrEmptyImage = errors.New("image has zero width or height")

	// ErrPixelBuffer is returned when a pixel buffer does not match its dimensions.
	ErrPixelBuffer = errors.New("pixel buffer does not match image dimensions")
)

// RGB is a flat 8-bit color.
type RGB struct {
	R, G, B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// Image is an immutable H x W grid of RGB pixels stored row-major.
type Image struct {
	width, height int
	pix           []uint8
}

// New wraps a row-major RGB buffer of 3*width*height bytes.
func New(width, height int, pix []uint8) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	if len(pix) != 3*width*height {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrPixelBuffer, 3*width*height, len(pix))
	}
	buf := make([]uint8, len(pix))
	copy(buf, pix)
	return &Image{width: width, height: height, pix: buf}, nil
}

// Filled returns a width x height image where every pixel is c.
func Filled(width, height int, c RGB) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}
	pix := make([]uint8, 3*width*height)
	for i := 0; i < len(pix); i += 3 {
		pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
	}
	return &Image{width: width, height: height, pix: pix}, nil
}

// FromImage copies any image.Image into an RGB raster. Alpha is ignored.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	w, h := b.Dx(), b.Dy()
	pix := make([]uint8, 0, 3*w*h)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			pix = append(pix, uint8(r>>8), uint8(g>>8), uint8(bl>>8))
		}
	}
	return &Image{width: w, height: h, pix: pix}, nil
}

func (im *Image) Width() int  { return im.width }
func (im *Image) Height() int { return im.height }

// At returns the pixel at (row, col).
func (im *Image) At(row, col int) RGB {
	i := 3 * (row*im.width + col)
	return RGB{im.pix[i], im.pix[i+1], im.pix[i+2]}
}

// Paint returns a copy of the image with the inclusive rectangle
// rows r0..r1, cols c0..c1 set to c. Out-of-range cells are clipped.
func (im *Image) Paint(r0, c0, r1, c1 int, c RGB) *Image {
	out := &Image{width: im.width, height: im.height, pix: append([]uint8(nil), im.pix...)}
	for r := max(r0, 0); r <= min(r1, im.height-1); r++ {
		for col := max(c0, 0); col <= min(c1, im.width-1); col++ {
			i := 3 * (r*im.width + col)
			out.pix[i], out.pix[i+1], out.pix[i+2] = c.R, c.G, c.B
		}
	}
	return out
}

// RGBA converts the raster to an *image.RGBA with opaque alpha.
func (im *Image) RGBA() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, im.width, im.height))
	for i, j := 0, 0; i < len(im.pix); i, j = i+3, j+4 {
		dst.Pix[j] = im.pix[i]
		dst.Pix[j+1] = im.pix[i+1]
		dst.Pix[j+2] = im.pix[i+2]
		dst.Pix[j+3] = 0xff
	}
	return dst
}

// Rotate turns the image counter-clockwise by deg degrees about its center.
// The canvas keeps its size: corners falling outside are clipped and uncovered
// pixels take the fill color. Sampling is nearest-neighbour so flat label
// colors never blend.
func (im *Image) Rotate(deg float64, fill RGB) *Image {
	src := im.RGBA()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.RGBA{fill.R, fill.G, fill.B, 0xff}), image.Point{}, draw.Src)

	theta := deg * math.Pi / 180
	sin, cos := math.Sincos(theta)
	cx, cy := float64(im.width)/2, float64(im.height)/2

	// src -> dst: x' = cos*dx + sin*dy, y' = -sin*dx + cos*dy around (cx, cy)
	m := f64.Aff3{
		cos, sin, cx - cos*cx - sin*cy,
		-sin, cos, cy + sin*cx - cos*cy,
	}
	draw.NearestNeighbor.Transform(dst, m, src, src.Bounds(), draw.Src, nil)

	out, _ := FromImage(dst)
	return out
}
