package sampling

import (
	"fmt"
	"math"
)

// FloatImage is a single-channel intensity image with float64 pixels
type FloatImage struct {
	Width  int
	Height int
	Pix    []float64 // Row-major: Pix[y*Width + x]
}

// NewFloatImage creates a zeroed intensity image
func NewFloatImage(width, height int) *FloatImage {
	return &FloatImage{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// NewUniformImage creates an image with every pixel set to the same intensity
func NewUniformImage(width, height int, intensity float64) *FloatImage {
	img := NewFloatImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = intensity
	}
	return img
}

// At returns the intensity at integer pixel (x, y)
func (im *FloatImage) At(x, y int) float64 {
	return im.Pix[y*im.Width+x]
}

// Set stores an intensity at integer pixel (x, y)
func (im *FloatImage) Set(x, y int, v float64) {
	im.Pix[y*im.Width+x] = v
}

// Cols implements core.IntensitySampler
func (im *FloatImage) Cols() int { return im.Width }

// Rows implements core.IntensitySampler
func (im *FloatImage) Rows() int { return im.Height }

// Sample returns the bilinearly interpolated intensity at a fractional
// pixel coordinate. It reports false when the coordinate falls outside
// [0, Width-1) x [0, Height-1), reserving a one-pixel margin so the
// 2x2 interpolation support is always inside the image.
func (im *FloatImage) Sample(col, row float64) (float64, bool) {
	if col < 0 || col >= float64(im.Width-1) {
		return 0, false
	}
	if row < 0 || row >= float64(im.Height-1) {
		return 0, false
	}

	x0 := int(math.Floor(col))
	y0 := int(math.Floor(row))
	fx := col - float64(x0)
	fy := row - float64(y0)

	v00 := im.At(x0, y0)
	v10 := im.At(x0+1, y0)
	v01 := im.At(x0, y0+1)
	v11 := im.At(x0+1, y0+1)

	top := v00*(1-fx) + v10*fx
	bottom := v01*(1-fx) + v11*fx
	return top*(1-fy) + bottom*fy, true
}

// Validate checks the image dimensions against the pixel storage
func (im *FloatImage) Validate() error {
	if im.Width < 2 || im.Height < 2 {
		return fmt.Errorf("image must be at least 2x2 for bilinear sampling, got %dx%d", im.Width, im.Height)
	}
	if len(im.Pix) != im.Width*im.Height {
		return fmt.Errorf("image storage size %d does not match %dx%d", len(im.Pix), im.Width, im.Height)
	}
	return nil
}
