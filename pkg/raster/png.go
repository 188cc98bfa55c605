package raster

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"os"

	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/sampling"
)

// ReadIntensityImage loads a PNG or JPEG image as a single-channel
// float intensity image scaled to [0, 1], using perceptual luminance
// for color inputs.
func ReadIntensityImage(path string) (*sampling.FloatImage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	out := sampling.NewFloatImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]; standard luminance weights
			lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
			out.Set(x, y, lum)
		}
	}
	return out, nil
}

// WriteGridPNG writes a grid as a min-max normalized grayscale PNG for
// quick visual inspection. No-data cells render black.
func WriteGridPNG(path string, grid *core.Grid) error {
	lo, hi := gridRange(grid)

	img := image.NewGray16(image.Rect(0, 0, grid.Cols, grid.Rows))
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			v := grid.At(col, row)
			var level float64
			if v != grid.NoData && hi > lo {
				level = (v - lo) / (hi - lo)
			}
			img.SetGray16(col, row, color.Gray16{Y: uint16(level * 65535)})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()
	return png.Encode(file, img)
}

func gridRange(grid *core.Grid) (lo, hi float64) {
	first := true
	for _, v := range grid.Heights {
		if v == grid.NoData {
			continue
		}
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
