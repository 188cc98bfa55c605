package surface

import (
	"errors"
	"fmt"

	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/reflectance"
)

// ErrOutOfBounds reports that a surface point projected outside the
// sampleable part of the image.
var ErrOutOfBounds = errors.New("surface: projection outside image bounds")

// View binds one input image to its capture geometry: the camera that
// projects surface points into it, the sampler that reads it, and the
// sun/camera positions at capture time.
type View struct {
	Sampler *Sampler
	Camera  core.Camera
	Image   core.IntensitySampler
	Model   core.ModelParams
	Global  core.GlobalParams
}

// NewView creates a view over one image
func NewView(sampler *Sampler, cam core.Camera, img core.IntensitySampler, mp core.ModelParams, gp core.GlobalParams) *View {
	return &View{Sampler: sampler, Camera: cam, Image: img, Model: mp, Global: gp}
}

// ReflectanceAndIntensity evaluates the modeled reflectance of the
// surface patch at (col, row) and the observed image intensity at its
// projection. Any failure (no-data height, projection failure, sample
// outside the image) is returned as an error; callers inside residual
// evaluation treat it as a recoverable per-sample condition.
func (v *View) ReflectanceAndIntensity(centerH, rightH, topH float64, col, row int) (refl, intensity float64, err error) {
	base, normal, err := v.Sampler.Sample(centerH, rightH, topH, col, row)
	if err != nil {
		return 0, 0, err
	}

	refl, _, err = reflectance.Compute(normal, base, v.Model, v.Global)
	if err != nil {
		return 0, 0, err
	}

	pixCol, pixRow, err := v.Camera.Project(base)
	if err != nil {
		return 0, 0, err
	}

	intensity, ok := v.Image.Sample(pixCol, pixRow)
	if !ok {
		return 0, 0, ErrOutOfBounds
	}
	return refl, intensity, nil
}

// Render evaluates reflectance and observed intensity over the whole
// grid. Cells in the last column and row have no right/top neighbor and
// are left at zero, as are cells that fail to resolve. Used for the
// initial affine estimation and the per-iteration diagnostics.
func (v *View) Render(dem *core.Grid) (refl, intensity *core.Grid) {
	refl = core.NewGrid(dem.Cols, dem.Rows, dem.NoData)
	intensity = core.NewGrid(dem.Cols, dem.Rows, dem.NoData)

	for row := 0; row < dem.Rows-1; row++ {
		for col := 0; col < dem.Cols-1; col++ {
			r, i, err := v.ReflectanceAndIntensity(dem.At(col, row), dem.At(col+1, row), dem.At(col, row+1), col, row)
			if err != nil {
				continue
			}
			refl.Set(col, row, r)
			intensity.Set(col, row, i)
		}
	}
	return refl, intensity
}

// Validate checks that the view is fully wired
func (v *View) Validate() error {
	if v.Sampler == nil || v.Camera == nil || v.Image == nil {
		return fmt.Errorf("view %q is missing sampler, camera or image", v.Model.Name)
	}
	return nil
}
