package residual

import (
	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/surface"
)

// IntensityResidual measures the mismatch between observed image
// intensity and affine-scaled modeled reflectance at one grid point:
//
//	r = intensity - A0*reflectance - A1
//
// It is a pure function of the nine neighborhood heights and the two
// affine parameters; everything else is fixed at construction.
type IntensityResidual struct {
	Col, Row int
	View     *surface.View
}

// NewIntensityResidual creates the intensity functor for one (cell, image) pair
func NewIntensityResidual(col, row int, view *surface.View) *IntensityResidual {
	return &IntensityResidual{Col: col, Row: row, View: view}
}

// NumResiduals returns the residual vector length
func (e *IntensityResidual) NumResiduals() int { return 1 }

// Evaluate computes the residual from the affine parameters and the
// neighborhood heights. On any per-sample failure the residual stays at
// the penalty sentinel and ok is false; the block still exists
// structurally but contributes no useful gradient. Failures never
// propagate as panics across the solver boundary.
func (e *IntensityResidual) Evaluate(a [2]float64, n Neighborhood) (res []float64, ok bool) {
	res = []float64{core.Sentinel}

	refl, intensity, err := e.View.ReflectanceAndIntensity(n[Center], n[Right], n[Top], e.Col, e.Row)
	if err != nil {
		return res, false
	}

	res[0] = intensity - a[0]*refl - a[1]
	return res, true
}
