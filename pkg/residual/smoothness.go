package residual

import "github.com/planetgeo/go-sfs/pkg/core"

// SmoothnessResidual penalizes the four second-order finite-difference
// partials of the height field at one grid point:
//
//	r = w * (u_xx, u_xy, u_yx, u_yy)
//
// with u_yx = u_xy by symmetry of the mixed partial. GridSize is the
// linear distance between adjacent grid points, in the same units as
// the heights.
type SmoothnessResidual struct {
	Weight   float64
	GridSize float64
}

// NewSmoothnessResidual creates the smoothness functor shared by all grid points
func NewSmoothnessResidual(weight, gridSize float64) *SmoothnessResidual {
	return &SmoothnessResidual{Weight: weight, GridSize: gridSize}
}

// NumResiduals returns the residual vector length
func (e *SmoothnessResidual) NumResiduals() int { return 4 }

// Evaluate computes the four weighted components. The functor has no
// failing dependency, but the contract still defines the failure path:
// a degenerate grid size pins all components at the penalty sentinel.
func (e *SmoothnessResidual) Evaluate(n Neighborhood) (res []float64, ok bool) {
	gs2 := e.GridSize * e.GridSize
	if gs2 == 0 {
		return []float64{core.Sentinel, core.Sentinel, core.Sentinel, core.Sentinel}, false
	}

	uxx := (n[Left] + n[Right] - 2*n[Center]) / gs2
	uxy := (n[TR] + n[BL] - n[TL] - n[BR]) / (4 * gs2)
	uyy := (n[Top] + n[Bottom] - 2*n[Center]) / gs2

	w := e.Weight
	return []float64{w * uxx, w * uxy, w * uxy, w * uyy}, true
}
