package problem

import (
	"errors"
	"fmt"

	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/residual"
	"github.com/planetgeo/go-sfs/pkg/surface"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerateReflectance reports that the initial reflectance image
// has zero spread, so the affine scale A0 cannot be estimated.
var ErrDegenerateReflectance = errors.New("problem: reflectance image has zero standard deviation")

// Config controls problem assembly
type Config struct {
	SmoothnessWeight float64
	GridSize         float64 // distance between adjacent grid points, height units
	SolveAffine      bool    // jointly optimize the affine parameters (off by default)
}

// Problem is the assembled sparse residual graph over the DEM grid
type Problem struct {
	DEM    *core.Grid
	Views  []*surface.View
	Blocks []*Block
	Pinned []bool // per DEM cell; pinned cells are held fixed by the solver

	// Affine radiometric parameters relating reflectance to intensity:
	// intensity ~ A[0]*reflectance + A[1]. Estimated once before
	// assembly and frozen unless SolveAffine is set.
	A           [2]float64
	SolveAffine bool

	Config Config
}

// ImageStats computes mean and population standard deviation over the
// non-no-data cells of a rendered grid. Shared by the affine estimation
// and the per-iteration convergence diagnostics.
func ImageStats(g *core.Grid) (mean, stdev float64) {
	vals := make([]float64, 0, len(g.Heights))
	for _, v := range g.Heights {
		if v == g.NoData {
			continue
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return 0, 0
	}
	return stat.Mean(vals, nil), stat.PopStdDev(vals, nil)
}

// EstimateAffine derives the affine radiometric parameters from the
// statistics of the initial reflectance and intensity images:
//
//	A0 = intensityStdev / reflectanceStdev
//	A1 = intensityMean - A0*reflectanceMean
func EstimateAffine(view *surface.View, dem *core.Grid) ([2]float64, error) {
	refl, intensity := view.Render(dem)

	imgMean, imgStdev := ImageStats(intensity)
	refMean, refStdev := ImageStats(refl)
	if refStdev == 0 {
		return [2]float64{}, ErrDegenerateReflectance
	}

	a0 := imgStdev / refStdev
	a1 := imgMean - a0*refMean
	return [2]float64{a0, a1}, nil
}

// Assemble builds the residual graph: for every interior grid cell, one
// intensity block per view plus one smoothness block, all over the same
// 3x3 neighborhood. Outer-ring cells lack full neighbor support and are
// pinned so the optimizer cannot drift the DEM border.
func Assemble(dem *core.Grid, views []*surface.View, cfg Config) (*Problem, error) {
	if err := dem.Validate(); err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("problem: at least one view is required")
	}
	for _, v := range views {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	a, err := EstimateAffine(views[0], dem)
	if err != nil {
		return nil, err
	}

	p := &Problem{
		DEM:         dem,
		Views:       views,
		Pinned:      make([]bool, dem.Cols*dem.Rows),
		A:           a,
		SolveAffine: cfg.SolveAffine,
		Config:      cfg,
	}

	smooth := residual.NewSmoothnessResidual(cfg.SmoothnessWeight, cfg.GridSize)

	cols, rows := dem.Cols, dem.Rows
	for row := 1; row < rows-1; row++ {
		for col := 1; col < cols-1; col++ {
			for _, v := range views {
				p.Blocks = append(p.Blocks,
					newIntensityBlock(dem, col, row, residual.NewIntensityResidual(col, row, v)))
			}
			p.Blocks = append(p.Blocks, newSmoothnessBlock(dem, col, row, smooth))

			// Pin the outer-ring neighbors of cells touching a grid edge
			if col == 1 {
				p.pin(col-1, row-1, col-1, row, col-1, row+1)
			}
			if row == 1 {
				p.pin(col-1, row-1, col, row-1, col+1, row-1)
			}
			if col == cols-2 {
				p.pin(col+1, row-1, col+1, row, col+1, row+1)
			}
			if row == rows-2 {
				p.pin(col-1, row+1, col, row+1, col+1, row+1)
			}
		}
	}

	return p, nil
}

// pin marks the given (col, row) pairs immutable
func (p *Problem) pin(coords ...int) {
	for i := 0; i < len(coords); i += 2 {
		p.Pinned[p.DEM.Index(coords[i], coords[i+1])] = true
	}
}

// NumFree returns the number of free height variables
func (p *Problem) NumFree() int {
	n := 0
	for _, pinned := range p.Pinned {
		if !pinned {
			n++
		}
	}
	return n
}
