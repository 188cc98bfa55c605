package problem

import (
	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/residual"
)

// Block binds one residual functor to the flat indices of the nine DEM
// cells it reads. Cells are aliased, not copied: overlapping blocks
// share cells, so a height update is seen by every block touching it.
type Block struct {
	Cells      [9]int // flat DEM indices in residual.Neighborhood order
	intensity  *residual.IntensityResidual
	smoothness *residual.SmoothnessResidual
}

func newIntensityBlock(dem *core.Grid, col, row int, e *residual.IntensityResidual) *Block {
	b := &Block{intensity: e}
	b.bindCells(dem, col, row)
	return b
}

func newSmoothnessBlock(dem *core.Grid, col, row int, e *residual.SmoothnessResidual) *Block {
	b := &Block{smoothness: e}
	b.bindCells(dem, col, row)
	return b
}

func (b *Block) bindCells(dem *core.Grid, col, row int) {
	for i := range b.Cells {
		dc, dr := residual.Offsets(i)
		b.Cells[i] = dem.Index(col+dc, row+dr)
	}
}

// NumResiduals returns the length of the block's residual vector
func (b *Block) NumResiduals() int {
	if b.intensity != nil {
		return b.intensity.NumResiduals()
	}
	return b.smoothness.NumResiduals()
}

// UsesAffine reports whether the block reads the affine parameters
func (b *Block) UsesAffine() bool {
	return b.intensity != nil
}

// Evaluate runs the bound functor on a neighborhood of heights
func (b *Block) Evaluate(a [2]float64, n residual.Neighborhood) ([]float64, bool) {
	if b.intensity != nil {
		return b.intensity.Evaluate(a, n)
	}
	return b.smoothness.Evaluate(n)
}

// Gather reads the block's neighborhood heights from the grid
func (b *Block) Gather(heights []float64) residual.Neighborhood {
	var n residual.Neighborhood
	for i, c := range b.Cells {
		n[i] = heights[c]
	}
	return n
}
