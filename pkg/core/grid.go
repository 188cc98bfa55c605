package core

import "fmt"

// Grid holds a DEM as a dense 2D array of heights in meters.
// Cells are addressed as (col, row) and stored row-major. The grid
// dimensions are fixed for the lifetime of a run; only heights change.
type Grid struct {
	Cols    int
	Rows    int
	Heights []float64 // Row-major: Heights[row*Cols + col]
	NoData  float64   // Marker value for missing heights
}

// DefaultNoData is used when the input raster declares no no-data value.
const DefaultNoData = -32768

// NewGrid creates a grid with all heights set to zero
func NewGrid(cols, rows int, noData float64) *Grid {
	return &Grid{
		Cols:    cols,
		Rows:    rows,
		Heights: make([]float64, cols*rows),
		NoData:  noData,
	}
}

// NewUniformGrid creates a grid with all heights set to the same value
func NewUniformGrid(cols, rows int, height, noData float64) *Grid {
	g := NewGrid(cols, rows, noData)
	for i := range g.Heights {
		g.Heights[i] = height
	}
	return g
}

// Index returns the flat index of cell (col, row)
func (g *Grid) Index(col, row int) int {
	return row*g.Cols + col
}

// At returns the height at cell (col, row)
func (g *Grid) At(col, row int) float64 {
	return g.Heights[row*g.Cols+col]
}

// Set stores a height at cell (col, row)
func (g *Grid) Set(col, row int, h float64) {
	g.Heights[row*g.Cols+col] = h
}

// IsNoData reports whether the cell holds the no-data marker
func (g *Grid) IsNoData(col, row int) bool {
	return g.Heights[row*g.Cols+col] == g.NoData
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	heights := make([]float64, len(g.Heights))
	copy(heights, g.Heights)
	return &Grid{Cols: g.Cols, Rows: g.Rows, Heights: heights, NoData: g.NoData}
}

// Validate checks that the grid is usable as an optimization domain
func (g *Grid) Validate() error {
	if g.Cols < 3 || g.Rows < 3 {
		return fmt.Errorf("grid must be at least 3x3 to have interior cells, got %dx%d", g.Cols, g.Rows)
	}
	if len(g.Heights) != g.Cols*g.Rows {
		return fmt.Errorf("grid storage size %d does not match %dx%d", len(g.Heights), g.Cols, g.Rows)
	}
	return nil
}
