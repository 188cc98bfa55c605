package surface

import (
	"errors"

	"github.com/planetgeo/go-sfs/pkg/core"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoData reports that one of the three heights defining a surface
// patch carried the DEM's no-data marker.
var ErrNoData = errors.New("surface: height is the no-data marker")

// Sampler converts DEM heights at a grid point and its right and top
// neighbors into a world-space base point and unit surface normal.
type Sampler struct {
	Geo    core.GeoReference
	Datum  core.Datum
	NoData float64
	Diag   *core.Diagnostics
}

// NewSampler creates a surface geometry sampler
func NewSampler(geoRef core.GeoReference, datum core.Datum, noData float64, diag *core.Diagnostics) *Sampler {
	if diag == nil {
		diag = core.NewDiagnostics(nil)
	}
	return &Sampler{Geo: geoRef, Datum: datum, NoData: noData, Diag: diag}
}

// point converts one grid coordinate plus height to Cartesian XYZ
func (s *Sampler) point(col, row float64, height float64) (r3.Vec, error) {
	if height == s.NoData {
		s.Diag.ReportNoData()
		return r3.Vec{}, ErrNoData
	}
	lon, lat := s.Geo.PixelToLonLat(col, row)
	return s.Datum.GeodeticToCartesian(lon, lat, height), nil
}

// Sample computes the surface patch at (col, row) from the heights of
// the center, right and top grid points. The normal is the negated
// normalized tangent cross product; the sign is a calibrated
// implementation constant, chosen so the normal faces the viewer side
// of the terrain.
func (s *Sampler) Sample(centerH, rightH, topH float64, col, row int) (base, normal r3.Vec, err error) {
	c := float64(col)
	r := float64(row)

	base, err = s.point(c, r, centerH)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	right, err := s.point(c+1, r, rightH)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	top, err := s.point(c, r+1, topH)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}

	dx := r3.Sub(right, base)
	dy := r3.Sub(top, base)
	normal = r3.Scale(-1, r3.Unit(r3.Cross(dx, dy)))
	return base, normal, nil
}
