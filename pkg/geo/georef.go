package geo

import (
	"fmt"
	"math"
)

// AffineGeoRef is a linear mapping from fractional grid coordinates to
// geodetic longitude/latitude in degrees. Pixel (0,0) maps to the
// center of the upper-left grid cell. LatPerRow is negative for the
// usual north-up rasters.
type AffineGeoRef struct {
	OriginLon float64 // longitude of pixel (0,0), degrees
	OriginLat float64 // latitude of pixel (0,0), degrees
	LonPerCol float64 // degrees of longitude per column step
	LatPerRow float64 // degrees of latitude per row step
}

// PixelToLonLat implements core.GeoReference
func (g *AffineGeoRef) PixelToLonLat(col, row float64) (lon, lat float64) {
	return g.OriginLon + col*g.LonPerCol, g.OriginLat + row*g.LatPerRow
}

// LonLatToPixel inverts the mapping; used by the nadir camera
func (g *AffineGeoRef) LonLatToPixel(lon, lat float64) (col, row float64, err error) {
	if g.LonPerCol == 0 || g.LatPerRow == 0 {
		return 0, 0, fmt.Errorf("degenerate georeference: zero step (%g, %g)", g.LonPerCol, g.LatPerRow)
	}
	return (lon - g.OriginLon) / g.LonPerCol, (lat - g.OriginLat) / g.LatPerRow, nil
}

// GridSpacing returns the distance between adjacent grid points in
// georeference units (degrees for geographic rasters): the diagonal
// extent of the grid divided by the diagonal pixel count.
func GridSpacing(g *AffineGeoRef, cols, rows int) float64 {
	ulLon, ulLat := g.PixelToLonLat(0, 0)
	lrLon, lrLat := g.PixelToLonLat(float64(cols-1), float64(rows-1))
	dLon := ulLon - lrLon
	dLat := ulLat - lrLat
	diag := math.Hypot(float64(cols-1), float64(rows-1))
	return math.Hypot(dLon, dLat) / diag
}
