package geo

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestAffineGeoRefRoundTrip(t *testing.T) {
	g := &AffineGeoRef{OriginLon: 10, OriginLat: 45, LonPerCol: 0.001, LatPerRow: -0.001}

	tests := []struct {
		name     string
		col, row float64
	}{
		{"origin", 0, 0},
		{"integer cell", 3, 7},
		{"fractional cell", 2.25, 4.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lon, lat := g.PixelToLonLat(tt.col, tt.row)
			col, row, err := g.LonLatToPixel(lon, lat)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if math.Abs(col-tt.col) > 1e-9 || math.Abs(row-tt.row) > 1e-9 {
				t.Errorf("Round trip (%v, %v) -> (%v, %v)", tt.col, tt.row, col, row)
			}
		})
	}
}

func TestLonLatToPixelDegenerate(t *testing.T) {
	g := &AffineGeoRef{OriginLon: 0, OriginLat: 0, LonPerCol: 0, LatPerRow: -1}
	if _, _, err := g.LonLatToPixel(1, 1); err == nil {
		t.Error("Expected an error for a zero column step")
	}
}

func TestGridSpacingSquareGrid(t *testing.T) {
	// For a square-celled north-up raster the diagonal ratio collapses
	// to the cell size.
	g := &AffineGeoRef{OriginLon: 0, OriginLat: 1, LonPerCol: 0.002, LatPerRow: -0.002}
	got := GridSpacing(g, 11, 21)
	if math.Abs(got-0.002) > 1e-12 {
		t.Errorf("Expected spacing 0.002, got %v", got)
	}
}

func TestSphereDatumRoundTrip(t *testing.T) {
	datum := NewMoonDatum()

	tests := []struct {
		name             string
		lon, lat, height float64
	}{
		{"equator on the surface", 0, 0, 0},
		{"mid latitude with height", 30, 45, 1250},
		{"negative longitude below datum", -120, -60, -500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := datum.GeodeticToCartesian(tt.lon, tt.lat, tt.height)
			lon, lat, height := datum.CartesianToGeodetic(p)
			if math.Abs(lon-tt.lon) > 1e-9 || math.Abs(lat-tt.lat) > 1e-9 {
				t.Errorf("Round trip lon/lat (%v, %v) -> (%v, %v)", tt.lon, tt.lat, lon, lat)
			}
			if math.Abs(height-tt.height) > 1e-6 {
				t.Errorf("Round trip height %v -> %v", tt.height, height)
			}
		})
	}
}

func TestSphereDatumSurfaceRadius(t *testing.T) {
	datum := NewSphereDatum(1000)
	p := datum.GeodeticToCartesian(77, -33, 0)
	if r := r3.Norm(p); math.Abs(r-1000) > 1e-9 {
		t.Errorf("Expected surface point at radius 1000, got %v", r)
	}
}

func TestEllipsoidDatumRoundTrip(t *testing.T) {
	datum := &Spheroid{SemiMajor: 6378137, SemiMinor: 6356752.3}

	tests := []struct {
		name             string
		lon, lat, height float64
	}{
		{"equator", 10, 0, 100},
		{"mid latitude", -45, 52.5, 2000},
		{"high latitude", 170, 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := datum.GeodeticToCartesian(tt.lon, tt.lat, tt.height)
			lon, lat, height := datum.CartesianToGeodetic(p)
			if math.Abs(lon-tt.lon) > 1e-9 || math.Abs(lat-tt.lat) > 1e-7 {
				t.Errorf("Round trip lon/lat (%v, %v) -> (%v, %v)", tt.lon, tt.lat, lon, lat)
			}
			if math.Abs(height-tt.height) > 1e-3 {
				t.Errorf("Round trip height %v -> %v", tt.height, height)
			}
		})
	}
}
