package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Spheroid is a biaxial reference datum. Heights are measured along the
// ellipsoid normal in meters.
type Spheroid struct {
	SemiMajor float64 // equatorial radius, meters
	SemiMinor float64 // polar radius, meters
}

// MoonRadius is the IAU mean lunar radius in meters
const MoonRadius = 1737400.0

// NewMoonDatum returns the spherical lunar datum
func NewMoonDatum() *Spheroid {
	return &Spheroid{SemiMajor: MoonRadius, SemiMinor: MoonRadius}
}

// NewSphereDatum returns a spherical datum with the given radius in meters
func NewSphereDatum(radius float64) *Spheroid {
	return &Spheroid{SemiMajor: radius, SemiMinor: radius}
}

// GeodeticToCartesian converts geodetic lon/lat in degrees and height in
// meters to planet-centered Cartesian XYZ in meters.
func (s *Spheroid) GeodeticToCartesian(lon, lat, height float64) r3.Vec {
	lonR := lon * math.Pi / 180
	latR := lat * math.Pi / 180

	sinLat := math.Sin(latR)
	cosLat := math.Cos(latR)
	e2 := 1 - (s.SemiMinor*s.SemiMinor)/(s.SemiMajor*s.SemiMajor)
	// Prime vertical radius of curvature
	n := s.SemiMajor / math.Sqrt(1-e2*sinLat*sinLat)

	return r3.Vec{
		X: (n + height) * cosLat * math.Cos(lonR),
		Y: (n + height) * cosLat * math.Sin(lonR),
		Z: (n*(1-e2) + height) * sinLat,
	}
}

// CartesianToGeodetic converts planet-centered XYZ back to geodetic
// lon/lat in degrees and height in meters. For a non-spherical datum the
// latitude is solved by fixed-point iteration.
func (s *Spheroid) CartesianToGeodetic(p r3.Vec) (lon, lat, height float64) {
	lon = math.Atan2(p.Y, p.X) * 180 / math.Pi
	rho := math.Hypot(p.X, p.Y)

	e2 := 1 - (s.SemiMinor*s.SemiMinor)/(s.SemiMajor*s.SemiMajor)
	if e2 == 0 {
		r := r3.Norm(p)
		lat = math.Asin(p.Z/r) * 180 / math.Pi
		return lon, lat, r - s.SemiMajor
	}

	latR := math.Atan2(p.Z, rho*(1-e2))
	for i := 0; i < 10; i++ {
		sinLat := math.Sin(latR)
		n := s.SemiMajor / math.Sqrt(1-e2*sinLat*sinLat)
		h := rho/math.Cos(latR) - n
		latR = math.Atan2(p.Z, rho*(1-e2*n/(n+h)))
	}

	sinLat := math.Sin(latR)
	n := s.SemiMajor / math.Sqrt(1-e2*sinLat*sinLat)
	height = rho/math.Cos(latR) - n
	return lon, latR * 180 / math.Pi, height
}
