package core

import "gonum.org/v1/gonum/spatial/r3"

// Logger interface for solver and diagnostics logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// GeoReference maps fractional grid coordinates to geodetic longitude
// and latitude, both in degrees. Read-only for the duration of a run.
type GeoReference interface {
	PixelToLonLat(col, row float64) (lon, lat float64)
}

// Datum converts geodetic coordinates plus a height above the reference
// surface to planet-centered Cartesian XYZ in meters.
type Datum interface {
	GeodeticToCartesian(lon, lat, height float64) r3.Vec
}

// Camera projects a planet-centered Cartesian point to fractional image
// pixel coordinates. A projection failure (point behind the camera, no
// valid ray) is reported as an error and is recoverable per sample.
type Camera interface {
	Project(p r3.Vec) (col, row float64, err error)
}

// IntensitySampler samples image intensity at a fractional pixel
// coordinate. The boolean result is false when the coordinate is too
// close to the image edge for interpolation.
type IntensitySampler interface {
	Sample(col, row float64) (float64, bool)
	Cols() int
	Rows() int
}
