package camera

import (
	"errors"

	"github.com/planetgeo/go-sfs/pkg/geo"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoProjection reports that a world point has no valid image
// projection. Recoverable per sample.
var ErrNoProjection = errors.New("camera: point has no valid projection")

// NadirCamera projects planet-centered points straight down onto an
// orthorectified image that shares the DEM's georeference: the world
// point is converted back to geodetic coordinates and then to pixel
// coordinates. This matches map-projected imagery, where the camera
// model is the inverse of the georeference.
type NadirCamera struct {
	geoRef *geo.AffineGeoRef
	datum  *geo.Spheroid
}

// NewNadirCamera creates a nadir camera over the given georeference and datum
func NewNadirCamera(geoRef *geo.AffineGeoRef, datum *geo.Spheroid) *NadirCamera {
	return &NadirCamera{geoRef: geoRef, datum: datum}
}

// Project implements core.Camera
func (c *NadirCamera) Project(p r3.Vec) (col, row float64, err error) {
	if r3.Norm(p) == 0 {
		// The planet center has no defined geodetic coordinates
		return 0, 0, ErrNoProjection
	}
	lon, lat, _ := c.datum.CartesianToGeodetic(p)
	col, row, err = c.geoRef.LonLatToPixel(lon, lat)
	if err != nil {
		return 0, 0, ErrNoProjection
	}
	return col, row, nil
}
