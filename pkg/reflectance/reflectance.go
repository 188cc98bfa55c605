package reflectance

import (
	"errors"
	"math"

	"github.com/planetgeo/go-sfs/pkg/core"
	"gonum.org/v1/gonum/spatial/r3"
)

// McEwen limb-darkening polynomial coefficients for the lunar model.
// Empirically calibrated; treat as fixed constants.
const (
	mcEwenA = -0.019
	mcEwenB = 0.000242
	mcEwenC = -0.00000146
)

// Illumination below this incidence cosine is considered too unreliable
// for albedo estimation and reflects as zero.
const muZeroTol = 0.3

// unitNormalTol bounds how far the squared normal length may deviate from 1
const unitNormalTol = 1e-4

// ErrNonUnitNormal reports a precondition violation: the surface normal
// handed to the lunar model was not unit length.
var ErrNonUnitNormal = errors.New("reflectance: expected a unit surface normal")

// Compute evaluates the configured reflectance model at a surface point.
// It returns the scalar reflectance and the phase angle in radians (zero
// for models that do not use it).
func Compute(normal, xyz r3.Vec, mp core.ModelParams, gp core.GlobalParams) (value, phaseAngle float64, err error) {
	switch gp.Model {
	case core.ModelLunarLambertian:
		return LunarLambertian(mp.SunPosition, mp.CameraPosition, xyz, normal, gp.PhaseCoeffC1, gp.PhaseCoeffC2)
	case core.ModelLambertian:
		return Lambertian(mp.SunPosition, xyz, normal), 0, nil
	case core.ModelNone:
		return 1, 0, nil
	}
	// Unknown kinds are rejected when GlobalParams is constructed; this
	// is unreachable through the public entry points.
	return 0, 0, errors.New("reflectance: unknown model kind")
}

// Lambertian is the cosine of the angle between the sun direction and
// the surface normal. Not clamped.
func Lambertian(sunPos, xyz, normal r3.Vec) float64 {
	sunDir := r3.Unit(r3.Sub(sunPos, xyz))
	return r3.Dot(sunDir, normal)
}

// LunarLambertian evaluates the Hapke-like lunar reflectance model with
// the McEwen limb-darkening term and an empirical phase-angle
// correction exp(-c1*alpha) + c2.
func LunarLambertian(sunPos, viewPos, xyz, normal r3.Vec, c1, c2 float64) (value, phaseAngle float64, err error) {
	lenSq := r3.Dot(normal, normal)
	if math.Abs(lenSq-1.0) > unitNormalTol {
		return 0, 0, ErrNonUnitNormal
	}

	// mu0: cosine of the angle between the sun direction and the normal
	sunDir := r3.Unit(r3.Sub(sunPos, xyz))
	mu0 := r3.Dot(sunDir, normal)

	// Near-grazing or back-lit: the albedo would be unreliable
	if mu0 < muZeroTol {
		return 0, 0, nil
	}

	// mu: cosine of the angle between the viewer direction and the normal
	viewDir := r3.Unit(r3.Sub(viewPos, xyz))
	mu := r3.Dot(viewDir, normal)

	// Phase angle between sun and viewer directions
	cosAlpha := r3.Dot(sunDir, viewDir)
	cosAlpha = math.Max(-1, math.Min(1, cosAlpha))
	phaseAngle = math.Acos(cosAlpha)
	degAlpha := phaseAngle * 180 / math.Pi

	// McEwen limb-darkening term
	l := 1.0 + mcEwenA*degAlpha + mcEwenB*degAlpha*degAlpha + mcEwenC*degAlpha*degAlpha*degAlpha

	if mu < 0 { // emission angle beyond 90 degrees
		mu = 0
	}
	if mu0+mu == 0 {
		return 0, phaseAngle, nil
	}

	value = 2*l*mu0/(mu0+mu) + (1-l)*mu0
	if value <= 0 {
		return 0, phaseAngle, nil
	}

	// Compensate for terrain that appears too bright when the sun is
	// behind the spacecraft as seen from the surface point.
	value *= math.Exp(-c1*phaseAngle) + c2

	return value, phaseAngle, nil
}
