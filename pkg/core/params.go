package core

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ModelKind selects the reflectance model variant
type ModelKind int

const (
	// ModelNone returns constant reflectance 1, for degenerate and test setups
	ModelNone ModelKind = iota
	// ModelLambertian is the plain cosine model
	ModelLambertian
	// ModelLunarLambertian is the Hapke-like lunar model with the McEwen
	// limb-darkening polynomial and an empirical phase correction
	ModelLunarLambertian
)

// ParseModelKind maps a command-line name to a model kind
func ParseModelKind(name string) (ModelKind, error) {
	switch name {
	case "none":
		return ModelNone, nil
	case "lambert":
		return ModelLambertian, nil
	case "lunar-lambert":
		return ModelLunarLambertian, nil
	}
	return 0, fmt.Errorf("unknown reflectance model %q (want none, lambert or lunar-lambert)", name)
}

func (k ModelKind) String() string {
	switch k {
	case ModelNone:
		return "none"
	case ModelLambertian:
		return "lambert"
	case ModelLunarLambertian:
		return "lunar-lambert"
	}
	return fmt.Sprintf("ModelKind(%d)", int(k))
}

// Default phase correction coefficients, empirically tuned against
// reference lunar output. Treat as fixed constants.
const (
	DefaultPhaseCoeffC1 = 1.383488
	DefaultPhaseCoeffC2 = 0.501149
)

// GlobalParams holds run-wide reflectance constants, immutable after startup
type GlobalParams struct {
	Model        ModelKind
	PhaseCoeffC1 float64
	PhaseCoeffC2 float64
}

// DefaultGlobalParams returns the lunar-Lambertian configuration used by default
func DefaultGlobalParams() GlobalParams {
	return GlobalParams{
		Model:        ModelLunarLambertian,
		PhaseCoeffC1: DefaultPhaseCoeffC1,
		PhaseCoeffC2: DefaultPhaseCoeffC2,
	}
}

// ModelParams holds the sun and camera geometry for one input image,
// both in a planet-centered Cartesian frame in meters. Created once at
// startup, never mutated thereafter.
type ModelParams struct {
	Name           string // image identifier, used in diagnostics
	SunPosition    r3.Vec
	CameraPosition r3.Vec
}
