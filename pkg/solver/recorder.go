package solver

import (
	"fmt"

	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/geo"
	"github.com/planetgeo/go-sfs/pkg/problem"
	"github.com/planetgeo/go-sfs/pkg/raster"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Artifacts configures the per-iteration output rasters. They share the
// input DEM's georeference and double as crash-resilience checkpoints.
type Artifacts struct {
	OutPrefix string // empty disables raster output
	GeoRef    *geo.AffineGeoRef
	WritePNG  bool // additionally write grayscale previews
}

// IterationRecorder is invoked by the minimizer after each accepted
// step. It updates the live DEM, persists the numbered DEM and
// intensity artifacts, and logs image statistics as a convergence
// diagnostic. It always signals the solver to continue.
type IterationRecorder struct {
	prob   *problem.Problem
	art    Artifacts
	logger core.Logger

	apply func(x []float64)
	iter  int
}

// NewIterationRecorder creates the per-iteration diagnostics hook
func NewIterationRecorder(p *problem.Problem, art Artifacts, logger core.Logger) *IterationRecorder {
	if logger == nil {
		logger = core.NewDefaultLogger()
	}
	return &IterationRecorder{prob: p, art: art, logger: logger, iter: -1}
}

// bind connects the recorder to the owning solver's parameter mapping
func (r *IterationRecorder) bind(apply func(x []float64)) {
	r.apply = apply
}

// Init implements optimize.Recorder
func (r *IterationRecorder) Init() error {
	r.iter = -1
	return nil
}

// Iterations returns the number of recorded iterations so far
func (r *IterationRecorder) Iterations() int {
	return r.iter + 1
}

// Record implements optimize.Recorder. The initial evaluation is
// recorded as iteration 0, then one record per accepted major step.
func (r *IterationRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op&(optimize.InitIteration|optimize.MajorIteration) == 0 {
		return nil
	}

	r.iter++
	r.apply(loc.X)
	r.logger.Printf("Finished iteration: %d\n", r.iter)

	dem := r.prob.DEM
	if r.art.OutPrefix != "" {
		demFile := fmt.Sprintf("%s-final-DEM-%d.asc", r.art.OutPrefix, r.iter)
		r.logger.Printf("Writing: %s\n", demFile)
		if err := raster.WriteASC(demFile, dem, r.art.GeoRef, dem.NoData); err != nil {
			return err
		}
	}

	// Re-render with the updated heights, using the first image's geometry
	refl, intensity := r.prob.Views[0].Render(dem)

	// Scale reflectance into the simulated intensity
	a := r.prob.A
	floats.Scale(a[0], refl.Heights)
	floats.AddConst(a[1], refl.Heights)

	if r.art.OutPrefix != "" {
		measured := fmt.Sprintf("%s-measured-intensity-%d.asc", r.art.OutPrefix, r.iter)
		r.logger.Printf("Writing: %s\n", measured)
		if err := raster.WriteASC(measured, intensity, r.art.GeoRef, 0); err != nil {
			return err
		}

		computed := fmt.Sprintf("%s-computed-intensity-%d.asc", r.art.OutPrefix, r.iter)
		r.logger.Printf("Writing: %s\n", computed)
		if err := raster.WriteASC(computed, refl, r.art.GeoRef, 0); err != nil {
			return err
		}

		if r.art.WritePNG {
			if err := raster.WriteGridPNG(fmt.Sprintf("%s-final-DEM-%d.png", r.art.OutPrefix, r.iter), dem); err != nil {
				return err
			}
		}
	}

	imgMean, imgStdev := problem.ImageStats(intensity)
	refMean, refStdev := problem.ImageStats(refl)
	r.logger.Printf("img mean and std: %g %g\n", imgMean, imgStdev)
	r.logger.Printf("ref mean and std: %g %g\n", refMean, refStdev)

	return nil
}
