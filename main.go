package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/planetgeo/go-sfs/pkg/camera"
	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/geo"
	"github.com/planetgeo/go-sfs/pkg/problem"
	"github.com/planetgeo/go-sfs/pkg/raster"
	"github.com/planetgeo/go-sfs/pkg/solver"
	"github.com/planetgeo/go-sfs/pkg/surface"
)

type options struct {
	inputDEM         string
	outPrefix        string
	maxIterations    int
	smoothnessWeight float64
	model            string
	phaseCoeffC1     float64
	phaseCoeffC2     float64
	sunPositions     string
	cameraPositions  string
	radius           float64
	threads          int
	writePNG         bool
	solveAlbedo      bool
	images           []string
}

func main() {
	opt := &options{}
	flag.StringVar(&opt.inputDEM, "i", "", "The input DEM to refine, as an ESRI ASCII grid")
	flag.StringVar(&opt.outPrefix, "o", "", "Prefix for output filenames")
	flag.IntVar(&opt.maxIterations, "n", 100, "Set the maximum number of iterations")
	flag.Float64Var(&opt.smoothnessWeight, "smoothness-weight", 1.0, "A larger value will result in a smoother solution")
	flag.StringVar(&opt.model, "model", "lunar-lambert", "Reflectance model: none, lambert or lunar-lambert")
	flag.Float64Var(&opt.phaseCoeffC1, "phase-coeff-c1", core.DefaultPhaseCoeffC1, "Phase correction coefficient c1")
	flag.Float64Var(&opt.phaseCoeffC2, "phase-coeff-c2", core.DefaultPhaseCoeffC2, "Phase correction coefficient c2")
	flag.StringVar(&opt.sunPositions, "sun-positions", "", "File of sun positions, one 'image x y z' record per line")
	flag.StringVar(&opt.cameraPositions, "camera-positions", "", "File of spacecraft positions, one 'image x y z' record per line")
	flag.Float64Var(&opt.radius, "radius", geo.MoonRadius, "Datum radius in meters")
	flag.IntVar(&opt.threads, "threads", 0, "Parallel residual evaluations (0 = CPU count)")
	flag.BoolVar(&opt.writePNG, "png", false, "Also write grayscale PNG previews of each DEM iteration")
	flag.BoolVar(&opt.solveAlbedo, "solve-albedo", false, "Jointly optimize the affine albedo parameters instead of freezing them")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()
	opt.images = flag.Args()

	if *help {
		fmt.Println("Shape-from-shading DEM refinement")
		fmt.Println("Usage: sfs -i <input DEM> -n <max iterations> -o <output prefix> <images> [other options]")
		fmt.Println()
		flag.PrintDefaults()
		return
	}

	if err := validateOptions(opt); err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("Usage: sfs -i <input DEM> -n <max iterations> -o <output prefix> <images> [other options]")
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func validateOptions(opt *options) error {
	if opt.inputDEM == "" {
		return fmt.Errorf("missing input DEM")
	}
	if opt.outPrefix == "" {
		return fmt.Errorf("missing output prefix")
	}
	if opt.maxIterations < 0 {
		return fmt.Errorf("the number of iterations must be non-negative")
	}
	if len(opt.images) == 0 {
		return fmt.Errorf("missing input images")
	}
	if opt.sunPositions == "" {
		return fmt.Errorf("missing sun position file")
	}
	if opt.cameraPositions == "" {
		return fmt.Errorf("missing camera position file")
	}
	if _, err := core.ParseModelKind(opt.model); err != nil {
		return err
	}
	return nil
}

func run(opt *options) error {
	logger := core.NewDefaultLogger()

	dem, geoRef, err := raster.ReadASC(opt.inputDEM)
	if err != nil {
		return err
	}
	logger.Printf("DEM %s: %d cols, %d rows, nodata %g\n", opt.inputDEM, dem.Cols, dem.Rows, dem.NoData)

	modelKind, err := core.ParseModelKind(opt.model)
	if err != nil {
		return err
	}
	global := core.GlobalParams{
		Model:        modelKind,
		PhaseCoeffC1: opt.phaseCoeffC1,
		PhaseCoeffC2: opt.phaseCoeffC2,
	}

	sunPositions, err := raster.ReadPositions(opt.sunPositions)
	if err != nil {
		return err
	}
	cameraPositions, err := raster.ReadPositions(opt.cameraPositions)
	if err != nil {
		return err
	}

	datum := geo.NewSphereDatum(opt.radius)
	diag := core.NewDiagnostics(logger)
	sampler := surface.NewSampler(geoRef, datum, dem.NoData, diag)
	cam := camera.NewNadirCamera(geoRef, datum)

	views := make([]*surface.View, 0, len(opt.images))
	for _, path := range opt.images {
		img, err := raster.ReadIntensityImage(path)
		if err != nil {
			return err
		}

		key := filepath.Base(path)
		sun, ok := sunPositions[key]
		if !ok {
			return fmt.Errorf("no sun position for image %q in %s", key, opt.sunPositions)
		}
		camPos, ok := cameraPositions[key]
		if !ok {
			return fmt.Errorf("no camera position for image %q in %s", key, opt.cameraPositions)
		}
		mp := core.ModelParams{Name: key, SunPosition: sun, CameraPosition: camPos}
		logger.Printf("%s: sun position (%g, %g, %g), camera position (%g, %g, %g)\n",
			key, sun.X, sun.Y, sun.Z, camPos.X, camPos.Y, camPos.Z)

		views = append(views, surface.NewView(sampler, cam, img, mp, global))
	}

	spacingDeg := geo.GridSpacing(geoRef, dem.Cols, dem.Rows)
	gridSize := spacingDeg * math.Pi / 180 * opt.radius
	logger.Printf("Grid size is %g degrees (%.2f m)\n", spacingDeg, gridSize)

	prob, err := problem.Assemble(dem, views, problem.Config{
		SmoothnessWeight: opt.smoothnessWeight,
		GridSize:         gridSize,
		SolveAffine:      opt.solveAlbedo,
	})
	if err != nil {
		return err
	}
	logger.Printf("Albedo params A[0] and A[1] are %g %g\n", prob.A[0], prob.A[1])

	if dir := filepath.Dir(opt.outPrefix); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	rec := solver.NewIterationRecorder(prob, solver.Artifacts{
		OutPrefix: opt.outPrefix,
		GeoRef:    geoRef,
		WritePNG:  opt.writePNG,
	}, logger)

	cfg := solver.DefaultConfig()
	cfg.MaxIterations = opt.maxIterations
	cfg.Threads = opt.threads

	result, err := solver.New(prob, cfg, logger).Solve(rec)
	if err != nil {
		return err
	}

	logger.Printf("\nSolver summary:\n")
	logger.Printf("  status:      %s\n", result.Status)
	if result.Message != "" {
		logger.Printf("  detail:      %s\n", result.Message)
	}
	logger.Printf("  iterations:  %d\n", result.Iterations)
	logger.Printf("  final cost:  %g\n", result.FinalCost)
	logger.Printf("  albedo:      A[0]=%g A[1]=%g\n", result.A[0], result.A[1])
	if n := diag.NoDataCount(); n > 0 {
		logger.Printf("  no-data samples suppressed: %d\n", n)
	}
	return nil
}
