package solver

import (
	"fmt"
	"math"
	"runtime"

	"github.com/planetgeo/go-sfs/pkg/core"
	"github.com/planetgeo/go-sfs/pkg/problem"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Config contains configuration for the iterative solve
type Config struct {
	MaxIterations     int     // Iteration cap; the effective stopping rule in practice
	Threads           int     // Parallel residual evaluations (0 = use CPU count)
	GradientTolerance float64 // Solver-internal gradient threshold
	FunctionTolerance float64 // Solver-internal function-change threshold
}

// DefaultConfig returns the baseline configuration: tolerances set so
// tight that stopping is effectively delegated to the iteration cap.
func DefaultConfig() Config {
	return Config{
		MaxIterations:     100,
		Threads:           0,
		GradientTolerance: 1e-16,
		FunctionTolerance: 1e-16,
	}
}

// Status is the terminal state of a solve
type Status int

const (
	// StatusConverged means the solver met a convergence threshold
	StatusConverged Status = iota
	// StatusMaxIterations means the iteration cap stopped the solve
	StatusMaxIterations
	// StatusFailed means the solver reported failure
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "max iterations reached"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result summarizes a finished solve
type Result struct {
	Status     Status
	Iterations int
	FinalCost  float64
	A          [2]float64 // affine parameters after the solve
	Message    string     // failure detail, empty on success
}

// Solver drives the external nonlinear least-squares minimizer over the
// assembled residual graph, updating the DEM in place.
type Solver struct {
	prob   *problem.Problem
	cfg    Config
	logger core.Logger

	// Variable mapping. Pinned cells read from the base snapshot; free
	// cells read from the packed parameter vector.
	base       []float64 // height snapshot taken at solve start
	freeToCell []int
	cellToFree []int

	pool *workerPool // live only during Solve
}

// New creates a solver over an assembled problem
func New(p *problem.Problem, cfg Config, logger core.Logger) *Solver {
	if logger == nil {
		logger = core.NewDefaultLogger()
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.NumCPU()
	}

	cells := len(p.Pinned)
	s := &Solver{
		prob:       p,
		cfg:        cfg,
		logger:     logger,
		cellToFree: make([]int, cells),
	}
	for cell := 0; cell < cells; cell++ {
		if p.Pinned[cell] {
			s.cellToFree[cell] = -1
			continue
		}
		s.cellToFree[cell] = len(s.freeToCell)
		s.freeToCell = append(s.freeToCell, cell)
	}
	return s
}

// numVars returns the packed parameter vector length
func (s *Solver) numVars() int {
	n := len(s.freeToCell)
	if s.prob.SolveAffine {
		n += 2
	}
	return n
}

// pack builds the initial parameter vector from the DEM and affine parameters
func (s *Solver) pack() []float64 {
	x := make([]float64, 0, s.numVars())
	for _, cell := range s.freeToCell {
		x = append(x, s.prob.DEM.Heights[cell])
	}
	if s.prob.SolveAffine {
		x = append(x, s.prob.A[0], s.prob.A[1])
	}
	return x
}

// heights materializes the full height field for a parameter vector.
// A fresh slice is returned so concurrent evaluations never share
// scratch state.
func (s *Solver) heights(x []float64) []float64 {
	h := make([]float64, len(s.base))
	copy(h, s.base)
	for i, cell := range s.freeToCell {
		h[cell] = x[i]
	}
	return h
}

// affine extracts the affine parameters for a parameter vector
func (s *Solver) affine(x []float64) [2]float64 {
	if !s.prob.SolveAffine {
		return s.prob.A
	}
	n := len(s.freeToCell)
	return [2]float64{x[n], x[n+1]}
}

// apply writes an optimized parameter vector back into the live DEM
// (and affine parameters when they are being solved for).
func (s *Solver) apply(x []float64) {
	for i, cell := range s.freeToCell {
		s.prob.DEM.Heights[cell] = x[i]
	}
	if s.prob.SolveAffine {
		n := len(s.freeToCell)
		s.prob.A[0], s.prob.A[1] = x[n], x[n+1]
	}
}

// objective is the half sum of squared residuals over all blocks.
// Unresolved blocks contribute the squared penalty sentinel, steering
// line search away without crashing it.
func (s *Solver) objective(x []float64) float64 {
	results := s.pool.evaluate(len(s.prob.Blocks), s.heights(x), s.affine(x), false)

	total := 0.0
	for _, r := range results {
		total += r.cost
	}
	return 0.5 * total
}

// relativeStep sizes the central-difference perturbation
const relativeStep = 1e-6

// gradient accumulates grad = J^T r from the workers' partial sums
func (s *Solver) gradient(grad, x []float64) {
	for i := range grad {
		grad[i] = 0
	}

	results := s.pool.evaluate(len(s.prob.Blocks), s.heights(x), s.affine(x), true)
	for _, r := range results {
		floats.Add(grad, r.grad)
	}
}

// evaluateRange computes one task's partial cost and, when requested,
// its partial gradient via per-block central differences on each block's
// own variables. Blocks touch at most nine heights (plus the affine
// pair), so the sparse structure keeps this cheap.
func (s *Solver) evaluateRange(task blockTask) blockResult {
	h := task.heights
	a := task.affine

	out := blockResult{}
	if task.withGrad {
		out.grad = make([]float64, s.numVars())
	}

	nFree := len(s.freeToCell)
	for _, b := range s.prob.Blocks[task.start:task.end] {
		n := b.Gather(h)
		r0, _ := b.Evaluate(a, n)
		for _, r := range r0 {
			out.cost += r * r
		}
		if !task.withGrad {
			continue
		}

		for k, cell := range b.Cells {
			fi := s.cellToFree[cell]
			if fi < 0 {
				continue
			}
			orig := n[k]
			step := relativeStep * math.Max(1, math.Abs(orig))
			n[k] = orig + step
			rp, _ := b.Evaluate(a, n)
			n[k] = orig - step
			rm, _ := b.Evaluate(a, n)
			n[k] = orig

			inv := 1 / (2 * step)
			for i := range r0 {
				out.grad[fi] += r0[i] * (rp[i] - rm[i]) * inv
			}
		}

		if s.prob.SolveAffine && b.UsesAffine() {
			for j := 0; j < 2; j++ {
				orig := a[j]
				step := relativeStep * math.Max(1, math.Abs(orig))
				a[j] = orig + step
				rp, _ := b.Evaluate(a, n)
				a[j] = orig - step
				rm, _ := b.Evaluate(a, n)
				a[j] = orig

				inv := 1 / (2 * step)
				for i := range r0 {
					out.grad[nFree+j] += r0[i] * (rp[i] - rm[i]) * inv
				}
			}
		}
	}
	return out
}

// Solve runs the minimizer to a terminal state. The DEM is mutated in
// place; per-iteration artifacts are handled by the recorder. Solver
// failure is reported in the result status, not as an error: the run
// still completes and the final state is still applied.
func (s *Solver) Solve(rec *IterationRecorder) (Result, error) {
	s.base = make([]float64, len(s.prob.DEM.Heights))
	copy(s.base, s.prob.DEM.Heights)

	s.logger.Printf("Solving for %d of %d grid heights (%d residual blocks, %d threads)\n",
		len(s.freeToCell), len(s.base), len(s.prob.Blocks), s.cfg.Threads)

	s.pool = newWorkerPool(s.evaluateRange, s.cfg.Threads)
	defer s.pool.stop()

	p := optimize.Problem{
		Func: s.objective,
		Grad: s.gradient,
	}

	// Parallelism lives in the worker pool; the minimizer itself runs
	// sequentially.
	settings := &optimize.Settings{
		MajorIterations:   s.cfg.MaxIterations,
		GradientThreshold: s.cfg.GradientTolerance,
		Converger: &optimize.FunctionConverge{
			Absolute:   s.cfg.FunctionTolerance,
			Relative:   s.cfg.FunctionTolerance,
			Iterations: 20,
		},
	}
	if rec != nil {
		rec.bind(s.apply)
		settings.Recorder = rec
	}

	optResult, err := optimize.Minimize(p, s.pack(), settings, &optimize.LBFGS{})

	result := Result{Status: StatusFailed, FinalCost: math.NaN(), A: s.prob.A}
	if optResult != nil {
		s.apply(optResult.X)
		result.Iterations = optResult.Stats.MajorIterations
		result.FinalCost = optResult.F
		result.A = s.prob.A
		result.Status = statusOf(optResult.Status)
	}
	if err != nil {
		// A line-search breakdown on a flat objective is a terminal
		// state, not a caller error; surface it in the summary.
		result.Status = StatusFailed
		result.Message = err.Error()
	}
	return result, nil
}

func statusOf(st optimize.Status) Status {
	switch st {
	case optimize.Success, optimize.FunctionThreshold, optimize.FunctionConvergence,
		optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
		return StatusConverged
	case optimize.IterationLimit, optimize.RuntimeLimit, optimize.FunctionEvaluationLimit:
		return StatusMaxIterations
	}
	return StatusFailed
}
