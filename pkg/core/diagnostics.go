package core

import (
	"fmt"
	"sync/atomic"
)

// Sentinel is the residual value reported for samples that could not be
// resolved. Large enough that line search treats them as strongly
// penalized rather than crashing on NaN or Inf.
const Sentinel = 1e20

// DefaultLogger implements Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// Diagnostics is the per-run error sink shared by the geometry sampler
// and residual evaluation. The no-data condition is logged once and
// counted so that a DEM with millions of bad cells does not flood the
// log. Counts are best-effort under solver-internal parallelism.
type Diagnostics struct {
	logger      Logger
	noDataCount atomic.Int64
}

// NewDiagnostics creates a diagnostics sink writing through the logger
func NewDiagnostics(logger Logger) *Diagnostics {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Diagnostics{logger: logger}
}

// ReportNoData records one no-data occurrence. Only the first occurrence
// is logged; all are counted.
func (d *Diagnostics) ReportNoData() {
	if d.noDataCount.Add(1) == 1 {
		d.logger.Printf("Error: cannot refine a DEM with no-data heights; affected cells are held at the penalty residual\n")
	}
}

// NoDataCount returns the number of no-data occurrences so far
func (d *Diagnostics) NoDataCount() int64 {
	return d.noDataCount.Load()
}
