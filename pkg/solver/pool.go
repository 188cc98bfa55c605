package solver

import (
	"runtime"
	"sync"
)

// blockTask spans a contiguous run of residual blocks to evaluate
// against one parameter state.
type blockTask struct {
	start, end int
	heights    []float64
	affine     [2]float64
	withGrad   bool
}

// blockResult carries the partial cost and gradient for one task
type blockResult struct {
	cost float64
	grad []float64 // nil unless the task requested a gradient
}

// workerPool manages parallel residual-block evaluation. Workers pull
// block ranges off a shared queue and push partial sums back; the
// caller merges them. Only one evaluation may be in flight at a time.
type workerPool struct {
	taskQueue   chan blockTask
	resultQueue chan blockResult
	numWorkers  int
	wg          sync.WaitGroup
}

// newWorkerPool creates a pool with the specified number of workers and
// starts them immediately
func newWorkerPool(eval func(blockTask) blockResult, numWorkers int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &workerPool{
		taskQueue:   make(chan blockTask, numWorkers),
		resultQueue: make(chan blockResult, numWorkers),
		numWorkers:  numWorkers,
	}
	for i := 0; i < numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(eval)
	}
	return wp
}

// stop gracefully shuts down all workers
func (wp *workerPool) stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
}

// run is the main worker loop
func (wp *workerPool) run(eval func(blockTask) blockResult) {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		wp.resultQueue <- eval(task)
	}
}

// evaluate splits the block range [0, numBlocks) into one chunk per
// worker and gathers the partial results. The heights slice is shared
// read-only across workers.
func (wp *workerPool) evaluate(numBlocks int, heights []float64, a [2]float64, withGrad bool) []blockResult {
	chunk := (numBlocks + wp.numWorkers - 1) / wp.numWorkers
	tasks := 0
	for start := 0; start < numBlocks; start += chunk {
		end := start + chunk
		if end > numBlocks {
			end = numBlocks
		}
		wp.taskQueue <- blockTask{start: start, end: end, heights: heights, affine: a, withGrad: withGrad}
		tasks++
	}

	results := make([]blockResult, 0, tasks)
	for i := 0; i < tasks; i++ {
		results = append(results, <-wp.resultQueue)
	}
	return results
}
