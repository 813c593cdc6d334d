package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines
type Pool struct {
	workers int
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes every job and returns results in job order.
// Jobs still queued when ctx is canceled run with the canceled context.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				results[i] = jobs[i].Execute(ctx)
			}
		}()
	}
	wg.Wait()

	return results
}

// Errors returns the non-nil errors among results
func Errors(results []Result) []error {
	var errs []error
	for _, r := range results {
		if r == nil {
			continue
		}
		if err := r.GetError(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
