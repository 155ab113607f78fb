// Package worker provides the bounded worker pool used for batch voucher
// signing, keyed rate limiters and the batch input reader.
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

// Pool manages a pool of workers that execute jobs concurrently
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeQueue sync.Once
	closeOnce  sync.Once
}

// NewPool creates a worker pool bound to ctx. Cancelling ctx stops the
// workers as Shutdown does.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers. Results is closed once every worker has exited.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false when the pool has been shut down.
func (p *Pool) Submit(job Job) bool {
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Close stops accepting jobs; queued jobs still run
func (p *Pool) Close() {
	p.closeQueue.Do(func() { close(p.jobQueue) })
}

// Results streams job results in completion order
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Wait closes the queue and collects all remaining results. Submit must not
// be called concurrently with Wait.
func (p *Pool) Wait() []Result {
	p.Close()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}

// Shutdown stops the workers without draining the queue
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

type indexedJob struct {
	index int
	job   Job
}

func (j indexedJob) Execute(ctx context.Context) Result {
	return indexedResult{index: j.index, Result: j.job.Execute(ctx)}
}

type indexedResult struct {
	index int
	Result
}

func (r indexedResult) GetError() error {
	if r.Result == nil {
		return nil
	}
	return r.Result.GetError()
}

// Run executes jobs on a pool of the given size and returns the results in
// job order. A job that never ran because ctx was cancelled leaves a nil
// entry.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	out := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return out
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	pool := NewPool(ctx, workers)
	defer pool.cancelFunc()
	pool.Start()

	go func() {
		defer pool.Close()
		for i, job := range jobs {
			if !pool.Submit(indexedJob{index: i, job: job}) {
				return
			}
		}
	}()

	for r := range pool.Results() {
		ir := r.(indexedResult)
		out[ir.index] = ir.Result
	}
	return out
}
