// Package worker runs sequencing searches on a fixed set of background goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
)

// ErrPoolClosed is returned when a job is submitted after Stop.
var ErrPoolClosed = errors.New("worker: pool closed")

// Job is one search from a single start track. Done receives the outcome exactly once.
type Job struct {
	Ctx    context.Context
	Engine *sequencer.Engine
	Start  domain.Track
	Done   func(ports.StartOutcome)
}

// Pool manages background search workers.
type Pool struct {
	workers int
	jobs    chan Job
	logger  *log.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ ports.StartSearcher = (*Pool)(nil)

// NewPool creates a worker pool with the given worker count and queue size.
// A nil logger discards output.
func NewPool(workers int, queueSize int, logger *log.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pool{workers: workers, jobs: make(chan Job, queueSize), logger: logger}
}

// Workers returns the number of goroutines Start launches.
func (p *Pool) Workers() int { return p.workers }

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop closes the queue and waits for queued jobs to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues a job, blocking while the queue is full or until ctx is done.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker: submit %s: %w", job.Start.ID, ctx.Err())
	}
}

// SearchStarts searches from every start concurrently and returns the outcomes in the
// order of starts. The pool must have been started.
func (p *Pool) SearchStarts(ctx context.Context, e *sequencer.Engine, starts []domain.Track) []ports.StartOutcome {
	outcomes := make([]ports.StartOutcome, len(starts))
	var wg sync.WaitGroup
	for i, s := range starts {
		wg.Add(1)
		job := Job{
			Ctx:    ctx,
			Engine: e,
			Start:  s,
			Done: func(o ports.StartOutcome) {
				outcomes[i] = o
				wg.Done()
			},
		}
		if err := p.Submit(ctx, job); err != nil {
			outcomes[i] = ports.StartOutcome{Start: s, Err: err}
			wg.Done()
		}
	}
	wg.Wait()
	return outcomes
}

func (p *Pool) processJob(job Job) {
	ctx := job.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	began := time.Now()
	res, err := job.Engine.Search(ctx, job.Start)
	if err != nil {
		p.logger.Warn("search failed", "start", job.Start.ID, "err", err)
	} else {
		p.logger.Debug("search done", "start", job.Start.ID, "cost", res.Cost,
			"expanded", res.Expanded, "elapsed", time.Since(began))
	}
	if job.Done != nil {
		job.Done(ports.StartOutcome{Start: job.Start, Result: res, Err: err})
	}
}
