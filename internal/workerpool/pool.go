// SPDX-License-Identifier: MPL-2.0

// Package workerpool runs independent scan jobs on a bounded ants pool and
// returns their results in submission order.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
)

// ErrPoolClosed is returned when submitting to a released pool.
var ErrPoolClosed = errors.New("worker pool is closed")

type (
	// Options configures a Pool.
	Options struct {
		// Size is the maximum number of concurrently running jobs.
		Size int
		// PanicHandler receives values recovered from panicking jobs.
		PanicHandler func(any)
	}

	// Option configures Options.
	Option func(*Options)

	// Pool is a bounded goroutine pool. It is safe for concurrent use.
	Pool struct {
		pool *ants.Pool
	}

	// PanicError is reported for a job that panicked.
	PanicError struct {
		Index int
		Value any
	}
)

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("job %d panicked: %v", e.Index, e.Value)
}

// WithSize sets the number of workers. Values below one use the CPU count.
func WithSize(size int) Option {
	return func(opts *Options) {
		opts.Size = size
	}
}

// WithPanicHandler sets a handler for values recovered from panicking jobs.
func WithPanicHandler(handler func(any)) Option {
	return func(opts *Options) {
		opts.PanicHandler = handler
	}
}

// New creates a blocking pool: Submit waits for a free worker instead of
// failing when all workers are busy.
func New(opts ...Option) (*Pool, error) {
	o := Options{Size: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Size < 1 {
		o.Size = runtime.NumCPU()
	}

	antsOpts := []ants.Option{ants.WithNonblocking(false)}
	if o.PanicHandler != nil {
		antsOpts = append(antsOpts, ants.WithPanicHandler(o.PanicHandler))
	}
	p, err := ants.NewPool(o.Size, antsOpts...)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Pool{pool: p}, nil
}

// Size returns the worker capacity.
func (p *Pool) Size() int { return p.pool.Cap() }

// Submit schedules task, blocking while every worker is busy.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.pool.Submit(task); err != nil {
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return err
	}
	return nil
}

// Release stops the pool. Running jobs finish; new submissions fail.
func (p *Pool) Release() { p.pool.Release() }

// Map runs fn for every item on the pool and returns the results in the order
// of items. When jobs fail, the error of the lowest failing index is returned
// together with the results of the jobs that succeeded.
func Map[T, R any](ctx context.Context, p *Pool, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		err := p.Submit(ctx, func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = &PanicError{Index: i, Value: r}
				}
			}()
			results[i], errs[i] = fn(ctx, item)
		})
		if err != nil {
			wg.Done()
			errs[i] = err
			break
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
