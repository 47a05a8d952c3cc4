// Package dispatch applies per-element closures across large arrays, either on a
// bounded goroutine pool built for each call or sequentially.
//
// Closures must only read shared state and write element i (or row i) of their
// output. A call blocks until every element is done; it is never cancelled, and a
// panic in a closure is not recovered.
package dispatch

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mohammed-shakir/healpix-geo/internal/core/observability"
	"github.com/mohammed-shakir/healpix-geo/internal/logger"
)

const defaultChunk = 1024

type Dispatcher struct {
	strategy Strategy
	chunk    int
	log      *slog.Logger
}

type Option func(*Dispatcher)

func WithStrategy(s Strategy) Option {
	return func(d *Dispatcher) { d.strategy = s }
}

// WithChunk sets how many consecutive elements a worker takes at a time.
func WithChunk(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.chunk = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		strategy: defaultStrategy,
		chunk:    defaultChunk,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

var std atomic.Pointer[Dispatcher]

func init() { std.Store(New()) }

// Default returns the process-wide dispatcher used by the bulk packages.
func Default() *Dispatcher { return std.Load() }

// Configure replaces the process-wide dispatcher. Calls already running keep the old one.
func Configure(d *Dispatcher) {
	if d != nil {
		std.Store(d)
	}
}

func (d *Dispatcher) Strategy() Strategy { return d.strategy }

// Workers resolves a requested worker count: zero or negative means one per CPU.
func Workers(requested int) int {
	if requested <= 0 {
		return runtime.NumCPU()
	}
	return requested
}

type span struct{ lo, hi int }

// Run calls fn(i) once for every i in [0, n), using at most workers goroutines.
func (d *Dispatcher) Run(ctx context.Context, op string, n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	start := time.Now()
	w := Workers(workers)
	chunks := (n + d.chunk - 1) / d.chunk

	if d.strategy == Sequential || w == 1 || chunks == 1 {
		w = 1
		for i := range n {
			fn(i)
		}
	} else {
		w = min(w, chunks)
		jobs := make(chan span, chunks)
		for lo := 0; lo < n; lo += d.chunk {
			jobs <- span{lo, min(lo+d.chunk, n)}
		}
		close(jobs)

		var wg sync.WaitGroup
		wg.Add(w)
		for range w {
			go func() {
				defer wg.Done()
				for s := range jobs {
					for i := s.lo; i < s.hi; i++ {
						fn(i)
					}
				}
			}()
		}
		wg.Wait()
	}

	dur := time.Since(start)
	observability.ObserveDispatch(op, d.strategy.String(), n, dur.Seconds())
	d.log.DebugContext(logger.WithOperation(ctx, op), "dispatch",
		"elements", n, "workers", w, "strategy", d.strategy.String(), "dur", dur)
}

// RunRows calls fn(i, row) for every row of out.
func RunRows[T any](ctx context.Context, d *Dispatcher, op string, out Rows[T], workers int, fn func(i int, row []T)) {
	d.Run(ctx, op, out.Len(), workers, func(i int) { fn(i, out.Row(i)) })
}
