package async

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/logging"
)

var (
	// ErrClosed is returned by Submit after Close has been called.
	ErrClosed = errors.New("async: runner closed")
	// ErrPanic wraps a panic recovered from work or a continuation.
	ErrPanic = errors.New("async: task panicked")
)

// Config tunes a Runner. Zero values pick defaults.
type Config struct {
	// Workers bounds how many work functions run at once. Defaults to
	// GOMAXPROCS.
	Workers int

	// Backlog is the number of finished tasks that may wait for the
	// completion loop before workers block. Defaults to Workers.
	Backlog int

	// Logger receives task lifecycle records. Defaults to logging.Nop().
	Logger logging.Logger
}

// Runner schedules work on a bounded pool and runs continuations serially on
// its completion loop.
type Runner struct {
	sem         *semaphore.Weighted
	completions chan func()
	loopDone    chan struct{}
	log         logging.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
	pending  atomic.Int64
}

// NewRunner starts a Runner. Close must be called to stop its completion
// loop.
func NewRunner(cfg Config) *Runner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	backlog := cfg.Backlog
	if backlog <= 0 {
		backlog = workers
	}
	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	r := &Runner{
		sem:         semaphore.NewWeighted(int64(workers)),
		completions: make(chan func(), backlog),
		loopDone:    make(chan struct{}),
		log:         log.With("component", "async"),
	}
	go r.loop()
	return r
}

func (r *Runner) loop() {
	defer close(r.loopDone)
	for run := range r.completions {
		run()
	}
}

// Pending returns the number of submitted tasks whose continuation has not
// run yet.
func (r *Runner) Pending() int { return int(r.pending.Load()) }

// Close stops accepting work, waits for every submitted task to deliver its
// completion, then stops the completion loop. It must not be called from a
// continuation.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.closed = true
	r.mu.Unlock()

	r.inflight.Wait()
	close(r.completions)
	<-r.loopDone
	return nil
}

// Submit runs work on the pool and then passes its result to then on the
// completion loop. The returned Future resolves with whatever then returns.
// then runs exactly once per accepted task, also when work panics.
func Submit[T, U any](r *Runner, op string, work func() (T, error), then func(T, error) (U, error)) (*Future[U], error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	r.inflight.Add(1)
	r.pending.Add(1)
	r.mu.Unlock()

	ctx := context.Background()
	f := newFuture[U]()
	log := r.log.With("task", uuid.NewString(), "op", op)
	log.Debug(ctx, "task submitted")

	go func() {
		defer r.inflight.Done()

		start := time.Now()
		// Acquire only fails when ctx is done; Background never is.
		_ = r.sem.Acquire(ctx, 1)
		v, err := runWork(work)
		r.sem.Release(1)
		log.Debug(ctx, "task finished", "elapsed", time.Since(start), "failed", err != nil)

		r.completions <- func() {
			defer r.pending.Add(-1)
			u, err := runThen(then, v, err)
			if errors.Is(err, ErrPanic) {
				log.Error(ctx, "task panicked", "error", err)
			}
			f.resolve(u, err)
		}
	}()
	return f, nil
}

func runWork[T any](work func() (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			v, err = zero, fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return work()
}

func runThen[T, U any](then func(T, error) (U, error), v T, werr error) (u U, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero U
			u, err = zero, fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return then(v, werr)
}
