package xslt

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/async"
	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/logging"
)

var (
	initOnce sync.Once
	initErr  error
	extOnce  sync.Once
)

// ensureInit prepares the native parser once per process.
func ensureInit() error {
	initOnce.Do(func() {
		backend.SetMessageSink(func(line string) {
			packageLogger().Debug(context.Background(), "libxslt message", "text", line)
		})
		initErr = remapError(backend.Init())
	})
	return initErr
}

// RegisterExtensionFunctions registers the EXSLT extension function library
// with the transform engine. It is process-wide and idempotent.
func RegisterExtensionFunctions() {
	if ensureInit() != nil {
		return
	}
	extOnce.Do(func() {
		backend.RegisterEXSLT()
		packageLogger().Debug(context.Background(), "registered EXSLT extension functions")
	})
}

// Library owns the worker pool used by the asynchronous operations.
type Library struct {
	cfg    Config
	runner *async.Runner
	log    logging.Logger
	closed atomic.Bool
}

// Open initializes the native engine and starts the worker pool.
func Open(cfg Config) (*Library, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	if cfg.RegisterExtensions {
		RegisterExtensionFunctions()
	}

	log := cfg.logger()
	l := &Library{
		cfg: cfg,
		runner: async.NewRunner(async.Config{
			Workers: cfg.Workers,
			Backlog: cfg.Backlog,
			Logger:  log,
		}),
		log: log,
	}
	log.Info(context.Background(), "library opened", "engine", EngineVersion(), "workers", cfg.Workers)
	return l, nil
}

// Close waits for every submitted task to deliver its completion and stops
// the worker pool. It must not be called from a completion callback. A second
// call returns ErrLibraryClosed.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	if !l.closed.CompareAndSwap(false, true) {
		return ErrLibraryClosed
	}
	if err := l.runner.Close(); err != nil {
		return remapError(err)
	}
	l.log.Info(context.Background(), "library closed")
	return nil
}

// Pending returns the number of submitted tasks whose completion has not run.
func (l *Library) Pending() int {
	if l == nil {
		return 0
	}
	return l.runner.Pending()
}
