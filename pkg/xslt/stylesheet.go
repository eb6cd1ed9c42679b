package xslt

import (
	"context"
	"runtime"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/async"
	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

// Stylesheet is a compiled XSLT program. It owns the tree it was compiled
// from. A Stylesheet may be applied by many tasks at once.
type Stylesheet struct {
	digest uint64

	mu      sync.Mutex
	sheet   backend.Sheet
	pins    int
	closing bool
}

func newStylesheet(sheet backend.Sheet, digest uint64) *Stylesheet {
	ss := &Stylesheet{sheet: sheet, digest: digest}
	runtime.SetFinalizer(ss, func(ss *Stylesheet) { _ = ss.Close() })
	return ss
}

// Digest returns the XXH3 hash of the stylesheet document as it was
// serialized just before compilation.
func (ss *Stylesheet) Digest() uint64 {
	return ss.digest
}

// Close frees the compiled stylesheet and its tree. If running tasks use the
// stylesheet the release happens when the last one finishes.
func (ss *Stylesheet) Close() error {
	if ss == nil {
		return nil
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.sheet == nil || ss.closing {
		return nil
	}
	runtime.SetFinalizer(ss, nil)
	if ss.pins > 0 {
		ss.closing = true
		return nil
	}
	ss.release()
	return nil
}

func (ss *Stylesheet) release() {
	backend.FreeSheet(ss.sheet)
	ss.sheet = nil
	ss.closing = false
}

func (ss *Stylesheet) pin() (backend.Sheet, error) {
	if ss == nil {
		return nil, ErrInvalidArgument
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.sheet == nil || ss.closing {
		return nil, ErrClosed
	}
	ss.pins++
	return ss.sheet, nil
}

func (ss *Stylesheet) unpin() {
	ss.mu.Lock()
	ss.pins--
	if ss.pins == 0 && ss.closing {
		ss.release()
	}
	ss.mu.Unlock()
	runtime.KeepAlive(ss)
}

// treeDigest hashes nd before libxslt compiles it; compilation strips and
// annotates the tree in place.
func treeDigest(nd backend.Doc) uint64 {
	s, err := backend.DumpDoc(nd)
	if err != nil {
		return 0
	}
	return xxh3.HashString(s)
}

// compileNative compiles nd. On failure nd is destroyed.
func compileNative(nd backend.Doc) (backend.Sheet, error) {
	sheet := backend.ParseStylesheet(nd)
	if sheet == nil {
		backend.FreeDoc(nd)
		return nil, ErrCompile
	}
	return sheet, nil
}

// CompileStylesheet compiles the tree held by doc. Ownership of the tree
// moves into the stylesheet whether or not compilation succeeds: doc is left
// holding an empty tree and, on failure, the detached tree is destroyed.
func CompileStylesheet(doc *Document) (*Stylesheet, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	t, err := doc.Detach()
	if err != nil {
		return nil, err
	}
	return CompileTree(t)
}

// CompileTree compiles a detached tree, consuming it.
func CompileTree(t *Tree) (*Stylesheet, error) {
	nd, err := t.take()
	if err != nil {
		return nil, err
	}
	digest := treeDigest(nd)
	sheet, err := compileNative(nd)
	if err != nil {
		packageLogger().Debug(context.Background(), "stylesheet compilation failed", "digest", digest)
		return nil, err
	}
	return newStylesheet(sheet, digest), nil
}

// CompileStylesheetAsync detaches doc's tree on the calling goroutine and
// compiles it on the worker pool. done, when non-nil, is invoked exactly
// once: on the completion loop, or on the calling goroutine if the task
// could not be scheduled.
func (l *Library) CompileStylesheetAsync(doc *Document, done func(*Stylesheet, error)) *async.Future[*Stylesheet] {
	fail := func(err error) *async.Future[*Stylesheet] {
		if done != nil {
			done(nil, err)
		}
		return async.Resolved[*Stylesheet](nil, err)
	}
	if l == nil || l.closed.Load() {
		return fail(ErrLibraryClosed)
	}
	t, err := doc.Detach()
	if err != nil {
		return fail(err)
	}
	nd, err := t.take()
	if err != nil {
		return fail(err)
	}
	digest := treeDigest(nd)

	f, err := async.Submit(l.runner, "compile",
		func() (backend.Sheet, error) {
			return compileNative(nd)
		},
		func(sheet backend.Sheet, err error) (*Stylesheet, error) {
			var ss *Stylesheet
			if err == nil {
				ss = newStylesheet(sheet, digest)
			} else {
				l.log.Debug(context.Background(), "stylesheet compilation failed", "digest", digest, "error", err)
			}
			if done != nil {
				done(ss, err)
			}
			return ss, err
		})
	if err != nil {
		backend.FreeDoc(nd)
		return fail(remapError(err))
	}
	return f
}
