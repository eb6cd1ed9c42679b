package xslt

import (
	"runtime"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/arena"
	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

// trees holds the native tree of every open Document. A document's tree
// carries the document's packed Ref as its back-reference.
var trees = arena.New[backend.Doc]()

// Document owns one native XML tree.
//
// Reads are safe to call concurrently. While a running task pins the
// document, ownership changes report ErrDocumentBusy and Close is deferred
// until the task finishes. A transformation holds the tree exclusively while
// the engine walks it, so reads and other transformations over the same
// source wait for it.
type Document struct {
	ref arena.Ref

	// tree is held for writing while the engine runs over the native tree.
	tree sync.RWMutex

	mu      sync.Mutex
	pins    int
	closing bool
	closed  bool
	errors  []ErrorRecord
}

func newDocument(nd backend.Doc, errs []ErrorRecord) *Document {
	d := &Document{errors: errs}
	d.ref = trees.Insert(nd)
	backend.SetOwner(nd, d.ref.Pack())
	runtime.SetFinalizer(d, func(d *Document) { _ = d.Close() })
	return d
}

// NewDocument returns a document holding a fresh empty tree. It is the usual
// result target for document-mode transformations.
func NewDocument() (*Document, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	nd, err := backend.NewDoc()
	if err != nil {
		return nil, remapError(err)
	}
	return newDocument(nd, nil), nil
}

// Errors returns the non-fatal diagnostics recorded while the document was
// parsed.
func (d *Document) Errors() []ErrorRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ErrorRecord(nil), d.errors...)
}

// read runs fn with the current tree under the document lock.
func (d *Document) read(fn func(backend.Doc) error) error {
	if d == nil {
		return ErrInvalidArgument
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.closing {
		return ErrClosed
	}
	nd, ok := trees.Get(d.ref)
	if !ok {
		return ErrClosed
	}
	d.tree.RLock()
	err := fn(nd)
	d.tree.RUnlock()
	runtime.KeepAlive(d)
	return err
}

// HasRoot reports whether the document has a root element.
func (d *Document) HasRoot() bool {
	var has bool
	_ = d.read(func(nd backend.Doc) error {
		has = backend.HasRoot(nd)
		return nil
	})
	return has
}

// RootName returns the local name of the root element, or "".
func (d *Document) RootName() string {
	var name string
	_ = d.read(func(nd backend.Doc) error {
		name = backend.RootName(nd)
		return nil
	})
	return name
}

// NodeCount returns the number of nodes below the document node.
func (d *Document) NodeCount() (int, error) {
	var n int
	err := d.read(func(nd backend.Doc) error {
		n = backend.NodeCount(nd)
		return nil
	})
	return n, err
}

// Text returns the concatenated text content of the root element.
func (d *Document) Text() (string, error) {
	var s string
	err := d.read(func(nd backend.Doc) error {
		s = backend.TextContent(nd)
		return nil
	})
	return s, err
}

// Serialize returns the document as XML text, including the XML
// declaration.
func (d *Document) Serialize() (string, error) {
	var s string
	err := d.read(func(nd backend.Doc) (err error) {
		s, err = backend.DumpDoc(nd)
		return remapError(err)
	})
	return s, err
}

// Digest returns the XXH3 hash of the serialized document.
func (d *Document) Digest() (uint64, error) {
	s, err := d.Serialize()
	if err != nil {
		return 0, err
	}
	return xxh3.HashString(s), nil
}

// Close releases the native tree. If a running task has the document pinned
// the release happens when the task finishes. Close is idempotent.
func (d *Document) Close() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.closing {
		return nil
	}
	runtime.SetFinalizer(d, nil)
	if d.pins > 0 {
		d.closing = true
		return nil
	}
	d.release()
	return nil
}

// release frees the tree. Callers hold d.mu.
func (d *Document) release() {
	if nd, ok := trees.Remove(d.ref); ok {
		backend.SetOwner(nd, 0)
		backend.FreeDoc(nd)
	}
	d.closed = true
	d.closing = false
}

// pin keeps the document and its current tree alive until unpin. Ownership
// changes fail with ErrDocumentBusy while pinned.
func (d *Document) pin() (backend.Doc, error) {
	if d == nil {
		return nil, ErrInvalidArgument
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.closing {
		return nil, ErrClosed
	}
	nd, ok := trees.Get(d.ref)
	if !ok {
		return nil, ErrClosed
	}
	d.pins++
	return nd, nil
}

func (d *Document) unpin() {
	d.mu.Lock()
	d.pins--
	if d.pins == 0 && d.closing {
		d.release()
	}
	d.mu.Unlock()
	runtime.KeepAlive(d)
}

// ownerRef decodes the back-reference nd carries.
func ownerRef(nd backend.Doc) (arena.Ref, bool) {
	v := backend.Owner(nd)
	if v == 0 {
		return arena.Ref{}, false
	}
	return arena.Unpack(v), true
}
