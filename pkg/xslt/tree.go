package xslt

import (
	"runtime"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

// Tree is a native XML tree detached from any Document. It is a move-only
// token: Attach and stylesheet compilation consume it, after which every
// method reports ErrClosed.
type Tree struct {
	mu sync.Mutex
	nd backend.Doc
}

func newTree(nd backend.Doc) *Tree {
	t := &Tree{nd: nd}
	runtime.SetFinalizer(t, func(t *Tree) { _ = t.Close() })
	return t
}

// take moves the native tree out of t.
func (t *Tree) take() (backend.Doc, error) {
	if t == nil {
		return nil, ErrInvalidArgument
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nd == nil {
		return nil, ErrClosed
	}
	nd := t.nd
	t.nd = nil
	runtime.SetFinalizer(t, nil)
	return nd, nil
}

func (t *Tree) read(fn func(backend.Doc) error) error {
	if t == nil {
		return ErrInvalidArgument
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nd == nil {
		return ErrClosed
	}
	return fn(t.nd)
}

// NodeCount returns the number of nodes below the document node.
func (t *Tree) NodeCount() (int, error) {
	var n int
	err := t.read(func(nd backend.Doc) error {
		n = backend.NodeCount(nd)
		return nil
	})
	return n, err
}

// Text returns the concatenated text content of the root element.
func (t *Tree) Text() (string, error) {
	var s string
	err := t.read(func(nd backend.Doc) error {
		s = backend.TextContent(nd)
		return nil
	})
	return s, err
}

// Serialize returns the tree as XML text.
func (t *Tree) Serialize() (string, error) {
	var s string
	err := t.read(func(nd backend.Doc) (err error) {
		s, err = backend.DumpDoc(nd)
		return remapError(err)
	})
	return s, err
}

// Digest returns the XXH3 hash of the serialized tree.
func (t *Tree) Digest() (uint64, error) {
	s, err := t.Serialize()
	if err != nil {
		return 0, err
	}
	return xxh3.HashString(s), nil
}

// Close destroys the tree unless it was already consumed.
func (t *Tree) Close() error {
	nd, err := t.take()
	if err != nil {
		return nil
	}
	backend.FreeDoc(nd)
	return nil
}

// Detach moves the document's tree into a Tree and leaves the document
// holding a fresh empty tree. The detached tree's back-reference is cleared,
// as is the placeholder's.
func (d *Document) Detach() (*Tree, error) {
	if d == nil {
		return nil, ErrInvalidArgument
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.closing {
		return nil, ErrClosed
	}
	if d.pins > 0 {
		return nil, ErrDocumentBusy
	}

	placeholder, err := backend.NewDoc()
	if err != nil {
		return nil, remapError(err)
	}
	old, ok := trees.Swap(d.ref, placeholder)
	if !ok {
		backend.FreeDoc(placeholder)
		return nil, ErrClosed
	}
	backend.SetOwner(old, 0)
	backend.SetOwner(placeholder, 0)
	return newTree(old), nil
}

// Attach makes t the document's tree, destroying the tree it held. On
// success t is consumed. On failure t keeps its tree.
func (d *Document) Attach(t *Tree) error {
	if d == nil || t == nil {
		return ErrInvalidArgument
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.nd == nil {
		return ErrClosed
	}
	if err := d.attach(t.nd); err != nil {
		return err
	}
	t.nd = nil
	runtime.SetFinalizer(t, nil)
	return nil
}

// attach swaps nd in as the document's tree and frees the previous one. On
// error nd is still owned by the caller.
func (d *Document) attach(nd backend.Doc) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.closing {
		return ErrClosed
	}
	if d.pins > 0 {
		return ErrDocumentBusy
	}
	old, ok := trees.Swap(d.ref, nd)
	if !ok {
		return ErrClosed
	}
	backend.SetOwner(old, 0)
	backend.FreeDoc(old)
	backend.SetOwner(nd, d.ref.Pack())
	d.errors = nil
	return nil
}
