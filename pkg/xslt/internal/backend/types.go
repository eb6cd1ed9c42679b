package backend

import (
	"errors"
	"sync/atomic"
)

// ErrNotBuilt reports that the native bindings were not linked into the
// current binary.
var ErrNotBuilt = errors.New("xslt/internal/backend: native bindings not built")

// Diag is a copy of one libxml2 structured error. It holds no native memory.
type Diag struct {
	Domain  int
	Code    int
	Message string
	Level   int
	File    string
	Line    int
	Column  int
	Str1    string
	Str2    string
	Str3    string
	Int1    int
}

var (
	liveDocs   atomic.Int64
	liveSheets atomic.Int64
	liveParams atomic.Int64
)

// LiveDocs returns the number of native documents allocated through this
// package and not yet freed. Documents owned by a compiled stylesheet are
// included until the stylesheet is freed.
func LiveDocs() int64 { return liveDocs.Load() }

// LiveSheets returns the number of compiled stylesheets not yet freed.
func LiveSheets() int64 { return liveSheets.Load() }

// LiveParams returns the number of parameter vectors not yet released.
func LiveParams() int64 { return liveParams.Load() }
