//go:build !cgo

package backend

import "unsafe"

// Stub implementations for non-cgo builds. They allow the package to compile
// but report ErrNotBuilt (or nil results) when called.

// Doc is a stub type for non-cgo builds.
type Doc = unsafe.Pointer

// Sheet is a stub type for non-cgo builds.
type Sheet = unsafe.Pointer

// Params is a stub type for non-cgo builds.
type Params struct{}

func Init() error { return ErrNotBuilt }

func Version() string { return "" }

func RegisterEXSLT() {}

func NewDoc() (Doc, error) { return nil, ErrNotBuilt }

func FreeDoc(Doc) {}

func SetOwner(Doc, uint64) {}

func Owner(Doc) uint64 { return 0 }

func HasRoot(Doc) bool { return false }

func RootName(Doc) string { return "" }

func NodeCount(Doc) int { return 0 }

func TextContent(Doc) string { return "" }

func DumpDoc(Doc) (string, error) { return "", ErrNotBuilt }

func ReadFile(string, int) Doc { return nil }

func ReadMemory([]byte, string, int) Doc { return nil }

func Collect(fn func()) ([]Diag, *Diag) {
	fn()
	return nil, nil
}

func ParseStylesheet(Doc) Sheet { return nil }

func FreeSheet(Sheet) {}

func ApplyStylesheet(Sheet, Doc, *Params) Doc { return nil }

func SaveResult(Doc, Sheet) (string, bool) { return "", false }

func MarshalParams([]string) (*Params, error) { return nil, ErrNotBuilt }

func (p *Params) Release() {}

func (p *Params) Released() bool { return true }

func (p *Params) Slots() int { return 0 }

func (p *Params) Entries() []string { return nil }

func (p *Params) Terminated() bool { return false }
