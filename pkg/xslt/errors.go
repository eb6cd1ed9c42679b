package xslt

import (
	"errors"
	"fmt"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/async"
	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

var (
	// ErrNotBuilt reports that the binary was built without cgo.
	ErrNotBuilt = errors.New("xslt: native bindings not built")

	// ErrLibraryClosed is returned by Library methods after Close.
	ErrLibraryClosed = errors.New("xslt: library closed")

	// ErrClosed reports use of a Document, Stylesheet or Tree that was
	// already closed or consumed.
	ErrClosed = errors.New("xslt: object closed")

	// ErrDocumentBusy reports an ownership change on a document that an
	// in-flight task is still using.
	ErrDocumentBusy = errors.New("xslt: document in use by a running task")

	// ErrResultRequired is returned when document output is requested
	// without a result document.
	ErrResultRequired = errors.New("xslt: result document required when not producing a string")

	// ErrInvalidArgument reports a nil stylesheet/document or a malformed
	// parameter.
	ErrInvalidArgument = errors.New("xslt: invalid argument")

	// ErrCompile reports that libxslt rejected a stylesheet document.
	// libxslt exposes no structured detail for this failure.
	ErrCompile = errors.New("xslt: could not parse XML document as XSLT stylesheet")

	// ErrApply reports that a transformation produced no result document.
	ErrApply = errors.New("xslt: failed to apply stylesheet")

	// ErrParse reports that the parser produced no document. Structured
	// failures are returned as *ParseError, which matches ErrParse.
	ErrParse = errors.New("xslt: could not parse XML")

	// ErrUnknownOption reports a parser option name that is not recognized.
	ErrUnknownOption = errors.New("xslt: unknown parser option")
)

// StructuralError reports a successfully parsed document without a root
// element.
type StructuralError struct {
	Source string
}

func (e *StructuralError) Error() string {
	if e.Source == "" {
		return "xslt: parsed document has no root element"
	}
	return fmt.Sprintf("xslt: parsed document has no root element: %s", e.Source)
}

// remapError converts backend and runner errors to public API errors.
func remapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, backend.ErrNotBuilt):
		return ErrNotBuilt
	case errors.Is(err, async.ErrClosed):
		return ErrLibraryClosed
	}
	return err
}
