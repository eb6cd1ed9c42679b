//go:build !cgo

package xslt

import (
	"errors"
	"testing"
)

func TestOpenReturnsNotBuilt(t *testing.T) {
	lib, err := Open(Config{})
	if !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("unexpected error from Open: %v", err)
	}
	if lib != nil {
		t.Fatalf("expected nil library, got %+v", lib)
	}
}

func TestOperationsReturnNotBuilt(t *testing.T) {
	if _, err := NewDocument(); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("NewDocument: %v", err)
	}
	if _, err := ReadXMLFile("in.xml", ParseOptions{}); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("ReadXMLFile: %v", err)
	}
	if _, err := CompileStylesheet(nil); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("CompileStylesheet: %v", err)
	}
	if _, err := ApplyStylesheet(nil, nil, nil, true, nil); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("ApplyStylesheet: %v", err)
	}
	if got := EngineVersion(); got != "" {
		t.Fatalf("EngineVersion = %q", got)
	}
}
