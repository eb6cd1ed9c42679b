package xslt

import (
	"fmt"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

// ErrorLevel is the severity libxml2 assigned to a diagnostic.
type ErrorLevel int

const (
	LevelNone ErrorLevel = iota
	LevelWarning
	LevelError
	LevelFatal
)

func (l ErrorLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// MarshalText encodes the level by name.
func (l ErrorLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (l *ErrorLevel) UnmarshalText(b []byte) error {
	for lv := LevelNone; lv <= LevelFatal; lv++ {
		if lv.String() == string(b) {
			*l = lv
			return nil
		}
	}
	return fmt.Errorf("xslt: unknown error level %q", b)
}

// ErrorRecord is a snapshot of one parser diagnostic.
type ErrorRecord struct {
	Domain  int        `json:"domain"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Level   ErrorLevel `json:"level"`
	File    string     `json:"file,omitempty"`
	Line    int        `json:"line"`
	Column  int        `json:"column"`
	Str1    string     `json:"str1,omitempty"`
	Str2    string     `json:"str2,omitempty"`
	Str3    string     `json:"str3,omitempty"`
	Int1    int        `json:"int1,omitempty"`
}

func (r ErrorRecord) String() string {
	file := r.File
	if file == "" {
		file = "-"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", file, r.Line, r.Column, r.Level, r.Message)
}

// ParseError reports a parse that produced no document. It matches
// ErrParse with errors.Is.
type ParseError struct {
	ErrorRecord
}

func (e *ParseError) Error() string {
	return "xslt: " + e.ErrorRecord.String()
}

func (e *ParseError) Unwrap() error { return ErrParse }

func recordFromDiag(d backend.Diag) ErrorRecord {
	return ErrorRecord{
		Domain:  d.Domain,
		Code:    d.Code,
		Message: d.Message,
		Level:   ErrorLevel(d.Level),
		File:    d.File,
		Line:    d.Line,
		Column:  d.Column,
		Str1:    d.Str1,
		Str2:    d.Str2,
		Str3:    d.Str3,
		Int1:    d.Int1,
	}
}

func recordsFromDiags(ds []backend.Diag) []ErrorRecord {
	if len(ds) == 0 {
		return nil
	}
	out := make([]ErrorRecord, len(ds))
	for i, d := range ds {
		out[i] = recordFromDiag(d)
	}
	return out
}
