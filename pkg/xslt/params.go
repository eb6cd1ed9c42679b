package xslt

import (
	"fmt"
	"strings"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/internal/backend"
)

// Param is one stylesheet parameter. Value is an XPath expression evaluated
// by the engine, so string values must be quoted; see StringParam.
type Param struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// StringParam returns a parameter whose value is the literal string value.
func StringParam(name, value string) Param {
	return Param{Name: name, Value: XPathString(value)}
}

// XPathString quotes s as an XPath 1.0 string literal. Strings containing
// both quote characters are expressed with concat().
func XPathString(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}

// marshalParams copies params into a native NULL-terminated vector. The
// caller must Release it exactly once, after the transformation returns.
func marshalParams(params []Param) (*backend.Params, error) {
	kv := make([]string, 0, 2*len(params))
	for i, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("%w: parameter %d has no name", ErrInvalidArgument, i)
		}
		if strings.IndexByte(p.Name, 0) >= 0 || strings.IndexByte(p.Value, 0) >= 0 {
			return nil, fmt.Errorf("%w: parameter %q contains a NUL byte", ErrInvalidArgument, p.Name)
		}
		kv = append(kv, p.Name, p.Value)
	}
	vec, err := backend.MarshalParams(kv)
	if err != nil {
		return nil, remapError(err)
	}
	return vec, nil
}
