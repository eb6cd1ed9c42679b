package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt"
)

// Shared decoder; DecodeAll is safe for concurrent use.
var zstdDecoder, _ = zstd.NewReader(nil)

// IsCompressed reports whether path names a zstd-compressed input.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// ReadInput returns the contents of path, decompressing .zst files.
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !IsCompressed(path) {
		return data, nil
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd %s: %w", path, err)
	}
	return out, nil
}

// LoadDocument parses path. Plain files are read by libxml2 directly so
// relative references resolve against them; compressed files are inflated
// first and parsed with the uncompressed name as base URI.
func LoadDocument(path string, opts xslt.ParseOptions) (*xslt.Document, error) {
	if !IsCompressed(path) {
		return xslt.ReadXMLFile(path, opts)
	}
	data, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	return xslt.ParseXML(data, strings.TrimSuffix(path, ".zst"), opts)
}
