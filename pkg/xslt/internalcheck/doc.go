// Package internalcheck holds source-level policy tests for the xslt
// packages.
//
// The checks load the library packages with golang.org/x/tools/go/packages
// and walk their syntax. They guard two rules: only pkg/xslt/internal/backend
// may use cgo or unsafe, and library code reports through the logging
// package instead of printing.
//
// # Internal Use Only
//
// This package exports nothing and should not be imported.
package internalcheck
