// Package backend hosts the thin cgo layer that links the Go API to libxml2,
// libxslt and libexslt. The real implementation lives behind the cgo build tag
// so that the rest of the repository can compile without a C toolchain.
//
// Every native pointer handed out by this package is owned by exactly one
// caller. The package counts live documents, stylesheets and parameter
// vectors so tests can detect leaks on error paths.
package backend
