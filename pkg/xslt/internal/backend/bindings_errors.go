//go:build cgo

package backend

/*
#include <stdint.h>
#include <libxml/xmlerror.h>
#include <libxml/globals.h>

extern void xsltgoCollect(void* ctx, xmlError* err);

static void xsltgo_trampoline(void* ctx, const xmlError* err) {
	xsltgoCollect(ctx, (xmlError*)err);
}

typedef struct {
	xmlStructuredErrorFunc fn;
	void* ctx;
} xsltgo_saved_handler;

static void xsltgo_install(uintptr_t h, xsltgo_saved_handler* saved) {
	saved->fn = xmlStructuredError;
	saved->ctx = xmlStructuredErrorContext;
	xmlResetLastError();
	xmlSetStructuredErrorFunc((void*)h, (xmlStructuredErrorFunc)xsltgo_trampoline);
}

static void xsltgo_restore(xsltgo_saved_handler* saved) {
	xmlSetStructuredErrorFunc(saved->ctx, saved->fn);
}

static xmlError* xsltgo_last_error(void) {
	return (xmlError*)xmlGetLastError();
}
*/
import "C"

import (
	"runtime"
	"strings"
)

// collector accumulates diagnostics for one parse call.
type collector struct {
	diags []Diag
}

// Collect runs fn with a structured error sink installed and returns every
// diagnostic emitted while it ran, in emission order, plus a copy of the last
// error recorded by the parser (nil if none).
//
// libxml2 keeps its error handler in thread-local storage, so the calling
// goroutine is locked to its OS thread for the duration and the previous
// handler is restored before returning, including when fn panics.
func Collect(fn func()) ([]Diag, *Diag) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	c := &collector{}
	h := put(c)
	defer del(h)

	var saved C.xsltgo_saved_handler
	C.xsltgo_install(C.uintptr_t(h), &saved)
	defer C.xsltgo_restore(&saved)

	fn()

	var last *Diag
	if e := C.xsltgo_last_error(); e != nil && e.code != 0 {
		d := diagFromC(e)
		last = &d
	}
	return c.diags, last
}

func diagFromC(e *C.xmlError) Diag {
	return Diag{
		Domain:  int(e.domain),
		Code:    int(e.code),
		Message: strings.TrimRight(goString(e.message), "\n"),
		Level:   int(e.level),
		File:    goString(e.file),
		Line:    int(e.line),
		Column:  int(e.int2),
		Str1:    goString(e.str1),
		Str2:    goString(e.str2),
		Str3:    goString(e.str3),
		Int1:    int(e.int1),
	}
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}
