//go:build cgo

package backend

/*
#include <stdarg.h>
#include <stdio.h>
#include <stdlib.h>
#include <libxml/tree.h>
#include <libxslt/xsltconfig.h>
#include <libxslt/xslt.h>
#include <libxslt/xsltInternals.h>
#include <libxslt/transform.h>
#include <libxslt/xsltutils.h>
#include <libxslt/imports.h>
#include <libexslt/exslt.h>

extern void xsltgoMessage(char* msg);

static void xsltgo_generic_error(void* ctx, const char* msg, ...) {
	char buf[1024];
	va_list args;
	va_start(args, msg);
	vsnprintf(buf, sizeof buf, msg, args);
	va_end(args);
	xsltgoMessage(buf);
}

static void xsltgo_install_generic(void) {
	xsltSetGenericErrorFunc(NULL, (xmlGenericErrorFunc)xsltgo_generic_error);
}

// xsltgo_strips_space reports whether applying s would strip whitespace
// text nodes from the source tree.
static int xsltgo_strips_space(xsltStylesheetPtr s) {
	while (s != NULL) {
		if (s->stripSpaces != NULL || s->stripAll != 0) {
			return 1;
		}
		s = xsltNextImport(s);
	}
	return 0;
}

static const char* xsltgo_engine_version(void) {
	return LIBXSLT_DOTTED_VERSION;
}

static void xsltgo_result_free(void* p) {
	xmlFree(p);
}
*/
import "C"

import (
	"sync"
	"unsafe"
)

// Sheet is a compiled libxslt stylesheet. It owns the document it was
// compiled from; FreeSheet releases both.
type Sheet = *C.xsltStylesheet

var exsltOnce sync.Once

// Version returns the dotted libxslt version the bindings were built against.
func Version() string {
	return C.GoString(C.xsltgo_engine_version())
}

func installMessageHandler() {
	C.xsltgo_install_generic()
}

// RegisterEXSLT registers the EXSLT extension function library. Only the
// first call has an effect.
func RegisterEXSLT() {
	exsltOnce.Do(func() {
		C.exsltRegisterAll()
	})
}

// ParseStylesheet compiles d. On success the returned sheet owns d. On
// failure it returns nil and d is still owned by the caller.
func ParseStylesheet(d Doc) Sheet {
	if d == nil {
		return nil
	}
	s := C.xsltParseStylesheetDoc(d)
	if s != nil {
		liveSheets.Add(1)
	}
	return s
}

// FreeSheet releases a compiled stylesheet and the document it owns.
func FreeSheet(s Sheet) {
	if s == nil {
		return
	}
	C.xsltFreeStylesheet(s)
	liveSheets.Add(-1)
	liveDocs.Add(-1)
}

// ApplyStylesheet runs s over src and returns the produced document, or nil
// when the transformation failed. src is left unchanged: when s strips
// whitespace the transformation runs over a private copy of src.
func ApplyStylesheet(s Sheet, src Doc, p *Params) Doc {
	if s == nil || src == nil {
		return nil
	}
	var vec **C.char
	if p != nil {
		vec = p.vec
	}
	in := src
	if C.xsltgo_strips_space(s) != 0 {
		in = C.xmlCopyDoc(src, 1)
		if in == nil {
			return nil
		}
		defer C.xmlFreeDoc(in)
	}
	out := C.xsltApplyStylesheet(s, in, vec)
	if out != nil {
		liveDocs.Add(1)
	}
	return out
}

// SaveResult serializes d using the output settings of s. The boolean is
// false when libxslt produced no output at all.
func SaveResult(d Doc, s Sheet) (string, bool) {
	if d == nil || s == nil {
		return "", false
	}
	var mem *C.xmlChar
	var size C.int
	rc := C.xsltSaveResultToString(&mem, &size, d, s)
	if rc != 0 || mem == nil {
		return "", false
	}
	defer C.xsltgo_result_free(unsafe.Pointer(mem))
	return C.GoStringN((*C.char)(unsafe.Pointer(mem)), size), true
}
