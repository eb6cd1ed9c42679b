//go:build cgo

package backend

/*
#include <libxml/xmlerror.h>
*/
import "C"

import "unsafe"

// xsltgoCollect is the structured error callback libxml2 invokes while a
// collector is installed. ctx carries the registry handle of the collector.
//
//export xsltgoCollect
func xsltgoCollect(ctx unsafe.Pointer, e *C.xmlError) {
	if e == nil {
		return
	}
	v, ok := get(ctx)
	if !ok {
		return
	}
	c, ok := v.(*collector)
	if !ok {
		return
	}
	c.diags = append(c.diags, diagFromC(e))
}

// xsltgoMessage receives one formatted fragment from the libxslt generic
// error handler.
//
//export xsltgoMessage
func xsltgoMessage(msg *C.char) {
	if msg == nil {
		return
	}
	emitMessage(C.GoString(msg))
}
