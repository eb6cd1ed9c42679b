//go:build cgo

package backend

/*
#cgo pkg-config: libxml-2.0 libxslt libexslt
#include <stdint.h>
#include <stdlib.h>
#include <libxml/parser.h>
#include <libxml/tree.h>

static void xsltgo_set_owner(xmlDocPtr doc, uintptr_t owner) {
	doc->_private = (void*)owner;
}

static uintptr_t xsltgo_owner(xmlDocPtr doc) {
	return (uintptr_t)doc->_private;
}

static void xsltgo_xml_free(void* p) {
	xmlFree(p);
}

static xmlDocPtr xsltgo_new_doc(void) {
	return xmlNewDoc((const xmlChar*)"1.0");
}
*/
import "C"

import (
	"errors"
	"runtime"
	"sync"
	"unsafe"
)

// Doc is a native libxml2 document.
type Doc = *C.xmlDoc

var (
	errNilDoc  = errors.New("nil document")
	errNewDoc  = errors.New("xmlNewDoc failed")
	errDumpDoc = errors.New("xmlDocDumpMemory produced no output")

	initOnce sync.Once
)

// Init prepares the parser globals. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		C.xmlInitParser()
		installMessageHandler()
	})
	return nil
}

// NewDoc allocates an empty document with no root element and no owner.
func NewDoc() (Doc, error) {
	d := C.xsltgo_new_doc()
	if d == nil {
		return nil, errNewDoc
	}
	liveDocs.Add(1)
	return d, nil
}

// FreeDoc releases a document and every node it owns.
func FreeDoc(d Doc) {
	if d == nil {
		return
	}
	C.xmlFreeDoc(d)
	liveDocs.Add(-1)
}

// SetOwner stores the back-reference to the wrapper owning d. Zero clears it.
func SetOwner(d Doc, owner uint64) {
	if d == nil {
		return
	}
	C.xsltgo_set_owner(d, C.uintptr_t(owner))
}

// Owner returns the back-reference stored by SetOwner.
func Owner(d Doc) uint64 {
	if d == nil {
		return 0
	}
	return uint64(C.xsltgo_owner(d))
}

// HasRoot reports whether d has a root element.
func HasRoot(d Doc) bool {
	if d == nil {
		return false
	}
	return C.xmlDocGetRootElement(d) != nil
}

// RootName returns the local name of the root element, or "".
func RootName(d Doc) string {
	if d == nil {
		return ""
	}
	root := C.xmlDocGetRootElement(d)
	if root == nil || root.name == nil {
		return ""
	}
	return C.GoString((*C.char)(unsafe.Pointer(root.name)))
}

// NodeCount returns the number of nodes below the document node.
func NodeCount(d Doc) int {
	if d == nil {
		return 0
	}
	return countNodes(d.children)
}

func countNodes(n *C.xmlNode) int {
	count := 0
	for ; n != nil; n = n.next {
		count++
		count += countNodes(n.children)
	}
	return count
}

// TextContent returns the concatenated text of the root element.
func TextContent(d Doc) string {
	if d == nil {
		return ""
	}
	root := C.xmlDocGetRootElement(d)
	if root == nil {
		return ""
	}
	content := C.xmlNodeGetContent(root)
	if content == nil {
		return ""
	}
	defer C.xsltgo_xml_free(unsafe.Pointer(content))
	return C.GoString((*C.char)(unsafe.Pointer(content)))
}

// DumpDoc serializes d with the default libxml2 document serializer.
func DumpDoc(d Doc) (string, error) {
	if d == nil {
		return "", errNilDoc
	}
	var mem *C.xmlChar
	var size C.int
	C.xmlDocDumpMemory(d, &mem, &size)
	if mem == nil {
		return "", errDumpDoc
	}
	defer C.xsltgo_xml_free(unsafe.Pointer(mem))
	return C.GoStringN((*C.char)(unsafe.Pointer(mem)), size), nil
}

// ReadFile parses the file at path. It returns nil when the parser produced
// no document; the reason is reported through the active error collector.
func ReadFile(path string, flags int) Doc {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	d := C.xmlReadFile(cPath, nil, C.int(flags))
	if d != nil {
		liveDocs.Add(1)
	}
	return d
}

// ReadMemory parses data as a document whose base URL is url.
func ReadMemory(data []byte, url string, flags int) Doc {
	if len(data) == 0 {
		return nil
	}
	var cURL *C.char
	if url != "" {
		cURL = C.CString(url)
		defer C.free(unsafe.Pointer(cURL))
	}

	buf := C.CBytes(data)
	defer C.free(buf)

	d := C.xmlReadMemory((*C.char)(buf), C.int(len(data)), cURL, nil, C.int(flags))
	if d != nil {
		liveDocs.Add(1)
	}
	runtime.KeepAlive(data)
	return d
}
