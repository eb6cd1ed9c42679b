//go:build cgo

package backend

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"errors"
	"unsafe"
)

var (
	errOddParams  = errors.New("parameter list must hold name/value pairs")
	errAllocParam = errors.New("failed to allocate parameter vector")
)

// Params is a NULL-terminated vector of C strings laid out as libxslt
// expects: name0, value0, name1, value1, ..., NULL.
type Params struct {
	vec      **C.char
	slots    int
	released bool
}

// MarshalParams copies kv (alternating names and values) into freshly
// allocated C memory. The result must be released exactly once.
func MarshalParams(kv []string) (*Params, error) {
	if len(kv)%2 != 0 {
		return nil, errOddParams
	}
	slots := len(kv) + 1
	ptrSize := C.size_t(unsafe.Sizeof(uintptr(0)))

	cArray := C.malloc(C.size_t(slots) * ptrSize)
	if cArray == nil {
		return nil, errAllocParam
	}
	C.memset(cArray, 0, C.size_t(slots)*ptrSize)

	cSlice := unsafe.Slice((**C.char)(cArray), slots)
	for i, s := range kv {
		cSlice[i] = C.CString(s)
	}

	liveParams.Add(1)
	return &Params{vec: (**C.char)(cArray), slots: slots}, nil
}

// Release frees every string and then the vector. Calls after the first are
// no-ops.
func (p *Params) Release() {
	if p == nil || p.released {
		return
	}
	cSlice := unsafe.Slice(p.vec, p.slots)
	for i := range cSlice {
		if cSlice[i] != nil {
			C.free(unsafe.Pointer(cSlice[i]))
			cSlice[i] = nil
		}
	}
	C.free(unsafe.Pointer(p.vec))
	p.vec = nil
	p.released = true
	liveParams.Add(-1)
}

// Released reports whether Release has run.
func (p *Params) Released() bool { return p == nil || p.released }

// Slots returns the number of pointers in the vector, terminator included.
func (p *Params) Slots() int {
	if p == nil {
		return 0
	}
	return p.slots
}

// Entries reads the strings back out of the native vector.
func (p *Params) Entries() []string {
	if p == nil || p.released {
		return nil
	}
	cSlice := unsafe.Slice(p.vec, p.slots)
	out := make([]string, 0, p.slots-1)
	for _, s := range cSlice[:p.slots-1] {
		out = append(out, C.GoString(s))
	}
	return out
}

// Terminated reports whether the last slot of the vector is NULL.
func (p *Params) Terminated() bool {
	if p == nil || p.released {
		return false
	}
	return unsafe.Slice(p.vec, p.slots)[p.slots-1] == nil
}
