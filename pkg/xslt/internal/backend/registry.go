package backend

import (
	"sync"
	"unsafe"
)

// handle is an opaque reference to a registered Go object that can be passed
// to C code as a void* context.
type handle uintptr

var (
	mu   sync.Mutex
	next handle = 1
	reg         = map[handle]any{}
)

// put registers a Go value and returns a handle that can be passed to C code.
// The handle must be freed with del() when no longer needed.
func put(v any) handle {
	mu.Lock()
	defer mu.Unlock()
	h := next
	next++
	reg[h] = v
	return h
}

// get retrieves a registered Go value from the void* context C hands back.
func get(ptr unsafe.Pointer) (any, bool) {
	if ptr == nil {
		return nil, false
	}
	h := handle(uintptr(ptr))
	mu.Lock()
	v, ok := reg[h]
	mu.Unlock()
	return v, ok
}

// del removes a registered Go value from the registry.
func del(h handle) {
	mu.Lock()
	delete(reg, h)
	mu.Unlock()
}

// registered reports how many values are currently registered.
func registered() int {
	mu.Lock()
	defer mu.Unlock()
	return len(reg)
}
