package ffi

import (
	"runtime"
	"strings"
	"sync"
	"unsafe"
)

// CString allocates a null-terminated C string from a Go string.
// The caller is responsible for keeping the returned byte slice alive
// for as long as the C code needs it.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// GoString copies a NUL-terminated C string into Go memory.
// Returns "" for a null pointer.
func GoString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return strings.Clone(unsafe.String((*byte)(p), n))
}

// GoStringFromPtr is GoString for addresses returned as uintptr.
func GoStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	return GoString(unsafe.Pointer(ptr))
}

// goStrings copies a C array of n strings.
func goStrings(arr **byte, n int) []string {
	if arr == nil || n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i, p := range unsafe.Slice(arr, n) {
		out[i] = GoString(unsafe.Pointer(p))
	}
	return out
}

// cStringArray is a NULL-terminated char*[] in pinned Go memory, the shape
// mpv_command and mpv_command_async expect.
type cStringArray struct {
	pinner runtime.Pinner
	ptrs   []*byte
}

func newCStringArray(args []string) *cStringArray {
	a := &cStringArray{ptrs: make([]*byte, len(args)+1)}
	for i, s := range args {
		b := CString(s)
		a.pinner.Pin(&b[0])
		a.ptrs[i] = &b[0]
	}
	a.pinner.Pin(&a.ptrs[0])
	return a
}

// Ptr returns the array address for FFI calls.
func (a *cStringArray) Ptr() unsafe.Pointer {
	return unsafe.Pointer(&a.ptrs[0])
}

// Free unpins the array. It must not be used afterwards.
func (a *cStringArray) Free() {
	a.pinner.Unpin()
	a.ptrs = nil
}

// pinnedCString returns a pinned C string, or nil for "" when
// nullIfEmpty is set.
func pinnedCString(p *runtime.Pinner, s string, nullIfEmpty bool) unsafe.Pointer {
	if s == "" && nullIfEmpty {
		return nil
	}
	b := CString(s)
	p.Pin(&b[0])
	return unsafe.Pointer(&b[0])
}

// OwnedString is a string allocated by libmpv. It must be released with Free,
// which calls mpv_free; Free is idempotent.
type OwnedString struct {
	mu  sync.Mutex
	ptr uintptr
}

func newOwnedString(ptr uintptr) *OwnedString {
	if ptr == 0 {
		return nil
	}
	return &OwnedString{ptr: ptr}
}

// String returns a Go copy of the value, or "" after Free.
func (s *OwnedString) String() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return GoStringFromPtr(s.ptr)
}

// Free releases the native memory through mpv_free.
func (s *OwnedString) Free() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ptr == 0 {
		return
	}
	Free(unsafe.Pointer(s.ptr))
	s.ptr = 0
}
