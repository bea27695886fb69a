//go:build (!linux || !cgo) && !windows

package ffi

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// RTLD flags for dlopen
const (
	RTLD_NOW    = purego.RTLD_NOW
	RTLD_GLOBAL = purego.RTLD_GLOBAL
)

func dlopenLibrary(path string, flags int) (uintptr, error) {
	handle, err := purego.Dlopen(path, flags)
	if err != nil {
		return 0, fmt.Errorf("dlopen %s: %w", path, err)
	}
	return handle, nil
}

func dlsymLibrary(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func dlcloseLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}
