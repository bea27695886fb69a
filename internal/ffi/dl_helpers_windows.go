//go:build windows

package ffi

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// RTLD flags are meaningless for LoadLibrary but keep the call sites portable.
const (
	RTLD_NOW    = 0
	RTLD_GLOBAL = 0
)

func dlopenLibrary(path string, _ int) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return 0, fmt.Errorf("LoadLibrary %s: %w", path, err)
	}
	return uintptr(handle), nil
}

func dlsymLibrary(handle uintptr, name string) (uintptr, error) {
	addr, err := windows.GetProcAddress(windows.Handle(handle), name)
	if err != nil {
		return 0, fmt.Errorf("GetProcAddress %s: %w", name, err)
	}
	return addr, nil
}

func dlcloseLibrary(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	if err := windows.FreeLibrary(windows.Handle(handle)); err != nil {
		return fmt.Errorf("FreeLibrary: %w", err)
	}
	return nil
}
