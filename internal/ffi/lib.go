// Package ffi provides FFI bindings to libmpv's C client API.
// It supports both purego (default) and CGO dlopen backends via build tags.
package ffi

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrLibraryNotLoaded is returned when libmpv hasn't been loaded.
	ErrLibraryNotLoaded = errors.New("libmpv not loaded")

	// ErrLibraryNotFound is returned when libmpv cannot be found.
	ErrLibraryNotFound = errors.New("libmpv not found")

	// ErrSymbolNotFound is returned when a required entry point is missing.
	ErrSymbolNotFound = errors.New("libmpv symbol not found")

	// ErrVersionMismatch is returned when the client API major version is not supported.
	ErrVersionMismatch = errors.New("libmpv client API version mismatch")
)

var (
	libHandle uintptr
	libPath   string
	libLoaded atomic.Bool // lock-free reads from every entry point
	libMu     sync.Mutex  // load/unload only
)

// LoadLibrary loads libmpv.
// It searches in the following locations:
// 1. Path specified by LIBMPV_PATH environment variable
// 2. ./lib/{os}_{arch}/ (executable, working directory and module relative)
// 3. System library names
func LoadLibrary() error {
	libMu.Lock()
	defer libMu.Unlock()

	if libLoaded.Load() {
		return nil
	}

	var errs []error
	for _, path := range librarySearchPaths() {
		handle, err := dlopenLibrary(path, RTLD_NOW|RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := registerFunctions(handle); err != nil {
			_ = dlcloseLibrary(handle)
			return fmt.Errorf("bind %s: %w", path, err)
		}
		libHandle = handle
		libPath = path
		libLoaded.Store(true)

		major, minor := SplitAPIVersion(ClientAPIVersion())
		Logger().Info("libmpv loaded",
			zap.String("path", path),
			zap.Uint32("api_major", major),
			zap.Uint32("api_minor", minor))
		return nil
	}

	return fmt.Errorf("%w: %w", ErrLibraryNotFound, errors.Join(errs...))
}

// MustLoadLibrary loads the library and panics on failure.
func MustLoadLibrary() {
	if err := LoadLibrary(); err != nil {
		panic(fmt.Sprintf("libgompv: %v", err))
	}
}

// IsLoaded returns true if libmpv is loaded.
func IsLoaded() bool {
	return libLoaded.Load()
}

// LibraryPath returns the path libmpv was loaded from, or "" when not loaded.
func LibraryPath() string {
	libMu.Lock()
	defer libMu.Unlock()
	return libPath
}

// Close unloads libmpv. Handles created before Close must already be destroyed.
func Close() error {
	libMu.Lock()
	defer libMu.Unlock()

	if !libLoaded.Load() {
		return nil
	}

	libLoaded.Store(false)
	if err := dlcloseLibrary(libHandle); err != nil {
		return err
	}

	resetFunctions()
	libHandle = 0
	libPath = ""
	return nil
}

// SupportedAPIMajors lists the client API major versions whose struct layouts
// are mirrored by this package.
var SupportedAPIMajors = []uint32{1, 2}

// MakeAPIVersion mirrors the MPV_MAKE_VERSION macro.
func MakeAPIVersion(major, minor uint32) uint32 {
	return major<<16 | minor
}

// SplitAPIVersion splits a packed client API version.
func SplitAPIVersion(v uint32) (major, minor uint32) {
	return v >> 16, v & 0xffff
}

// CheckVersion verifies the loaded libmpv speaks a supported client API major.
func CheckVersion() error {
	if !libLoaded.Load() {
		return ErrLibraryNotLoaded
	}

	major, minor := SplitAPIVersion(ClientAPIVersion())
	for _, m := range SupportedAPIMajors {
		if m == major {
			return nil
		}
	}
	return fmt.Errorf("%w: got %d.%d, supported majors %v", ErrVersionMismatch, major, minor, SupportedAPIMajors)
}

func librarySearchPaths() []string {
	var paths []string

	if path := os.Getenv("LIBMPV_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			paths = append(paths, path)
		}
	}

	paths = append(paths, findLocalLibraries()...)
	return append(paths, systemLibraryNamesFor(runtime.GOOS)...)
}

func findLocalLibraries() []string {
	platformDir := fmt.Sprintf("%s_%s", runtime.GOOS, runtime.GOARCH)

	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(execPath), "lib", platformDir))
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs,
			filepath.Join(wd, "lib", platformDir),
			filepath.Join(wd, "..", "lib", platformDir),
			filepath.Join(wd, "..", "..", "lib", platformDir),
		)
	}
	// thisFile is .../internal/ffi/lib.go
	if _, thisFile, _, ok := runtime.Caller(0); ok {
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
		dirs = append(dirs, filepath.Join(moduleRoot, "lib", platformDir))
	}

	var found []string
	for _, dir := range dirs {
		for _, name := range localLibraryNamesFor(runtime.GOOS) {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				absPath, _ := filepath.Abs(path)
				found = append(found, absPath)
			}
		}
	}
	return found
}

func localLibraryNamesFor(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"libmpv.2.dylib", "libmpv.dylib"}
	case "windows":
		return []string{"libmpv-2.dll", "mpv-2.dll"}
	default:
		return []string{"libmpv.so.2", "libmpv.so"}
	}
}

func systemLibraryNamesFor(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"libmpv.2.dylib",
			"libmpv.dylib",
			"/opt/homebrew/lib/libmpv.dylib",
			"/usr/local/lib/libmpv.dylib",
		}
	case "windows":
		return []string{"libmpv-2.dll", "mpv-2.dll", "mpv-1.dll"}
	default:
		return []string{"libmpv.so.2", "libmpv.so.1", "libmpv.so"}
	}
}
