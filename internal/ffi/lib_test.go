package ffi

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAPIVersionPacking(t *testing.T) {
	v := MakeAPIVersion(2, 3)
	if v != 0x00020003 {
		t.Errorf("MakeAPIVersion(2, 3) = %#x", v)
	}
	major, minor := SplitAPIVersion(v)
	if major != 2 || minor != 3 {
		t.Errorf("SplitAPIVersion = %d.%d", major, minor)
	}
	major, minor = SplitAPIVersion(MakeAPIVersion(1, 109))
	if major != 1 || minor != 109 {
		t.Errorf("SplitAPIVersion(1.109) = %d.%d", major, minor)
	}
}

func TestLibraryNames(t *testing.T) {
	tests := []struct {
		goos   string
		local  string
		system string
	}{
		{"linux", "libmpv.so.2", "libmpv.so.1"},
		{"darwin", "libmpv.2.dylib", "/opt/homebrew/lib/libmpv.dylib"},
		{"windows", "libmpv-2.dll", "mpv-1.dll"},
		{"freebsd", "libmpv.so", "libmpv.so"},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			if !slices.Contains(localLibraryNamesFor(tt.goos), tt.local) {
				t.Errorf("local names %v missing %q", localLibraryNamesFor(tt.goos), tt.local)
			}
			if !slices.Contains(systemLibraryNamesFor(tt.goos), tt.system) {
				t.Errorf("system names %v missing %q", systemLibraryNamesFor(tt.goos), tt.system)
			}
		})
	}
}

func TestLibrarySearchPathsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "libmpv-custom.so")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LIBMPV_PATH", path)
	paths := librarySearchPaths()
	if len(paths) == 0 || paths[0] != path {
		t.Errorf("LIBMPV_PATH should be searched first, got %v", paths)
	}

	t.Setenv("LIBMPV_PATH", filepath.Join(dir, "missing.so"))
	if slices.Contains(librarySearchPaths(), filepath.Join(dir, "missing.so")) {
		t.Error("a missing LIBMPV_PATH should be skipped")
	}
}

func TestEntryPointsWithoutLibrary(t *testing.T) {
	if IsLoaded() {
		t.Skip("libmpv is loaded")
	}

	if err := CheckVersion(); !errors.Is(err, ErrLibraryNotLoaded) {
		t.Errorf("CheckVersion = %v", err)
	}
	if ClientAPIVersion() != 0 {
		t.Error("ClientAPIVersion should be 0")
	}
	if !Create().IsNil() {
		t.Error("Create should return the null handle")
	}
	if LibraryPath() != "" {
		t.Error("LibraryPath should be empty")
	}
	if got := ErrorString(ErrCodePropertyNotFound); got != "property not found" {
		t.Errorf("ErrorString = %q", got)
	}
	if got := EventName(EventShutdown); got != "shutdown" {
		t.Errorf("EventName = %q", got)
	}
	if EventName(EventID(999)) != "" {
		t.Error("EventName of an unknown id should be empty")
	}

	h := Handle{ptr: 0x1}
	if code := Initialize(h); code != ErrCodeUninitialized {
		t.Errorf("Initialize = %d", code)
	}
	if code := Command(h, "quit"); code != ErrCodeUninitialized {
		t.Errorf("Command = %d", code)
	}
	if _, code := GetPropertyDouble(h, "volume"); code != ErrCodeUninitialized {
		t.Errorf("GetPropertyDouble = %d", code)
	}
	if node, code := GetPropertyNode(h, "metadata"); node != nil || code != ErrCodeUninitialized {
		t.Errorf("GetPropertyNode = %v, %d", node, code)
	}
	if WaitEvent(h, 0) != nil {
		t.Error("WaitEvent should return nil")
	}
	if GetPropertyString(h, "path") != nil {
		t.Error("GetPropertyString should return nil")
	}
	if !CreateClient(h, "x").IsNil() {
		t.Error("CreateClient should return the null handle")
	}
	if GetSubAPI(h, SubAPIOpenGLCb) != nil {
		t.Error("GetSubAPI should return nil")
	}
	if code := GetWakeupPipe(h); code != int32(ErrCodeUninitialized) {
		t.Errorf("GetWakeupPipe = %d", code)
	}

	// Must not crash.
	Destroy(h)
	DetachDestroy(h)
	TerminateDestroy(h)
	Suspend(h)
	Resume(h)
	Wakeup(h)
	WaitAsyncRequests(h)
	Free(nil)
	FreeNodeContents(&Node{})

	if HasSymbol("mpv_create") {
		t.Error("HasSymbol should be false before loading")
	}
	if err := Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}

func TestSafeCallbackLogsPanic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	safeCallback("test", func() { panic("kaboom") })

	entries := logs.FilterMessage("panic recovered in callback").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].ContextMap()["callback"] != "test" {
		t.Errorf("fields = %v", entries[0].ContextMap())
	}
}

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() must never be nil")
	}
	l := zap.NewExample()
	SetLogger(l)
	defer SetLogger(nil)
	if Logger() != l {
		t.Error("SetLogger did not take effect")
	}
}
