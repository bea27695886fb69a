// Package testutil provides shared test utilities for libgompv tests.
package testutil

import (
	"os"
	"testing"

	"github.com/thesyncim/libgompv/internal/ffi"
)

// RequireEnv makes a missing libmpv fail instead of skip.
const RequireEnv = "LIBMPV_TEST_REQUIRE"

// RequireMpv loads libmpv or skips the test. With LIBMPV_TEST_REQUIRE set,
// a missing library fails the test instead.
func RequireMpv(tb testing.TB) {
	tb.Helper()
	err := ffi.LoadLibrary()
	if err == nil {
		err = ffi.CheckVersion()
	}
	if err == nil {
		return
	}
	if os.Getenv(RequireEnv) != "" {
		tb.Fatalf("libmpv required: %v", err)
	}
	tb.Skipf("libmpv not available: %v", err)
}

// HeadlessOptions are set on every core created by NewHeadlessHandle so tests
// never open windows or audio devices.
var HeadlessOptions = map[string]string{
	"vo":       "null",
	"ao":       "null",
	"idle":     "yes",
	"terminal": "no",
	"config":   "no",
}

// NewHeadlessHandle creates and initializes a core with HeadlessOptions. The
// core is terminated when the test ends.
func NewHeadlessHandle(tb testing.TB) ffi.Handle {
	tb.Helper()
	RequireMpv(tb)

	h := ffi.Create()
	if h.IsNil() {
		tb.Fatal("mpv_create returned NULL")
	}
	for name, value := range HeadlessOptions {
		if code := ffi.SetOptionString(h, name, value); code < 0 {
			ffi.TerminateDestroy(h)
			tb.Fatalf("set option %s=%s: %v", name, value, code.Err())
		}
	}
	if code := ffi.Initialize(h); code < 0 {
		ffi.TerminateDestroy(h)
		tb.Fatalf("mpv_initialize: %v", code.Err())
	}
	tb.Cleanup(func() { ffi.TerminateDestroy(h) })
	return h
}

// DrainUntil waits for events on h until match returns true or maxEvents
// events have been seen. Events are copied before being passed to match.
func DrainUntil(tb testing.TB, h ffi.Handle, maxEvents int, match func(ffi.EventData) bool) (ffi.EventData, bool) {
	tb.Helper()
	for i := 0; i < maxEvents; i++ {
		ev := ffi.CopyEvent(ffi.WaitEvent(h, 5))
		if ev.ID == ffi.EventNone {
			continue
		}
		if match(ev) {
			return ev, true
		}
		if ev.ID == ffi.EventShutdown {
			break
		}
	}
	return ffi.EventData{}, false
}
