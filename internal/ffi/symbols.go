package ffi

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

// Function pointers bound by registerFunctions. Handles are passed as uintptr,
// names as Go strings (purego copies them to NUL-terminated memory for the
// duration of the call), buffers as unsafe.Pointer so they stay reachable
// during the call, and C ints as int32.
var (
	mpvClientAPIVersion func() uint32
	mpvErrorString      func(code int32) string
	mpvFree             func(data unsafe.Pointer)
	mpvClientName       func(ctx uintptr) string
	mpvCreate           func() uintptr
	mpvInitialize       func(ctx uintptr) int32
	mpvDetachDestroy    func(ctx uintptr)
	mpvDestroy          func(ctx uintptr)
	mpvTerminateDestroy func(ctx uintptr)
	mpvCreateClient     func(ctx uintptr, name unsafe.Pointer) uintptr
	mpvLoadConfigFile   func(ctx uintptr, filename string) int32
	mpvSuspend          func(ctx uintptr)
	mpvResume           func(ctx uintptr)
	mpvGetTimeUs        func(ctx uintptr) int64
	mpvFreeNodeContents func(node unsafe.Pointer)

	mpvSetOption       func(ctx uintptr, name string, format int32, data unsafe.Pointer) int32
	mpvSetOptionString func(ctx uintptr, name, data string) int32

	mpvCommand       func(ctx uintptr, args unsafe.Pointer) int32
	mpvCommandNode   func(ctx uintptr, args, result unsafe.Pointer) int32
	mpvCommandString func(ctx uintptr, args string) int32
	mpvCommandAsync  func(ctx uintptr, replyUserdata uint64, args unsafe.Pointer) int32

	mpvSetProperty          func(ctx uintptr, name string, format int32, data unsafe.Pointer) int32
	mpvSetPropertyString    func(ctx uintptr, name, data string) int32
	mpvSetPropertyAsync     func(ctx uintptr, replyUserdata uint64, name string, format int32, data unsafe.Pointer) int32
	mpvGetProperty          func(ctx uintptr, name string, format int32, data unsafe.Pointer) int32
	mpvGetPropertyString    func(ctx uintptr, name string) uintptr
	mpvGetPropertyOSDString func(ctx uintptr, name string) uintptr
	mpvGetPropertyAsync     func(ctx uintptr, replyUserdata uint64, name string, format int32) int32
	mpvObserveProperty      func(ctx uintptr, replyUserdata uint64, name string, format int32) int32
	mpvUnobserveProperty    func(ctx uintptr, registeredReplyUserdata uint64) int32

	mpvEventName          func(event int32) string
	mpvRequestEvent       func(ctx uintptr, event int32, enable int32) int32
	mpvRequestLogMessages func(ctx uintptr, minLevel string) int32
	mpvWaitEvent          func(ctx uintptr, timeout float64) uintptr
	mpvWakeup             func(ctx uintptr)
	mpvSetWakeupCallback  func(ctx uintptr, cb uintptr, d uintptr)
	mpvGetWakeupPipe      func(ctx uintptr) int32
	mpvWaitAsyncRequests  func(ctx uintptr)
	mpvGetSubAPI          func(ctx uintptr, subAPI int32) uintptr
	mpvStreamCbAddRO      func(ctx uintptr, protocol string, userData uintptr, openFn uintptr) int32
)

type symbol struct {
	name     string
	fptr     any
	optional bool
}

// symbols lists every entry point. Optional ones were removed (or added) by the
// client API 2.0 transition and are left nil when absent.
var symbols = []symbol{
	{name: "mpv_client_api_version", fptr: &mpvClientAPIVersion},
	{name: "mpv_error_string", fptr: &mpvErrorString},
	{name: "mpv_free", fptr: &mpvFree},
	{name: "mpv_client_name", fptr: &mpvClientName},
	{name: "mpv_create", fptr: &mpvCreate},
	{name: "mpv_initialize", fptr: &mpvInitialize},
	{name: "mpv_detach_destroy", fptr: &mpvDetachDestroy, optional: true},
	{name: "mpv_destroy", fptr: &mpvDestroy, optional: true},
	{name: "mpv_terminate_destroy", fptr: &mpvTerminateDestroy},
	{name: "mpv_create_client", fptr: &mpvCreateClient},
	{name: "mpv_load_config_file", fptr: &mpvLoadConfigFile},
	{name: "mpv_suspend", fptr: &mpvSuspend, optional: true},
	{name: "mpv_resume", fptr: &mpvResume, optional: true},
	{name: "mpv_get_time_us", fptr: &mpvGetTimeUs},
	{name: "mpv_free_node_contents", fptr: &mpvFreeNodeContents},
	{name: "mpv_set_option", fptr: &mpvSetOption},
	{name: "mpv_set_option_string", fptr: &mpvSetOptionString},
	{name: "mpv_command", fptr: &mpvCommand},
	{name: "mpv_command_node", fptr: &mpvCommandNode},
	{name: "mpv_command_string", fptr: &mpvCommandString},
	{name: "mpv_command_async", fptr: &mpvCommandAsync},
	{name: "mpv_set_property", fptr: &mpvSetProperty},
	{name: "mpv_set_property_string", fptr: &mpvSetPropertyString},
	{name: "mpv_set_property_async", fptr: &mpvSetPropertyAsync},
	{name: "mpv_get_property", fptr: &mpvGetProperty},
	{name: "mpv_get_property_string", fptr: &mpvGetPropertyString},
	{name: "mpv_get_property_osd_string", fptr: &mpvGetPropertyOSDString},
	{name: "mpv_get_property_async", fptr: &mpvGetPropertyAsync},
	{name: "mpv_observe_property", fptr: &mpvObserveProperty},
	{name: "mpv_unobserve_property", fptr: &mpvUnobserveProperty},
	{name: "mpv_event_name", fptr: &mpvEventName},
	{name: "mpv_request_event", fptr: &mpvRequestEvent},
	{name: "mpv_request_log_messages", fptr: &mpvRequestLogMessages},
	{name: "mpv_wait_event", fptr: &mpvWaitEvent},
	{name: "mpv_wakeup", fptr: &mpvWakeup},
	{name: "mpv_set_wakeup_callback", fptr: &mpvSetWakeupCallback},
	{name: "mpv_get_wakeup_pipe", fptr: &mpvGetWakeupPipe},
	{name: "mpv_wait_async_requests", fptr: &mpvWaitAsyncRequests},
	{name: "mpv_get_sub_api", fptr: &mpvGetSubAPI, optional: true},
	{name: "mpv_stream_cb_add_ro", fptr: &mpvStreamCbAddRO},
}

func registerFunctions(handle uintptr) error {
	var missing []string
	for _, sym := range symbols {
		addr, err := dlsymLibrary(handle, sym.name)
		if err != nil {
			if sym.optional {
				Logger().Debug("optional libmpv symbol absent", zap.String("symbol", sym.name))
				continue
			}
			missing = append(missing, sym.name)
			continue
		}
		purego.RegisterFunc(sym.fptr, addr)
	}

	if len(missing) > 0 {
		resetFunctions()
		return fmt.Errorf("%w: %s", ErrSymbolNotFound, strings.Join(missing, ", "))
	}
	return nil
}

func resetFunctions() {
	for _, sym := range symbols {
		reflect.ValueOf(sym.fptr).Elem().SetZero()
	}
}

// HasSymbol reports whether the named entry point was bound.
func HasSymbol(name string) bool {
	if !libLoaded.Load() {
		return false
	}
	for _, sym := range symbols {
		if sym.name == name {
			return !reflect.ValueOf(sym.fptr).Elem().IsNil()
		}
	}
	return false
}
