package ffi

import (
	"runtime"
	"unsafe"
)

// Every entry point below maps 1:1 to a libmpv function. Before LoadLibrary
// they return ErrCodeUninitialized (or a zero value) instead of crashing, and
// a null Handle yields ErrCodeInvalidParameter. A single Handle must not be
// used from several goroutines at once; use CreateClient for that.

func ready(h Handle) ErrorCode {
	if !libLoaded.Load() {
		return ErrCodeUninitialized
	}
	if h.IsNil() {
		return ErrCodeInvalidParameter
	}
	return ErrCodeSuccess
}

// ClientAPIVersion returns mpv_client_api_version(), or 0 when not loaded.
func ClientAPIVersion() uint32 {
	if !libLoaded.Load() {
		return 0
	}
	return mpvClientAPIVersion()
}

// ErrorString returns libmpv's description of code. The static table is used
// when the library is not loaded.
func ErrorString(code ErrorCode) string {
	if !libLoaded.Load() {
		return code.String()
	}
	return mpvErrorString(int32(code))
}

// Free releases memory allocated by libmpv.
func Free(data unsafe.Pointer) {
	if !libLoaded.Load() || data == nil {
		return
	}
	mpvFree(data)
}

// FreeNodeContents releases everything libmpv allocated inside node and
// resets it to FormatNone. The node itself is not freed.
func FreeNodeContents(node *Node) {
	if !libLoaded.Load() || node == nil {
		return
	}
	mpvFreeNodeContents(unsafe.Pointer(node))
}

// EventName returns the libmpv name of id, or "" for unknown ids.
func EventName(id EventID) string {
	if !libLoaded.Load() {
		if id >= 0 && int(id) < len(eventNames) {
			return eventNames[id]
		}
		return ""
	}
	return mpvEventName(int32(id))
}

// --- Lifecycle ---

// Create allocates a new, uninitialized mpv core. Returns the null handle on
// failure.
func Create() Handle {
	if !libLoaded.Load() {
		return Handle{}
	}
	return Handle{ptr: mpvCreate()}
}

// Initialize starts the core created by Create.
func Initialize(h Handle) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvInitialize(h.ptr))
}

// DetachDestroy disconnects h without shutting the core down unless it was the
// last handle. On client API 2.0 it is mpv_destroy.
func DetachDestroy(h Handle) {
	if ready(h) != ErrCodeSuccess {
		return
	}
	releaseCallbacks(h)
	switch {
	case mpvDetachDestroy != nil:
		mpvDetachDestroy(h.ptr)
	case mpvDestroy != nil:
		mpvDestroy(h.ptr)
	}
}

// Destroy is mpv_destroy, falling back to mpv_detach_destroy on client API 1.x.
func Destroy(h Handle) {
	if ready(h) != ErrCodeSuccess {
		return
	}
	releaseCallbacks(h)
	switch {
	case mpvDestroy != nil:
		mpvDestroy(h.ptr)
	case mpvDetachDestroy != nil:
		mpvDetachDestroy(h.ptr)
	}
}

// TerminateDestroy shuts the core down and blocks until every handle is gone.
func TerminateDestroy(h Handle) {
	if ready(h) != ErrCodeSuccess {
		return
	}
	releaseCallbacks(h)
	mpvTerminateDestroy(h.ptr)
}

// CreateClient creates another handle to the same core. An empty name lets
// libmpv choose one. Returns the null handle on failure.
func CreateClient(h Handle, name string) Handle {
	if ready(h) != ErrCodeSuccess {
		return Handle{}
	}
	var pinner runtime.Pinner
	defer pinner.Unpin()
	return Handle{ptr: mpvCreateClient(h.ptr, pinnedCString(&pinner, name, true))}
}

// ClientName returns the name libmpv assigned to h.
func ClientName(h Handle) string {
	if ready(h) != ErrCodeSuccess {
		return ""
	}
	return mpvClientName(h.ptr)
}

// LoadConfigFile loads an mpv config file into h's options.
func LoadConfigFile(h Handle, filename string) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvLoadConfigFile(h.ptr, filename))
}

// Suspend is a no-op when the symbol is absent (client API 2.0).
func Suspend(h Handle) {
	if ready(h) != ErrCodeSuccess || mpvSuspend == nil {
		return
	}
	mpvSuspend(h.ptr)
}

// Resume is a no-op when the symbol is absent (client API 2.0).
func Resume(h Handle) {
	if ready(h) != ErrCodeSuccess || mpvResume == nil {
		return
	}
	mpvResume(h.ptr)
}

// GetTimeUs returns libmpv's internal clock in microseconds.
func GetTimeUs(h Handle) int64 {
	if ready(h) != ErrCodeSuccess {
		return 0
	}
	return mpvGetTimeUs(h.ptr)
}

// GetSubAPI returns nil when the symbol is absent (client API 2.0).
func GetSubAPI(h Handle, api SubAPI) unsafe.Pointer {
	if ready(h) != ErrCodeSuccess || mpvGetSubAPI == nil {
		return nil
	}
	return unsafe.Pointer(mpvGetSubAPI(h.ptr, int32(api)))
}

// --- Options ---

// SetOption sets an option before Initialize. data must point to a value of
// the type format describes.
func SetOption(h Handle, name string, format Format, data unsafe.Pointer) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvSetOption(h.ptr, name, int32(format), data))
}

// SetOptionString sets an option from its string form.
func SetOptionString(h Handle, name, value string) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvSetOptionString(h.ptr, name, value))
}

// --- Properties ---

// SetProperty writes a property. data must match format.
func SetProperty(h Handle, name string, format Format, data unsafe.Pointer) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvSetProperty(h.ptr, name, int32(format), data))
}

// SetPropertyString writes a property from its string form.
func SetPropertyString(h Handle, name, value string) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvSetPropertyString(h.ptr, name, value))
}

// SetPropertyAsync queues a property write. The result arrives as an
// EventSetPropertyReply carrying replyUserdata.
func SetPropertyAsync(h Handle, replyUserdata uint64, name string, format Format, data unsafe.Pointer) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvSetPropertyAsync(h.ptr, replyUserdata, name, int32(format), data))
}

// GetProperty reads a property into data, which must point to storage for
// format. String and node results must be released by the caller.
func GetProperty(h Handle, name string, format Format, data unsafe.Pointer) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvGetProperty(h.ptr, name, int32(format), data))
}

// GetPropertyString returns the property as a libmpv-owned string, or nil on
// failure.
func GetPropertyString(h Handle, name string) *OwnedString {
	if ready(h) != ErrCodeSuccess {
		return nil
	}
	return newOwnedString(mpvGetPropertyString(h.ptr, name))
}

// GetPropertyOSDString is GetPropertyString with OSD formatting.
func GetPropertyOSDString(h Handle, name string) *OwnedString {
	if ready(h) != ErrCodeSuccess {
		return nil
	}
	return newOwnedString(mpvGetPropertyOSDString(h.ptr, name))
}

// GetPropertyStringValue copies and frees the property string.
func GetPropertyStringValue(h Handle, name string) (string, bool) {
	s := GetPropertyString(h, name)
	if s == nil {
		return "", false
	}
	defer s.Free()
	return s.String(), true
}

// GetPropertyAsync queues a property read. The value arrives as an
// EventGetPropertyReply carrying replyUserdata.
func GetPropertyAsync(h Handle, replyUserdata uint64, name string, format Format) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvGetPropertyAsync(h.ptr, replyUserdata, name, int32(format)))
}

// ObserveProperty requests EventPropertyChange events for name.
func ObserveProperty(h Handle, replyUserdata uint64, name string, format Format) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvObserveProperty(h.ptr, replyUserdata, name, int32(format)))
}

// UnobserveProperty removes every observer registered with replyUserdata.
// A non-negative result is the number of removed observers.
func UnobserveProperty(h Handle, replyUserdata uint64) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvUnobserveProperty(h.ptr, replyUserdata))
}

// SetPropertyFlag writes a FormatFlag property.
func SetPropertyFlag(h Handle, name string, v bool) ErrorCode {
	var flag int32
	if v {
		flag = 1
	}
	return SetProperty(h, name, FormatFlag, unsafe.Pointer(&flag))
}

// SetPropertyInt64 writes a FormatInt64 property.
func SetPropertyInt64(h Handle, name string, v int64) ErrorCode {
	return SetProperty(h, name, FormatInt64, unsafe.Pointer(&v))
}

// SetPropertyDouble writes a FormatDouble property.
func SetPropertyDouble(h Handle, name string, v float64) ErrorCode {
	return SetProperty(h, name, FormatDouble, unsafe.Pointer(&v))
}

// GetPropertyFlag reads a FormatFlag property.
func GetPropertyFlag(h Handle, name string) (bool, ErrorCode) {
	var flag int32
	code := GetProperty(h, name, FormatFlag, unsafe.Pointer(&flag))
	return flag != 0, code
}

// GetPropertyInt64 reads a FormatInt64 property.
func GetPropertyInt64(h Handle, name string) (int64, ErrorCode) {
	var v int64
	code := GetProperty(h, name, FormatInt64, unsafe.Pointer(&v))
	return v, code
}

// GetPropertyDouble reads a FormatDouble property.
func GetPropertyDouble(h Handle, name string) (float64, ErrorCode) {
	var v float64
	code := GetProperty(h, name, FormatDouble, unsafe.Pointer(&v))
	return v, code
}

// SetPropertyNode encodes v as an mpv_node and writes it.
func SetPropertyNode(h Handle, name string, v any) ErrorCode {
	node, err := NewNode(v)
	if err != nil {
		return ErrCodeInvalidParameter
	}
	defer node.Release()
	return SetProperty(h, name, FormatNode, unsafe.Pointer(node.Node()))
}

// GetPropertyNode reads a property as a libmpv-owned node. The result is nil
// when the code is a failure.
func GetPropertyNode(h Handle, name string) (*OwnedNode, ErrorCode) {
	out := new(OwnedNode)
	code := GetProperty(h, name, FormatNode, unsafe.Pointer(&out.node))
	if code < 0 {
		return nil, code
	}
	out.valid = true
	return out, code
}

// --- Commands ---

// Command runs an argv-style command synchronously.
func Command(h Handle, args ...string) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	argv := newCStringArray(args)
	defer argv.Free()
	return ErrorCode(mpvCommand(h.ptr, argv.Ptr()))
}

// CommandNode runs a node-style command. result may be nil; when set and the
// call succeeds it must be released with FreeNodeContents.
func CommandNode(h Handle, args *Node, result *Node) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	if args == nil {
		return ErrCodeInvalidParameter
	}
	return ErrorCode(mpvCommandNode(h.ptr, unsafe.Pointer(args), unsafe.Pointer(result)))
}

// CommandNodeValue encodes args (usually []any or map[string]any) and runs
// it, returning the libmpv-owned result.
func CommandNodeValue(h Handle, args any) (*OwnedNode, ErrorCode) {
	node, err := NewNode(args)
	if err != nil {
		return nil, ErrCodeInvalidParameter
	}
	defer node.Release()

	out := new(OwnedNode)
	code := CommandNode(h, node.Node(), &out.node)
	if code < 0 {
		return nil, code
	}
	out.valid = true
	return out, code
}

// CommandString runs a command in input.conf syntax.
func CommandString(h Handle, command string) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvCommandString(h.ptr, command))
}

// CommandAsync queues an argv-style command. The outcome arrives as an
// EventCommandReply carrying replyUserdata.
func CommandAsync(h Handle, replyUserdata uint64, args ...string) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	argv := newCStringArray(args)
	defer argv.Free()
	return ErrorCode(mpvCommandAsync(h.ptr, replyUserdata, argv.Ptr()))
}

// --- Events ---

// RequestEvent enables or disables delivery of id.
func RequestEvent(h Handle, id EventID, enable bool) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	var on int32
	if enable {
		on = 1
	}
	return ErrorCode(mpvRequestEvent(h.ptr, int32(id), on))
}

// RequestLogMessages enables EventLogMessage at minLevel and above.
// LogLevelNone disables log messages.
func RequestLogMessages(h Handle, minLevel LogLevel) ErrorCode {
	return RequestLogMessagesString(h, minLevel.String())
}

// RequestLogMessagesString takes the level name directly ("no", "warn", ...).
func RequestLogMessagesString(h Handle, minLevel string) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvRequestLogMessages(h.ptr, minLevel))
}

// WaitEvent blocks for up to timeout seconds (0 polls, negative waits forever)
// and returns the next event, EventNone on timeout. The event and its payload
// belong to libmpv and are only valid until the next WaitEvent on h; use
// CopyEvent to keep them. Returns nil if the library is not loaded.
func WaitEvent(h Handle, timeout float64) *Event {
	if ready(h) != ErrCodeSuccess {
		return nil
	}
	return (*Event)(unsafe.Pointer(mpvWaitEvent(h.ptr, timeout)))
}

// Wakeup interrupts a WaitEvent blocked on h from another goroutine.
func Wakeup(h Handle) {
	if ready(h) != ErrCodeSuccess {
		return
	}
	mpvWakeup(h.ptr)
}

// GetWakeupPipe returns a read fd that becomes readable when events are
// pending, or a negative value on failure.
func GetWakeupPipe(h Handle) int32 {
	if code := ready(h); code != ErrCodeSuccess {
		return int32(code)
	}
	return mpvGetWakeupPipe(h.ptr)
}

// WaitAsyncRequests blocks until every async request on h has replied.
func WaitAsyncRequests(h Handle) {
	if ready(h) != ErrCodeSuccess {
		return
	}
	mpvWaitAsyncRequests(h.ptr)
}
