package ffi

//go:generate go run ./gen_layout/main.go -out .

import (
	"fmt"
	"unsafe"
)

// Handle is a reference to an mpv_handle owned by libmpv.
// The zero value is the null handle; non-null values only come from Create
// and CreateClient. A Handle is dangling once passed to a destroy call.
type Handle struct {
	ptr uintptr
}

// IsNil reports whether h is the null handle.
func (h Handle) IsNil() bool { return h.ptr == 0 }

// Ptr returns the raw address for passing to native code.
func (h Handle) Ptr() uintptr { return h.ptr }

func (h Handle) String() string { return fmt.Sprintf("mpv_handle(%#x)", h.ptr) }

// Format matches mpv_format in client.h.
type Format int32

const (
	FormatNone      Format = 0
	FormatString    Format = 1
	FormatOSDString Format = 2
	FormatFlag      Format = 3
	FormatInt64     Format = 4
	FormatDouble    Format = 5
	FormatNode      Format = 6
	FormatNodeArray Format = 7
	FormatNodeMap   Format = 8
	FormatByteArray Format = 9
)

var formatNames = [...]string{
	FormatNone:      "none",
	FormatString:    "string",
	FormatOSDString: "osd-string",
	FormatFlag:      "flag",
	FormatInt64:     "int64",
	FormatDouble:    "double",
	FormatNode:      "node",
	FormatNodeArray: "node-array",
	FormatNodeMap:   "node-map",
	FormatByteArray: "byte-array",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("format(%d)", int32(f))
}

// EventID matches mpv_event_id in client.h.
type EventID int32

const (
	EventNone                EventID = 0
	EventShutdown            EventID = 1
	EventLogMessage          EventID = 2
	EventGetPropertyReply    EventID = 3
	EventSetPropertyReply    EventID = 4
	EventCommandReply        EventID = 5
	EventStartFile           EventID = 6
	EventEndFile             EventID = 7
	EventFileLoaded          EventID = 8
	EventTracksChanged       EventID = 9
	EventTrackSwitched       EventID = 10
	EventIdle                EventID = 11
	EventPause               EventID = 12
	EventUnpause             EventID = 13
	EventTick                EventID = 14
	EventScriptInputDispatch EventID = 15
	EventClientMessage       EventID = 16
	EventVideoReconfig       EventID = 17
	EventAudioReconfig       EventID = 18
	EventMetadataUpdate      EventID = 19
	EventSeek                EventID = 20
	EventPlaybackRestart     EventID = 21
	EventPropertyChange      EventID = 22
	EventChapterChange       EventID = 23
	EventQueueOverflow       EventID = 24
)

// Same strings mpv_event_name returns.
var eventNames = [...]string{
	EventNone:                "none",
	EventShutdown:            "shutdown",
	EventLogMessage:          "log-message",
	EventGetPropertyReply:    "get-property-reply",
	EventSetPropertyReply:    "set-property-reply",
	EventCommandReply:        "command-reply",
	EventStartFile:           "start-file",
	EventEndFile:             "end-file",
	EventFileLoaded:          "file-loaded",
	EventTracksChanged:       "tracks-changed",
	EventTrackSwitched:       "track-switched",
	EventIdle:                "idle",
	EventPause:               "pause",
	EventUnpause:             "unpause",
	EventTick:                "tick",
	EventScriptInputDispatch: "script-input-dispatch",
	EventClientMessage:       "client-message",
	EventVideoReconfig:       "video-reconfig",
	EventAudioReconfig:       "audio-reconfig",
	EventMetadataUpdate:      "metadata-update",
	EventSeek:                "seek",
	EventPlaybackRestart:     "playback-restart",
	EventPropertyChange:      "property-change",
	EventChapterChange:       "chapter-change",
	EventQueueOverflow:       "event-queue-overflow",
}

func (id EventID) String() string {
	if id >= 0 && int(id) < len(eventNames) {
		return eventNames[id]
	}
	return fmt.Sprintf("event(%d)", int32(id))
}

// LogLevel matches mpv_log_level in client.h.
type LogLevel int32

const (
	LogLevelNone  LogLevel = 0
	LogLevelFatal LogLevel = 10
	LogLevelError LogLevel = 20
	LogLevelWarn  LogLevel = 30
	LogLevelInfo  LogLevel = 40
	LogLevelV     LogLevel = 50
	LogLevelDebug LogLevel = 60
	LogLevelTrace LogLevel = 70
)

var logLevelNames = map[LogLevel]string{
	LogLevelNone:  "no",
	LogLevelFatal: "fatal",
	LogLevelError: "error",
	LogLevelWarn:  "warn",
	LogLevelInfo:  "info",
	LogLevelV:     "v",
	LogLevelDebug: "debug",
	LogLevelTrace: "trace",
}

// String returns the level name accepted by mpv_request_log_messages.
func (l LogLevel) String() string {
	if name, ok := logLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("loglevel(%d)", int32(l))
}

// ParseLogLevel parses a libmpv log level name.
func ParseLogLevel(s string) (LogLevel, error) {
	for level, name := range logLevelNames {
		if name == s {
			return level, nil
		}
	}
	return LogLevelNone, fmt.Errorf("%w: unknown log level %q", ErrInvalidParameter, s)
}

// EndFileReason matches mpv_end_file_reason in client.h.
type EndFileReason int32

const (
	EndFileEOF      EndFileReason = 0
	EndFileStop     EndFileReason = 2
	EndFileQuit     EndFileReason = 3
	EndFileError    EndFileReason = 4
	EndFileRedirect EndFileReason = 5
)

func (r EndFileReason) String() string {
	switch r {
	case EndFileEOF:
		return "eof"
	case EndFileStop:
		return "stop"
	case EndFileQuit:
		return "quit"
	case EndFileError:
		return "error"
	case EndFileRedirect:
		return "redirect"
	default:
		return fmt.Sprintf("endfile(%d)", int32(r))
	}
}

// SubAPI matches mpv_sub_api in client.h.
type SubAPI int32

const (
	SubAPIOpenGLCb SubAPI = 1
)

// Node matches mpv_node. The payload is an untagged union; Format is the
// only source of truth for which member is live.
type Node struct {
	u      uint64
	Format Format
}

// NodeList matches mpv_node_list. Keys is nil for arrays and parallel to
// Values for maps.
type NodeList struct {
	Num    int32
	Values *Node
	Keys   **byte
}

// ByteArray matches mpv_byte_array.
type ByteArray struct {
	Data unsafe.Pointer
	Size uintptr
}

// EventProperty matches mpv_event_property.
type EventProperty struct {
	Name   *byte
	Format Format
	Data   unsafe.Pointer
}

// LogMessageEvent matches mpv_event_log_message.
type LogMessageEvent struct {
	Prefix   *byte
	Level    *byte
	Text     *byte
	LogLevel LogLevel
}

// EndFileEvent matches mpv_event_end_file (client API 1.x prefix).
type EndFileEvent struct {
	Reason EndFileReason
	Error  ErrorCode
}

// ScriptInputDispatchEvent matches mpv_event_script_input_dispatch.
type ScriptInputDispatchEvent struct {
	Arg0 int32
	Type *byte
}

// ClientMessageEvent matches mpv_event_client_message.
type ClientMessageEvent struct {
	NumArgs int32
	Args    **byte
}

// Event matches mpv_event. Data points to the payload struct selected by
// EventID and is only valid until the next WaitEvent on the same handle.
type Event struct {
	EventID       EventID
	Error         ErrorCode
	ReplyUserdata uint64
	Data          unsafe.Pointer
}

// StreamCbInfo matches mpv_stream_cb_info. Cookie is an opaque value handed
// back to every callback; the function fields hold C function pointers.
type StreamCbInfo struct {
	Cookie  uintptr
	ReadFn  uintptr
	SeekFn  uintptr
	SizeFn  uintptr
	CloseFn uintptr
}

// Ptr returns a pointer to the node as uintptr for FFI calls.
func (n *Node) Ptr() uintptr {
	return uintptr(unsafe.Pointer(n))
}
