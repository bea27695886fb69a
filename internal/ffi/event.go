package ffi

import (
	"unsafe"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Property returns the payload of EventGetPropertyReply and
// EventPropertyChange events, nil for any other event.
func (e *Event) Property() *EventProperty {
	if e == nil || e.Data == nil {
		return nil
	}
	switch e.EventID {
	case EventGetPropertyReply, EventPropertyChange:
		return (*EventProperty)(e.Data)
	}
	return nil
}

// LogMessage returns the payload of EventLogMessage events.
func (e *Event) LogMessage() *LogMessageEvent {
	if e == nil || e.Data == nil || e.EventID != EventLogMessage {
		return nil
	}
	return (*LogMessageEvent)(e.Data)
}

// EndFile returns the payload of EventEndFile events.
func (e *Event) EndFile() *EndFileEvent {
	if e == nil || e.Data == nil || e.EventID != EventEndFile {
		return nil
	}
	return (*EndFileEvent)(e.Data)
}

// ScriptInputDispatch returns the payload of EventScriptInputDispatch events.
func (e *Event) ScriptInputDispatch() *ScriptInputDispatchEvent {
	if e == nil || e.Data == nil || e.EventID != EventScriptInputDispatch {
		return nil
	}
	return (*ScriptInputDispatchEvent)(e.Data)
}

// ClientMessage returns the payload of EventClientMessage events.
func (e *Event) ClientMessage() *ClientMessageEvent {
	if e == nil || e.Data == nil || e.EventID != EventClientMessage {
		return nil
	}
	return (*ClientMessageEvent)(e.Data)
}

// Err returns the event's status as an error.
func (e *Event) Err() error {
	if e == nil {
		return nil
	}
	return OpError(e.EventID.String(), e.Error)
}

// PropertyData is a copied mpv_event_property.
type PropertyData struct {
	Name   string
	Format Format
	Value  any
}

// LogData is a copied mpv_event_log_message.
type LogData struct {
	Prefix string
	Level  string
	Text   string
	Value  LogLevel
}

// EndFileData is a copied mpv_event_end_file.
type EndFileData struct {
	Reason EndFileReason
	Error  ErrorCode
}

// ScriptInputData is a copied mpv_event_script_input_dispatch.
type ScriptInputData struct {
	Arg0 int32
	Type string
}

// EventData is an mpv_event copied into Go memory. At most one payload field
// is set, selected by ID.
type EventData struct {
	ID            EventID
	Error         ErrorCode
	ReplyUserdata uint64

	Property      *PropertyData
	Log           *LogData
	EndFile       *EndFileData
	ScriptInput   *ScriptInputData
	ClientMessage []string

	// DecodeErr is set when the payload could not be read.
	DecodeErr error
}

// CopyEvent snapshots e so it survives the next WaitEvent call.
func CopyEvent(e *Event) EventData {
	if e == nil {
		return EventData{ID: EventNone}
	}
	out := EventData{
		ID:            e.EventID,
		Error:         e.Error,
		ReplyUserdata: e.ReplyUserdata,
	}

	if prop := e.Property(); prop != nil {
		value, err := ReadData(prop.Format, prop.Data)
		out.Property = &PropertyData{
			Name:   GoString(unsafe.Pointer(prop.Name)),
			Format: prop.Format,
			Value:  value,
		}
		out.DecodeErr = err
	}
	if msg := e.LogMessage(); msg != nil {
		out.Log = &LogData{
			Prefix: GoString(unsafe.Pointer(msg.Prefix)),
			Level:  GoString(unsafe.Pointer(msg.Level)),
			Text:   GoString(unsafe.Pointer(msg.Text)),
			Value:  msg.LogLevel,
		}
	}
	if ef := e.EndFile(); ef != nil {
		out.EndFile = &EndFileData{Reason: ef.Reason, Error: ef.Error}
	}
	if si := e.ScriptInputDispatch(); si != nil {
		out.ScriptInput = &ScriptInputData{Arg0: si.Arg0, Type: GoString(unsafe.Pointer(si.Type))}
	}
	if cm := e.ClientMessage(); cm != nil {
		out.ClientMessage = goStrings(cm.Args, int(cm.NumArgs))
	}
	return out
}

// ZapLevel maps a libmpv log level to the closest zap level.
func (l LogLevel) ZapLevel() zapcore.Level {
	switch {
	case l == LogLevelNone:
		return zapcore.InvalidLevel
	case l <= LogLevelError:
		return zapcore.ErrorLevel
	case l <= LogLevelWarn:
		return zapcore.WarnLevel
	case l <= LogLevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ForwardLogMessage writes a libmpv log line to l at the mapped level.
func ForwardLogMessage(l *zap.Logger, msg *LogData) {
	if l == nil || msg == nil {
		return
	}
	level := msg.Value.ZapLevel()
	if level == zapcore.InvalidLevel {
		return
	}
	if ce := l.Check(level, trimNewline(msg.Text)); ce != nil {
		ce.Write(zap.String("prefix", msg.Prefix), zap.String("level", msg.Level))
	}
}

func trimNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
