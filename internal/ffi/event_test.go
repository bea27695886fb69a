package ffi

import (
	"errors"
	"reflect"
	"testing"
	"unsafe"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func cstr(s string) *byte {
	b := CString(s)
	return &b[0]
}

func TestEventAccessorsMatchID(t *testing.T) {
	prop := EventProperty{Name: cstr("volume"), Format: FormatNone}
	e := &Event{EventID: EventPropertyChange, Data: unsafe.Pointer(&prop)}

	if e.Property() != &prop {
		t.Error("Property() should return the payload for property-change")
	}
	if e.LogMessage() != nil || e.EndFile() != nil || e.ClientMessage() != nil || e.ScriptInputDispatch() != nil {
		t.Error("accessors for other ids should return nil")
	}

	e.EventID = EventGetPropertyReply
	if e.Property() == nil {
		t.Error("Property() should accept get-property-reply")
	}
	e.EventID = EventSetPropertyReply
	if e.Property() != nil {
		t.Error("Property() should reject set-property-reply")
	}

	var nilEvent *Event
	if nilEvent.Property() != nil || nilEvent.LogMessage() != nil || nilEvent.Err() != nil {
		t.Error("nil event accessors should return nil")
	}
}

func TestEventErr(t *testing.T) {
	e := &Event{EventID: EventCommandReply, Error: ErrCodeCommand}
	err := e.Err()
	if !errors.Is(err, ErrCommand) {
		t.Fatalf("Err() = %v, want ErrCommand", err)
	}
	if got := err.Error(); got != "command-reply: error running command (-12)" {
		t.Errorf("Err().Error() = %q", got)
	}

	e.Error = ErrCodeSuccess
	if e.Err() != nil {
		t.Error("success event should have nil Err()")
	}
}

func TestCopyEventProperty(t *testing.T) {
	volume := 55.5
	prop := EventProperty{Name: cstr("volume"), Format: FormatDouble, Data: unsafe.Pointer(&volume)}
	e := &Event{EventID: EventGetPropertyReply, ReplyUserdata: 2, Data: unsafe.Pointer(&prop)}

	got := CopyEvent(e)
	if got.ID != EventGetPropertyReply || got.ReplyUserdata != 2 {
		t.Errorf("header = %+v", got)
	}
	want := &PropertyData{Name: "volume", Format: FormatDouble, Value: 55.5}
	if !reflect.DeepEqual(got.Property, want) {
		t.Errorf("Property = %+v, want %+v", got.Property, want)
	}
	if got.DecodeErr != nil {
		t.Errorf("DecodeErr = %v", got.DecodeErr)
	}
}

func TestCopyEventPropertyNode(t *testing.T) {
	node, err := NewNode(map[string]any{"w": 1920, "h": 1080})
	if err != nil {
		t.Fatal(err)
	}
	defer node.Release()

	prop := EventProperty{Name: cstr("video-params"), Format: FormatNode, Data: unsafe.Pointer(node.Node())}
	got := CopyEvent(&Event{EventID: EventPropertyChange, Data: unsafe.Pointer(&prop)})

	want := map[string]any{"w": int64(1920), "h": int64(1080)}
	if !reflect.DeepEqual(got.Property.Value, want) {
		t.Errorf("Value = %#v, want %#v", got.Property.Value, want)
	}
}

func TestCopyEventPayloads(t *testing.T) {
	t.Run("log message", func(t *testing.T) {
		msg := LogMessageEvent{Prefix: cstr("cplayer"), Level: cstr("warn"), Text: cstr("no audio\n"), LogLevel: LogLevelWarn}
		got := CopyEvent(&Event{EventID: EventLogMessage, Data: unsafe.Pointer(&msg)})
		want := &LogData{Prefix: "cplayer", Level: "warn", Text: "no audio\n", Value: LogLevelWarn}
		if !reflect.DeepEqual(got.Log, want) {
			t.Errorf("Log = %+v, want %+v", got.Log, want)
		}
	})

	t.Run("end file", func(t *testing.T) {
		ef := EndFileEvent{Reason: EndFileError, Error: ErrCodeLoadingFailed}
		got := CopyEvent(&Event{EventID: EventEndFile, Data: unsafe.Pointer(&ef)})
		if got.EndFile == nil || got.EndFile.Reason != EndFileError || got.EndFile.Error != ErrCodeLoadingFailed {
			t.Errorf("EndFile = %+v", got.EndFile)
		}
	})

	t.Run("client message", func(t *testing.T) {
		args := []*byte{cstr("script-message"), cstr("ping")}
		cm := ClientMessageEvent{NumArgs: 2, Args: &args[0]}
		got := CopyEvent(&Event{EventID: EventClientMessage, Data: unsafe.Pointer(&cm)})
		if !reflect.DeepEqual(got.ClientMessage, []string{"script-message", "ping"}) {
			t.Errorf("ClientMessage = %v", got.ClientMessage)
		}
	})

	t.Run("script input", func(t *testing.T) {
		si := ScriptInputDispatchEvent{Arg0: 7, Type: cstr("press")}
		got := CopyEvent(&Event{EventID: EventScriptInputDispatch, Data: unsafe.Pointer(&si)})
		if got.ScriptInput == nil || got.ScriptInput.Arg0 != 7 || got.ScriptInput.Type != "press" {
			t.Errorf("ScriptInput = %+v", got.ScriptInput)
		}
	})

	t.Run("no payload", func(t *testing.T) {
		got := CopyEvent(&Event{EventID: EventIdle})
		if got.Property != nil || got.Log != nil || got.EndFile != nil || got.ClientMessage != nil {
			t.Errorf("unexpected payload: %+v", got)
		}
	})

	t.Run("nil", func(t *testing.T) {
		if got := CopyEvent(nil); got.ID != EventNone {
			t.Errorf("CopyEvent(nil).ID = %s", got.ID)
		}
	})
}

func TestLogLevelZapLevel(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  zapcore.Level
	}{
		{LogLevelNone, zapcore.InvalidLevel},
		{LogLevelFatal, zapcore.ErrorLevel},
		{LogLevelError, zapcore.ErrorLevel},
		{LogLevelWarn, zapcore.WarnLevel},
		{LogLevelInfo, zapcore.InfoLevel},
		{LogLevelV, zapcore.DebugLevel},
		{LogLevelDebug, zapcore.DebugLevel},
		{LogLevelTrace, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		if got := tt.level.ZapLevel(); got != tt.want {
			t.Errorf("%s.ZapLevel() = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestForwardLogMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	ForwardLogMessage(l, &LogData{Prefix: "ao", Level: "error", Text: "init failed\n", Value: LogLevelError})
	ForwardLogMessage(l, &LogData{Prefix: "vd", Level: "debug", Text: "frame", Value: LogLevelDebug})
	ForwardLogMessage(l, &LogData{Prefix: "x", Level: "no", Text: "ignored", Value: LogLevelNone})
	ForwardLogMessage(l, nil)
	ForwardLogMessage(nil, &LogData{Text: "nowhere", Value: LogLevelError})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Message != "init failed" || entry.Level != zapcore.ErrorLevel {
		t.Errorf("entry = %q at %s", entry.Message, entry.Level)
	}
	fields := entry.ContextMap()
	if fields["prefix"] != "ao" || fields["level"] != "error" {
		t.Errorf("fields = %v", fields)
	}
}
