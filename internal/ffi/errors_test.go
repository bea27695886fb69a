package ffi

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodeValues(t *testing.T) {
	want := []ErrorCode{
		ErrCodeSuccess,
		ErrCodeEventQueueFull,
		ErrCodeNoMem,
		ErrCodeUninitialized,
		ErrCodeInvalidParameter,
		ErrCodeOptionNotFound,
		ErrCodeOptionFormat,
		ErrCodeOptionError,
		ErrCodePropertyNotFound,
		ErrCodePropertyFormat,
		ErrCodePropertyUnavailable,
		ErrCodePropertyError,
		ErrCodeCommand,
		ErrCodeLoadingFailed,
		ErrCodeAOInitFailed,
		ErrCodeVOInitFailed,
		ErrCodeNothingToPlay,
		ErrCodeUnknownFormat,
		ErrCodeUnsupported,
		ErrCodeNotImplemented,
		ErrCodeGeneric,
	}
	for i, code := range want {
		if int32(code) != int32(-i) {
			t.Errorf("code #%d = %d, want %d", i, int32(code), -i)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeSuccess, "success"},
		{ErrorCode(3), "success"},
		{ErrCodeInvalidParameter, "invalid parameter"},
		{ErrCodePropertyNotFound, "property not found"},
		{ErrCodeGeneric, "something happened"},
		{ErrorCode(-999), "unknown error -999"},
	}
	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("ErrorCode(%d).String() = %q, want %q", int32(tt.code), got, tt.want)
		}
	}

	for code := ErrCodeSuccess; code >= ErrCodeGeneric; code-- {
		if code.String() == "" {
			t.Errorf("ErrorCode(%d) has an empty description", int32(code))
		}
	}
}

func TestMpvError(t *testing.T) {
	if err := MpvError(0); err != nil {
		t.Errorf("MpvError(0) = %v, want nil", err)
	}
	if err := MpvError(5); err != nil {
		t.Errorf("MpvError(5) = %v, want nil", err)
	}

	tests := []struct {
		code     int32
		sentinel error
	}{
		{-1, ErrEventQueueFull},
		{-4, ErrInvalidParameter},
		{-8, ErrPropertyNotFound},
		{-13, ErrLoadingFailed},
		{-18, ErrUnsupported},
		{-20, ErrGeneric},
		{-77, ErrGeneric},
	}
	for _, tt := range tests {
		err := MpvError(tt.code)
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("MpvError(%d) = %v, want errors.Is %v", tt.code, err, tt.sentinel)
		}
		var mErr *Error
		if !errors.As(err, &mErr) || int32(mErr.Code) != tt.code {
			t.Errorf("MpvError(%d) does not carry its code", tt.code)
		}
	}
}

func TestOpError(t *testing.T) {
	if err := OpError("mpv_initialize", ErrCodeSuccess); err != nil {
		t.Fatalf("OpError(success) = %v", err)
	}

	err := OpError("mpv_get_property", ErrCodePropertyUnavailable)
	if got, want := err.Error(), "mpv_get_property: property unavailable (-10)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrPropertyUnavailable) {
		t.Error("OpError should unwrap to its sentinel")
	}

	wrapped := fmt.Errorf("reading volume: %w", err)
	if CodeOf(wrapped) != ErrCodePropertyUnavailable {
		t.Errorf("CodeOf(wrapped) = %d", CodeOf(wrapped))
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ErrCodeSuccess},
		{"sentinel", ErrCommand, ErrCodeCommand},
		{"wrapped sentinel", fmt.Errorf("x: %w", ErrNoMem), ErrCodeNoMem},
		{"error value", &Error{Code: ErrCodeAOInitFailed}, ErrCodeAOInitFailed},
		{"foreign", errors.New("boom"), ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorCodeOK(t *testing.T) {
	if !ErrCodeSuccess.OK() || !ErrorCode(2).OK() {
		t.Error("non-negative codes should be OK")
	}
	if ErrCodeCommand.OK() {
		t.Error("negative codes should not be OK")
	}
	if ErrCodeSuccess.Err() != nil {
		t.Error("success Err() should be nil")
	}
}
