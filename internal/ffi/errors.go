package ffi

import (
	"errors"
	"fmt"
)

// ErrorCode matches mpv_error in client.h. Non-negative values are success;
// some entry points return positive counts through the same type.
type ErrorCode int32

const (
	ErrCodeSuccess             ErrorCode = 0
	ErrCodeEventQueueFull      ErrorCode = -1
	ErrCodeNoMem               ErrorCode = -2
	ErrCodeUninitialized       ErrorCode = -3
	ErrCodeInvalidParameter    ErrorCode = -4
	ErrCodeOptionNotFound      ErrorCode = -5
	ErrCodeOptionFormat        ErrorCode = -6
	ErrCodeOptionError         ErrorCode = -7
	ErrCodePropertyNotFound    ErrorCode = -8
	ErrCodePropertyFormat      ErrorCode = -9
	ErrCodePropertyUnavailable ErrorCode = -10
	ErrCodePropertyError       ErrorCode = -11
	ErrCodeCommand             ErrorCode = -12
	ErrCodeLoadingFailed       ErrorCode = -13
	ErrCodeAOInitFailed        ErrorCode = -14
	ErrCodeVOInitFailed        ErrorCode = -15
	ErrCodeNothingToPlay       ErrorCode = -16
	ErrCodeUnknownFormat       ErrorCode = -17
	ErrCodeUnsupported         ErrorCode = -18
	ErrCodeNotImplemented      ErrorCode = -19
	ErrCodeGeneric             ErrorCode = -20
)

// Sentinels for each mpv_error value; *Error unwraps to these so errors.Is works.
var (
	ErrEventQueueFull      = errors.New("event queue full")
	ErrNoMem               = errors.New("memory allocation failed")
	ErrUninitialized       = errors.New("core not initialized")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrOptionNotFound      = errors.New("option not found")
	ErrOptionFormat        = errors.New("unsupported format for accessing option")
	ErrOptionError         = errors.New("error setting option")
	ErrPropertyNotFound    = errors.New("property not found")
	ErrPropertyFormat      = errors.New("unsupported format for accessing property")
	ErrPropertyUnavailable = errors.New("property unavailable")
	ErrPropertyError       = errors.New("error accessing property")
	ErrCommand             = errors.New("error running command")
	ErrLoadingFailed       = errors.New("loading failed")
	ErrAOInitFailed        = errors.New("audio output initialization failed")
	ErrVOInitFailed        = errors.New("video output initialization failed")
	ErrNothingToPlay       = errors.New("no audio or video data played")
	ErrUnknownFormat       = errors.New("unrecognized file format")
	ErrUnsupported         = errors.New("not supported")
	ErrNotImplemented      = errors.New("operation not implemented")
	ErrGeneric             = errors.New("something happened")
)

var codeSentinels = map[ErrorCode]error{
	ErrCodeEventQueueFull:      ErrEventQueueFull,
	ErrCodeNoMem:               ErrNoMem,
	ErrCodeUninitialized:       ErrUninitialized,
	ErrCodeInvalidParameter:    ErrInvalidParameter,
	ErrCodeOptionNotFound:      ErrOptionNotFound,
	ErrCodeOptionFormat:        ErrOptionFormat,
	ErrCodeOptionError:         ErrOptionError,
	ErrCodePropertyNotFound:    ErrPropertyNotFound,
	ErrCodePropertyFormat:      ErrPropertyFormat,
	ErrCodePropertyUnavailable: ErrPropertyUnavailable,
	ErrCodePropertyError:       ErrPropertyError,
	ErrCodeCommand:             ErrCommand,
	ErrCodeLoadingFailed:       ErrLoadingFailed,
	ErrCodeAOInitFailed:        ErrAOInitFailed,
	ErrCodeVOInitFailed:        ErrVOInitFailed,
	ErrCodeNothingToPlay:       ErrNothingToPlay,
	ErrCodeUnknownFormat:       ErrUnknownFormat,
	ErrCodeUnsupported:         ErrUnsupported,
	ErrCodeNotImplemented:      ErrNotImplemented,
	ErrCodeGeneric:             ErrGeneric,
}

// String returns the static description of the code, matching mpv_error_string.
func (c ErrorCode) String() string {
	if c >= 0 {
		return "success"
	}
	if err, ok := codeSentinels[c]; ok {
		return err.Error()
	}
	return fmt.Sprintf("unknown error %d", int32(c))
}

// OK reports whether c signals success.
func (c ErrorCode) OK() bool { return c >= 0 }

// Err returns nil for success codes and an *Error otherwise.
func (c ErrorCode) Err() error {
	if c >= 0 {
		return nil
	}
	return &Error{Code: c}
}

// Error carries a failing status code and, optionally, the operation that
// produced it.
type Error struct {
	Code ErrorCode
	Op   string
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s (%d)", e.Op, e.Code, int32(e.Code))
	}
	return fmt.Sprintf("%s (%d)", e.Code, int32(e.Code))
}

// Unwrap returns the sentinel for the code. Unknown codes unwrap to ErrGeneric.
func (e *Error) Unwrap() error {
	if err, ok := codeSentinels[e.Code]; ok {
		return err
	}
	return ErrGeneric
}

// MpvError converts a raw status code to a Go error.
// Returns sentinel errors that support errors.Is() comparisons.
func MpvError(code int32) error {
	return ErrorCode(code).Err()
}

// OpError is like MpvError but records the operation name.
func OpError(op string, code ErrorCode) error {
	if code >= 0 {
		return nil
	}
	return &Error{Code: code, Op: op}
}

// CodeOf extracts the status code from err. It returns ErrCodeSuccess for nil,
// the matching code for *Error and package sentinels, and ErrCodeGeneric otherwise.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ErrCodeSuccess
	}
	var mErr *Error
	if errors.As(err, &mErr) {
		return mErr.Code
	}
	for code, sentinel := range codeSentinels {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ErrCodeGeneric
}
