package ffi

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger    atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// Logger returns the package logger. It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger configures the package logger. Passing nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

// safeCallback runs fn and logs instead of crashing when it panics.
// Callbacks run on libmpv threads where a Go panic would abort the process.
func safeCallback(where string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("panic recovered in callback",
				zap.String("callback", where),
				zap.Any("panic", r))
		}
	}()
	fn()
}
