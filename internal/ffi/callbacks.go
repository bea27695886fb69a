package ffi

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"
)

// purego callbacks are a limited, never-freed resource, so each native
// callback signature gets one trampoline per process. Per-handle Go state is
// found through the opaque userdata/cookie value libmpv hands back.

var (
	callbacksOnce sync.Once

	wakeupCallbackPtr uintptr
	streamOpenPtr     uintptr
	streamReadPtr     uintptr
	streamSeekPtr     uintptr
	streamSizePtr     uintptr
	streamClosePtr    uintptr
)

var (
	wakeupMu        sync.RWMutex
	wakeupCallbacks = make(map[uintptr]func())
)

// Stream is the Go side of a custom stream protocol entry. Methods are called
// from libmpv threads.
type Stream interface {
	// Read fills p. io.EOF ends the stream.
	Read(p []byte) (int, error)
	// Seek follows io.Seeker. libmpv only asks for io.SeekStart. Return
	// ErrUnsupported if seeking is not possible.
	Seek(offset int64, whence int) (int64, error)
	// Size returns the total size. Return ErrUnsupported if unknown.
	Size() (int64, error)
	Close() error
}

// StreamOpener opens the stream behind uri for a protocol registered with
// RegisterStreamProtocol.
type StreamOpener func(uri string) (Stream, error)

var (
	streamMu      sync.RWMutex
	streamOpeners = make(map[uintptr]streamOpenerEntry)
	streams       = make(map[uintptr]Stream)
	streamNextID  atomic.Uintptr
)

type streamOpenerEntry struct {
	handle   uintptr
	protocol string
	open     StreamOpener
}

func initCallbacks() {
	callbacksOnce.Do(func() {
		wakeupCallbackPtr = purego.NewCallback(wakeupBridge)
		streamOpenPtr = purego.NewCallback(streamOpenBridge)
		streamReadPtr = purego.NewCallback(streamReadBridge)
		streamSeekPtr = purego.NewCallback(streamSeekBridge)
		streamSizePtr = purego.NewCallback(streamSizeBridge)
		streamClosePtr = purego.NewCallback(streamCloseBridge)
	})
}

// --- Wakeup callback ---

func wakeupBridge(d uintptr) {
	wakeupMu.RLock()
	cb := wakeupCallbacks[d]
	wakeupMu.RUnlock()
	if cb != nil {
		safeCallback("wakeup", cb)
	}
}

// SetWakeupCallback installs fn to run on a libmpv thread whenever new events
// are queued on h. fn must not call WaitEvent or any other entry point on h;
// it should only signal a goroutine that does. A nil fn clears the callback.
func SetWakeupCallback(h Handle, fn func()) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	if fn == nil {
		return ClearWakeupCallback(h)
	}
	initCallbacks()

	wakeupMu.Lock()
	wakeupCallbacks[h.ptr] = fn
	wakeupMu.Unlock()

	mpvSetWakeupCallback(h.ptr, wakeupCallbackPtr, h.ptr)
	return ErrCodeSuccess
}

// ClearWakeupCallback removes the callback installed on h.
func ClearWakeupCallback(h Handle) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	mpvSetWakeupCallback(h.ptr, 0, 0)

	wakeupMu.Lock()
	delete(wakeupCallbacks, h.ptr)
	wakeupMu.Unlock()
	return ErrCodeSuccess
}

// SetWakeupCallbackRaw passes a C function pointer and userdata straight
// through to mpv_set_wakeup_callback.
func SetWakeupCallbackRaw(h Handle, cb uintptr, d uintptr) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	mpvSetWakeupCallback(h.ptr, cb, d)
	return ErrCodeSuccess
}

// releaseCallbacks drops Go state tied to h before it is destroyed.
func releaseCallbacks(h Handle) {
	wakeupMu.Lock()
	delete(wakeupCallbacks, h.ptr)
	wakeupMu.Unlock()

	streamMu.Lock()
	for id, entry := range streamOpeners {
		if entry.handle == h.ptr {
			delete(streamOpeners, id)
		}
	}
	streamMu.Unlock()
}

// --- Stream protocols ---

// StreamCbAddRO is the raw mpv_stream_cb_add_ro: openFn is a C function
// pointer and userData is passed to it unchanged.
func StreamCbAddRO(h Handle, protocol string, userData uintptr, openFn uintptr) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	return ErrorCode(mpvStreamCbAddRO(h.ptr, protocol, userData, openFn))
}

// RegisterStreamProtocol makes URLs of the form "<protocol>://..." open
// through opener. Registrations live as long as the core.
func RegisterStreamProtocol(h Handle, protocol string, opener StreamOpener) ErrorCode {
	if code := ready(h); code != ErrCodeSuccess {
		return code
	}
	if protocol == "" || opener == nil {
		return ErrCodeInvalidParameter
	}
	initCallbacks()

	id := streamNextID.Add(1)
	streamMu.Lock()
	streamOpeners[id] = streamOpenerEntry{handle: h.ptr, protocol: protocol, open: opener}
	streamMu.Unlock()

	code := ErrorCode(mpvStreamCbAddRO(h.ptr, protocol, id, streamOpenPtr))
	if code < 0 {
		streamMu.Lock()
		delete(streamOpeners, id)
		streamMu.Unlock()
	}
	return code
}

// openErrorCode maps an opener failure to the status libmpv expects. Errors
// that carry no mpv code become ErrCodeLoadingFailed.
func openErrorCode(err error) ErrorCode {
	if code := CodeOf(err); code != ErrCodeGeneric || errors.Is(err, ErrGeneric) {
		return code
	}
	return ErrCodeLoadingFailed
}

func streamOpenBridge(userData uintptr, uri uintptr, info uintptr) int32 {
	if info == 0 {
		return int32(ErrCodeLoadingFailed)
	}
	return openStream(userData, GoStringFromPtr(uri), (*StreamCbInfo)(unsafe.Pointer(info)))
}

// openStream runs the opener registered under userData and fills info with
// the stream trampolines.
func openStream(userData uintptr, url string, info *StreamCbInfo) int32 {
	streamMu.RLock()
	entry, ok := streamOpeners[userData]
	streamMu.RUnlock()
	if !ok || info == nil {
		return int32(ErrCodeLoadingFailed)
	}

	var (
		stream Stream
		err    = ErrLoadingFailed
	)
	safeCallback("stream_open", func() {
		stream, err = entry.open(url)
	})
	if err != nil || stream == nil {
		if err == nil {
			err = ErrLoadingFailed
		}
		Logger().Warn("stream open failed",
			zap.String("protocol", entry.protocol),
			zap.String("uri", url),
			zap.Error(err))
		return int32(openErrorCode(err))
	}

	cookie := streamNextID.Add(1)
	streamMu.Lock()
	streams[cookie] = stream
	streamMu.Unlock()

	fillStreamInfo(info, cookie)
	return int32(ErrCodeSuccess)
}

func fillStreamInfo(si *StreamCbInfo, cookie uintptr) {
	si.Cookie = cookie
	si.ReadFn = streamReadPtr
	si.SeekFn = streamSeekPtr
	si.SizeFn = streamSizePtr
	si.CloseFn = streamClosePtr
}

func lookupStream(cookie uintptr) Stream {
	streamMu.RLock()
	defer streamMu.RUnlock()
	return streams[cookie]
}

// maxEmptyReads bounds how often streamRead retries a Read that returned
// neither data nor an error.
const maxEmptyReads = 100

// streamRead returns bytes read, 0 on EOF and -1 on error, as read_fn must.
func streamRead(s Stream, buf []byte) int64 {
	for range maxEmptyReads {
		n, err := s.Read(buf)
		if n > 0 {
			return int64(n)
		}
		switch {
		case errors.Is(err, io.EOF):
			return 0
		case err != nil:
			return -1
		}
	}
	Logger().Warn("stream read made no progress", zap.Int("attempts", maxEmptyReads))
	return -1
}

func streamReadBridge(cookie uintptr, buf uintptr, nbytes uint64) int64 {
	if buf == 0 {
		return -1
	}
	return readStream(cookie, unsafe.Slice((*byte)(unsafe.Pointer(buf)), nbytes))
}

func readStream(cookie uintptr, dst []byte) int64 {
	s := lookupStream(cookie)
	if s == nil {
		return -1
	}
	if len(dst) == 0 {
		return 0
	}
	result := int64(-1)
	safeCallback("stream_read", func() {
		result = streamRead(s, dst)
	})
	return result
}

func streamSeekBridge(cookie uintptr, offset int64) int64 {
	s := lookupStream(cookie)
	if s == nil {
		return int64(ErrCodeGeneric)
	}
	result := int64(ErrCodeGeneric)
	safeCallback("stream_seek", func() {
		pos, err := s.Seek(offset, io.SeekStart)
		switch {
		case errors.Is(err, ErrUnsupported):
			result = int64(ErrCodeUnsupported)
		case err != nil:
			result = int64(ErrCodeGeneric)
		default:
			result = pos
		}
	})
	return result
}

func streamSizeBridge(cookie uintptr) int64 {
	s := lookupStream(cookie)
	if s == nil {
		return int64(ErrCodeUnsupported)
	}
	result := int64(ErrCodeUnsupported)
	safeCallback("stream_size", func() {
		size, err := s.Size()
		if err == nil {
			result = size
		}
	})
	return result
}

func streamCloseBridge(cookie uintptr) {
	streamMu.Lock()
	s := streams[cookie]
	delete(streams, cookie)
	streamMu.Unlock()
	if s == nil {
		return
	}
	safeCallback("stream_close", func() {
		if err := s.Close(); err != nil {
			Logger().Warn("stream close failed", zap.Error(err))
		}
	})
}

// OpenStreams returns the number of streams libmpv has open through
// RegisterStreamProtocol openers.
func OpenStreams() int {
	streamMu.RLock()
	defer streamMu.RUnlock()
	return len(streams)
}
