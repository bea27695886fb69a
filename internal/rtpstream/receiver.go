// Package rtpstream feeds an RTP/MP2T stream received over UDP into libmpv
// through a custom stream protocol.
package rtpstream

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/pion/rtp"
	"go.uber.org/zap"

	"github.com/thesyncim/libgompv/internal/ffi"
)

const (
	// PayloadTypeMP2T is the static RTP payload type for MPEG-2 transport
	// streams (RFC 3551).
	PayloadTypeMP2T uint8 = 33

	// DefaultMaxPacketSize bounds a single datagram.
	DefaultMaxPacketSize = 1500
)

// Options configures a Receiver.
type Options struct {
	// PayloadType is the payload type to accept. nil selects
	// PayloadTypeMP2T.
	PayloadType   *uint8
	MaxPacketSize int
	Logger        *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.PayloadType == nil {
		pt := PayloadTypeMP2T
		o.PayloadType = &pt
	}
	if o.MaxPacketSize <= 0 {
		o.MaxPacketSize = DefaultMaxPacketSize
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Stats counts received packets.
type Stats struct {
	Packets uint64
	Bytes   uint64
	Dropped uint64
}

// Receiver depacketizes RTP from a PacketConn and exposes the payload bytes
// as an ffi.Stream. Out-of-order and duplicate packets are dropped, not
// reordered. It is not seekable and has no known size.
type Receiver struct {
	conn        net.PacketConn
	payloadType uint8
	maxPacket   int
	log         *zap.Logger

	pr *io.PipeReader
	pw *io.PipeWriter

	seqValid bool
	lastSeq  uint16

	packets atomic.Uint64
	bytes   atomic.Uint64
	dropped atomic.Uint64

	closing   atomic.Bool
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

var _ ffi.Stream = (*Receiver)(nil)

// NewReceiver starts reading from conn. The Receiver owns conn and closes it.
func NewReceiver(conn net.PacketConn, opts Options) *Receiver {
	opts = opts.withDefaults()
	pr, pw := io.Pipe()
	r := &Receiver{
		conn:        conn,
		payloadType: *opts.PayloadType,
		maxPacket:   opts.MaxPacketSize,
		log:         opts.Logger,
		pr:          pr,
		pw:          pw,
	}
	r.wg.Add(1)
	go r.readLoop()
	return r
}

func (r *Receiver) readLoop() {
	defer r.wg.Done()

	buf := make([]byte, r.maxPacket)
	var pkt rtp.Packet
	for {
		n, _, err := r.conn.ReadFrom(buf)
		if err != nil {
			if r.closing.Load() || errors.Is(err, net.ErrClosed) {
				r.pw.Close()
			} else {
				r.log.Warn("rtp receive failed", zap.Error(err))
				r.pw.CloseWithError(err)
			}
			return
		}

		if err := pkt.Unmarshal(buf[:n]); err != nil {
			r.drop("malformed", err)
			continue
		}
		if pkt.PayloadType != r.payloadType {
			r.drop("payload type", nil, zap.Uint8("payload_type", pkt.PayloadType))
			continue
		}
		if !r.accept(pkt.SequenceNumber) {
			r.drop("sequence", nil, zap.Uint16("seq", pkt.SequenceNumber), zap.Uint16("last", r.lastSeq))
			continue
		}

		r.packets.Add(1)
		if len(pkt.Payload) == 0 {
			continue
		}
		r.bytes.Add(uint64(len(pkt.Payload)))
		// io.Pipe copies synchronously, so buf can be reused afterwards.
		if _, err := r.pw.Write(pkt.Payload); err != nil {
			return
		}
	}
}

// accept reports whether seq is newer than the last accepted packet, using
// serial number arithmetic so the uint16 wraparound is handled.
func (r *Receiver) accept(seq uint16) bool {
	if !r.seqValid {
		r.seqValid = true
		r.lastSeq = seq
		return true
	}
	if int16(seq-r.lastSeq) <= 0 {
		return false
	}
	r.lastSeq = seq
	return true
}

func (r *Receiver) drop(reason string, err error, fields ...zap.Field) {
	r.dropped.Add(1)
	if ce := r.log.Check(zap.DebugLevel, "rtp packet dropped"); ce != nil {
		fields = append(fields, zap.String("reason", reason))
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		ce.Write(fields...)
	}
}

// Read blocks until payload bytes arrive. It returns io.EOF once the
// receiver is closed.
func (r *Receiver) Read(p []byte) (int, error) {
	n, err := r.pr.Read(p)
	if errors.Is(err, io.ErrClosedPipe) {
		err = io.EOF
	}
	return n, err
}

// Seek always fails: a live stream cannot be repositioned.
func (r *Receiver) Seek(int64, int) (int64, error) {
	return 0, ffi.ErrUnsupported
}

// Size always fails: a live stream has no known length.
func (r *Receiver) Size() (int64, error) {
	return 0, ffi.ErrUnsupported
}

// Close stops the read loop and closes the connection.
func (r *Receiver) Close() error {
	r.closeOnce.Do(func() {
		r.closing.Store(true)
		r.pr.Close()
		r.closeErr = r.conn.Close()
		r.wg.Wait()
	})
	return r.closeErr
}

// Stats returns the packet counters.
func (r *Receiver) Stats() Stats {
	return Stats{
		Packets: r.packets.Load(),
		Bytes:   r.bytes.Load(),
		Dropped: r.dropped.Load(),
	}
}
