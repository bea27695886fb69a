package rtpstream

import (
	"math/rand/v2"
	"net"
	"time"

	"github.com/pion/rtp"
)

const (
	// TSPacketSize is the MPEG-TS packet size.
	TSPacketSize = 188

	// DefaultPacketsPerDatagram keeps datagrams under a 1500 byte MTU.
	DefaultPacketsPerDatagram = 7

	mp2tClockRate = 90000
)

// Sender packetizes an MPEG-TS byte stream into RTP (RFC 2250) and sends it
// to a fixed address.
type Sender struct {
	conn        net.PacketConn
	addr        net.Addr
	payloadType uint8
	chunk       int

	ssrc  uint32
	seq   uint16
	start time.Time
	buf   []byte
}

// NewSender sends to addr through conn. The sequence number and SSRC start
// at random values.
func NewSender(conn net.PacketConn, addr net.Addr, payloadType uint8) *Sender {
	return &Sender{
		conn:        conn,
		addr:        addr,
		payloadType: payloadType,
		chunk:       DefaultPacketsPerDatagram * TSPacketSize,
		ssrc:        rand.Uint32(),
		seq:         uint16(rand.UintN(1 << 16)),
		start:       time.Now(),
	}
}

// Write sends p as one or more RTP packets. Partial TS packets are sent as
// they are; callers should write whole 188 byte packets.
func (s *Sender) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n := min(len(p), s.chunk)
		if err := s.send(p[:n]); err != nil {
			return written, err
		}
		written += n
		p = p[n:]
	}
	return written, nil
}

func (s *Sender) send(payload []byte) error {
	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    s.payloadType,
			SequenceNumber: s.seq,
			Timestamp:      mediaClock(time.Since(s.start)),
			SSRC:           s.ssrc,
		},
		Payload: payload,
	}
	size := pkt.MarshalSize()
	if cap(s.buf) < size {
		s.buf = make([]byte, size)
	}
	n, err := pkt.MarshalTo(s.buf[:size])
	if err != nil {
		return err
	}
	s.seq++
	_, err = s.conn.WriteTo(s.buf[:n], s.addr)
	return err
}

// mediaClock converts elapsed time to the 90 kHz media clock. The value
// wraps modulo 2^32 as RTP timestamps do.
func mediaClock(elapsed time.Duration) uint32 {
	secs, frac := elapsed/time.Second, elapsed%time.Second
	return uint32(int64(secs)*mp2tClockRate + int64(frac)*mp2tClockRate/int64(time.Second))
}
