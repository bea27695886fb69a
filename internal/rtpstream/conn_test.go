package rtpstream

import (
	"net"
	"os"
	"sync"
	"time"
)

type memAddr string

func (a memAddr) Network() string { return "mem" }
func (a memAddr) String() string  { return string(a) }

// memConn is an in-memory net.PacketConn. Datagrams written to it with
// WriteTo are delivered to the peer's ReadFrom.
type memConn struct {
	local memAddr
	in    chan []byte
	peer  *memConn

	closeOnce sync.Once
	closed    chan struct{}
}

func memPipe() (*memConn, *memConn) {
	a := &memConn{local: "a", in: make(chan []byte, 64), closed: make(chan struct{})}
	b := &memConn{local: "b", in: make(chan []byte, 64), closed: make(chan struct{})}
	a.peer, b.peer = b, a
	return a, b
}

func (c *memConn) ReadFrom(p []byte) (int, net.Addr, error) {
	select {
	case <-c.closed:
		return 0, nil, net.ErrClosed
	case d := <-c.in:
		return copy(p, d), c.peer.local, nil
	}
}

func (c *memConn) WriteTo(p []byte, _ net.Addr) (int, error) {
	select {
	case <-c.closed:
		return 0, net.ErrClosed
	case c.peer.in <- append([]byte(nil), p...):
		return len(p), nil
	}
}

func (c *memConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *memConn) LocalAddr() net.Addr              { return c.local }
func (c *memConn) SetDeadline(time.Time) error      { return os.ErrNoDeadline }
func (c *memConn) SetReadDeadline(time.Time) error  { return os.ErrNoDeadline }
func (c *memConn) SetWriteDeadline(time.Time) error { return os.ErrNoDeadline }
