package rtpstream

import (
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/thesyncim/libgompv/internal/ffi"
)

// Scheme is the stream protocol registered with libmpv.
const Scheme = "gortp"

// Source maps gortp://<session> URLs to pending connections. Each session
// can be opened once; the resulting Receiver owns the connection.
type Source struct {
	opts Options

	mu       sync.Mutex
	sessions map[uuid.UUID]net.PacketConn
}

// NewSource creates an empty Source whose receivers use opts.
func NewSource(opts Options) *Source {
	return &Source{
		opts:     opts,
		sessions: make(map[uuid.UUID]net.PacketConn),
	}
}

// Add registers conn under a new session and returns the URL to load.
func (s *Source) Add(conn net.PacketConn) string {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = conn
	s.mu.Unlock()
	return URI(id)
}

// Remove forgets a session that was never opened and closes its connection.
func (s *Source) Remove(uri string) error {
	id, err := ParseURI(uri)
	if err != nil {
		return err
	}
	s.mu.Lock()
	conn, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return conn.Close()
}

// Pending returns the number of sessions not yet opened.
func (s *Source) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Open implements ffi.StreamOpener.
func (s *Source) Open(uri string) (ffi.Stream, error) {
	id, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	conn, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown session %s", ffi.ErrLoadingFailed, id)
	}
	return NewReceiver(conn, s.opts), nil
}

// Register installs the gortp protocol on h.
func (s *Source) Register(h ffi.Handle) error {
	return ffi.OpError("register "+Scheme, ffi.RegisterStreamProtocol(h, Scheme, s.Open))
}

// Opener wraps a single connection: it returns the URL to load and the opener
// to register for Scheme.
func Opener(conn net.PacketConn, opts Options) (string, ffi.StreamOpener) {
	src := NewSource(opts)
	return src.Add(conn), src.Open
}

// URI formats a session URL.
func URI(id uuid.UUID) string {
	return Scheme + "://" + id.String()
}

// ParseURI extracts the session id from a gortp:// URL.
func ParseURI(uri string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(uri, Scheme+"://")
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: not a %s URL: %q", ffi.ErrInvalidParameter, Scheme, uri)
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: session id: %w", ffi.ErrInvalidParameter, err)
	}
	return id, nil
}
