package parodus

import (
	"encoding/binary"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/sagernet/sing/common/bufio"
)

// sendTimeout is the fixed transport-level send timeout.
const sendTimeout = 2 * time.Second

// Socket is the minimal push/pull transport abstraction the core consumes:
// a connection-oriented datagram pipe with one-way push/pull semantics,
// per-operation timeouts, and a bind/connect endpoint URL scheme. The core
// never reaches past this interface into a concrete transport.
type Socket interface {
	// Send writes data with the transport's fixed send timeout.
	Send(data []byte) error
	// Receive blocks for up to the configured keepalive/receive timeout and
	// returns the next frame, or ErrTimedOut, or a transport error.
	Receive() ([]byte, error)
	// Shutdown is idempotent; it closes the underlying connection(s) if open.
	Shutdown()
}

// netSocket is the one concrete Socket implementation this repository
// ships, built directly on net.Conn rather than introducing a socket
// library dependency.
//
// A bound (pull) netSocket fans in frames from every peer that connects to
// it — the broker's push connection and the instance's own self-wake
// connection both land on the same bound socket, matching nanomsg's
// PUSH/PULL pipeline protocol. A dialed (push) netSocket has exactly one
// outbound connection.
type netSocket struct {
	// push side
	conn net.Conn

	// pull side
	listener    net.Listener
	recvTimeout time.Duration
	frames      chan []byte
	fatal       chan error
	closeOnce   sync.Once
	closeCh     chan struct{}

	peersMu sync.Mutex
	peers   map[net.Conn]struct{}
}

func stripScheme(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[i+3:]
	}
	return url
}

// connectReceiver creates a pull socket: binds url and starts accepting
// peer connections in the background, fanning their frames into a single
// channel.
func connectReceiver(url string, keepaliveSecs int) (*netSocket, *Error) {
	if url == "" {
		return nil, &Error{Code: CodeInitConnect, Extra: ExtraErrInfo{ErrDetail: "bind: nil url", OSErr: ErrSockNullURL}}
	}
	ln, err := net.Listen("tcp", stripScheme(url))
	if err != nil {
		return nil, &Error{Code: classifyConnectErr(err), Extra: ExtraErrInfo{ErrDetail: "bind", OSErr: err}}
	}
	s := &netSocket{
		listener: ln,
		frames:   make(chan []byte, 16),
		fatal:    make(chan error, 1),
		closeCh:  make(chan struct{}),
		peers:    make(map[net.Conn]struct{}),
	}
	if keepaliveSecs > 0 {
		s.recvTimeout = time.Duration(keepaliveSecs) * time.Second
	}
	go s.acceptLoop()
	return s, nil
}

// connectSender creates a push socket: dials url with a fixed 2000ms send
// timeout.
func connectSender(url string) (*netSocket, *Error) {
	if url == "" {
		return nil, &Error{Code: CodeInitConnect, Extra: ExtraErrInfo{ErrDetail: "connect: nil url", OSErr: ErrSockNullURL}}
	}
	conn, err := net.DialTimeout("tcp", stripScheme(url), sendTimeout)
	if err != nil {
		return nil, &Error{Code: classifyConnectErr(err), Extra: ExtraErrInfo{ErrDetail: "connect", OSErr: err}}
	}
	return &netSocket{conn: conn}, nil
}

// classifyConnectErr maps an OS error to INIT_CFG for EINVAL and
// INIT_CONNECT otherwise.
func classifyConnectErr(err error) Code {
	if isEINVAL(err) {
		return CodeInitCfg
	}
	return CodeInitConnect
}

// boundAddr returns the scheme-qualified address a bound socket is actually
// listening on — the resolved counterpart of a bind URL that named an
// ephemeral port (":0").
func (s *netSocket) boundAddr() string {
	return "tcp://" + s.listener.Addr().String()
}

// acceptLoop accepts every peer that connects to a bound socket and reads
// its frames into s.frames. A single disconnecting peer does not end the
// socket (other peers, or future ones, may still arrive); only the
// listener itself failing is fatal.
func (s *netSocket) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case s.fatal <- ErrSockRecv:
			default:
			}
			return
		}
		s.peersMu.Lock()
		s.peers[conn] = struct{}{}
		s.peersMu.Unlock()
		go s.readConn(conn)
	}
}

func (s *netSocket) readConn(conn net.Conn) {
	defer func() {
		conn.Close()
		s.peersMu.Lock()
		delete(s.peers, conn)
		s.peersMu.Unlock()
	}()
	for {
		var hdr [4]byte
		if _, err := io.ReadFull(conn, hdr[:]); err != nil {
			return
		}
		n := binary.BigEndian.Uint32(hdr[:])
		buf := make([]byte, n)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		select {
		case s.frames <- buf:
		case <-s.closeCh:
			return
		}
	}
}

// Send writes one length-prefixed frame: a 4-byte big-endian length header
// followed by the payload, using sagernet/sing's vectorised writer when the
// connection supports it.
func (s *netSocket) Send(data []byte) error {
	if s.conn == nil {
		return ErrSockSend
	}
	s.conn.SetWriteDeadline(time.Now().Add(sendTimeout))
	defer s.conn.SetWriteDeadline(time.Time{})

	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(data)))

	if bw, ok := bufio.CreateVectorisedWriter(s.conn); ok {
		vec := [][]byte{hdr[:], data}
		n, err := bufio.WriteVectorised(bw, vec)
		if err != nil {
			return ErrSockSend
		}
		if n != len(hdr)+len(data) {
			return ErrSockByteCnt
		}
		return nil
	}

	buf := make([]byte, 0, len(hdr)+len(data))
	buf = append(buf, hdr[:]...)
	buf = append(buf, data...)
	n, err := s.conn.Write(buf)
	if err != nil {
		return ErrSockSend
	}
	if n != len(buf) {
		return ErrSockByteCnt
	}
	return nil
}

// Receive blocks up to recvTimeout (if set) for the next frame from any
// connected peer. A deadline expiry surfaces as ErrTimedOut, distinctly
// from any other transport error.
func (s *netSocket) Receive() ([]byte, error) {
	if s.listener == nil {
		return nil, ErrSockRecv
	}

	var timeoutCh <-chan time.Time
	if s.recvTimeout > 0 {
		timer := time.NewTimer(s.recvTimeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case buf := <-s.frames:
		return buf, nil
	case err := <-s.fatal:
		return nil, err
	case <-timeoutCh:
		return nil, ErrTimedOut
	}
}

// Shutdown idempotently closes the listener, every currently accepted peer
// connection, and stops the accept loop.
func (s *netSocket) Shutdown() {
	s.closeOnce.Do(func() {
		if s.closeCh != nil {
			close(s.closeCh)
		}
	})
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.listener != nil {
		s.listener.Close()
		s.listener = nil
	}
	s.peersMu.Lock()
	for conn := range s.peers {
		conn.Close()
	}
	s.peersMu.Unlock()
}
