package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
)

// NetTransport is a socket transport: a TCP stream or a connected UDP
// datagram socket.
type NetTransport struct {
	base

	kind    Kind
	network string
	addr    string

	connMutex sync.RWMutex
	conn      net.Conn
}

var _ Transport = (*NetTransport)(nil)

// NewStream creates a TCP transport for host:port. No I/O happens until Open.
func NewStream(host string, port int, cfg *Config) *NetTransport {
	return newNetTransport(Stream, "tcp", host, port, cfg)
}

// NewDatagram creates a UDP transport for host:port. Each Send is one
// datagram and each received datagram is appended to the receive buffer.
func NewDatagram(host string, port int, cfg *Config) *NetTransport {
	return newNetTransport(Datagram, "udp", host, port, cfg)
}

// WrapConn creates an already open stream transport over conn, for callers
// that establish the connection themselves (tunnels, net.Pipe in tests).
func WrapConn(conn net.Conn, cfg *Config) *NetTransport {
	t := &NetTransport{
		kind:    Stream,
		network: conn.RemoteAddr().Network(),
		addr:    conn.RemoteAddr().String(),
	}
	t.init(cfg, "conn://"+t.addr)
	_, _ = t.beginOpen()
	_ = t.attach(conn)

	return t
}

func newNetTransport(kind Kind, network, host string, port int, cfg *Config) *NetTransport {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	t := &NetTransport{
		kind:    kind,
		network: network,
		addr:    addr,
	}
	t.init(cfg, network+"://"+addr)

	return t
}

// Kind reports Stream or Datagram.
func (t *NetTransport) Kind() Kind { return t.kind }

// Addr returns the remote "host:port".
func (t *NetTransport) Addr() string { return t.addr }

func (t *NetTransport) String() string { return t.network + "://" + t.addr }

// Open dials the remote end. For TCP it returns once the connection is
// established and disables Nagle's algorithm so commands go out at once.
func (t *NetTransport) Open(ctx context.Context) error {
	ok, err := t.beginOpen()
	if !ok {
		return err
	}

	dialer := net.Dialer{Timeout: t.cfg.connectTimeout}
	conn, err := dialer.DialContext(ctx, t.network, t.addr)
	if err != nil {
		t.state.set(closedState)
		t.logger.Error("transport: connect failed", "error", err)

		return fmt.Errorf("%w: %s: %w", ErrConnect, t.addr, err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}

	if err := t.attach(conn); err != nil {
		return err
	}
	t.logger.Debug("transport: connected", "local", conn.LocalAddr().String())

	return nil
}

func (t *NetTransport) attach(conn net.Conn) error {
	t.connMutex.Lock()
	t.conn = conn
	t.connMutex.Unlock()

	bufSize := t.cfg.readBufferSize
	if t.kind == Datagram {
		bufSize = maxDatagramSize
	}

	return t.finishOpen(conn.Read, func() { t.release(conn) }, bufSize)
}

// release drops conn if it is still the attached connection and closes it.
func (t *NetTransport) release(conn net.Conn) {
	t.connMutex.Lock()
	if t.conn == conn {
		t.conn = nil
	}
	t.connMutex.Unlock()

	_ = conn.Close()
}

func (t *NetTransport) getConn() net.Conn {
	t.connMutex.RLock()
	defer t.connMutex.RUnlock()

	return t.conn
}

// Send writes data with a deadline of the send timeout or the ctx
// deadline, whichever is earlier.
func (t *NetTransport) Send(ctx context.Context, data []byte) error {
	conn := t.getConn()
	if conn == nil || !t.state.isOpened() || t.rx.Err() != nil {
		return t.unusableErr()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := conn.SetWriteDeadline(sendDeadline(ctx, t.cfg.sendTimeout)); err != nil {
		t.metrics.incSendErr()
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	if err := writeAll(conn, data); err != nil {
		t.metrics.incSendErr()
		return fmt.Errorf("%w: %w", ErrSend, err)
	}
	t.metrics.incSend(len(data))

	return nil
}

// Close half-closes a TCP stream, then releases the socket and waits for
// the reader goroutine to exit.
func (t *NetTransport) Close() error {
	if !t.beginClose() {
		return nil
	}

	t.connMutex.Lock()
	conn := t.conn
	t.conn = nil
	t.connMutex.Unlock()

	var closeErr error
	if conn != nil {
		if hc, ok := conn.(interface{ CloseWrite() error }); ok {
			if err := hc.CloseWrite(); err != nil && !errors.Is(err, net.ErrClosed) {
				t.logger.Debug("transport: half-close failed", "error", err)
			}
		}

		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			t.logger.Error("transport: failed to close connection", "error", err)
			closeErr = fmt.Errorf("transport: close %s: %w", t.addr, err)
		}
	}

	t.finishClose()
	t.logger.Debug("transport: closed")

	return closeErr
}
