package transport

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// newTestConfig creates a Config with short timeouts suitable for tests.
func newTestConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()

	defaults := []Option{
		WithConnectTimeout(time.Second),
		WithSendTimeout(time.Second),
		WithSerialPollInterval(10 * time.Millisecond),
	}

	cfg, err := NewConfig(append(defaults, opts...)...)
	require.NoError(t, err)

	return cfg
}

// newPipeTransport wraps the local end of net.Pipe(). The remote end
// plays the instrument.
func newPipeTransport(t *testing.T) (*NetTransport, net.Conn) {
	t.Helper()

	local, remote := net.Pipe()
	tr := WrapConn(local, newTestConfig(t))
	t.Cleanup(func() {
		_ = tr.Close()
		_ = remote.Close()
	})

	return tr, remote
}

var errPortClosed = errors.New("fake port closed")

// fakePort is an in-memory serial.Port. Only the methods used by
// SerialTransport are implemented.
type fakePort struct {
	serial.Port

	mu          sync.Mutex
	written     []byte
	readTimeout time.Duration
	closed      bool

	incoming chan []byte
	done     chan struct{}
}

func newFakePort() *fakePort {
	return &fakePort{
		incoming: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	timeout := p.readTimeout
	p.mu.Unlock()

	select {
	case data := <-p.incoming:
		return copy(b, data), nil
	case <-p.done:
		return 0, errPortClosed
	case <-time.After(timeout):
		return 0, nil
	}
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.written = append(p.written, b...)

	return len(b), nil
}

func (p *fakePort) SetReadTimeout(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.readTimeout = d

	return nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.done)
	}

	return nil
}

func (p *fakePort) Written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]byte(nil), p.written...)
}

func (p *fakePort) ReadTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.readTimeout
}
