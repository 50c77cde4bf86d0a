package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func newFakeSerial(t *testing.T, port *fakePort) (*SerialTransport, *serial.Mode) {
	t.Helper()

	var gotMode serial.Mode
	tr := NewSerial("/dev/ttyFAKE0", 115200, newTestConfig(t))
	tr.openPort = func(name string, mode *serial.Mode) (serial.Port, error) {
		assert.Equal(t, "/dev/ttyFAKE0", name)
		gotMode = *mode

		return port, nil
	}
	t.Cleanup(func() { _ = tr.Close() })

	return tr, &gotMode
}

func TestSerialTransport_OpenSendReceive(t *testing.T) {
	port := newFakePort()
	tr, mode := newFakeSerial(t, port)

	assert.Equal(t, Serial, tr.Kind())
	assert.Equal(t, "serial:///dev/ttyFAKE0:115200", tr.String())

	require.NoError(t, tr.Open(context.Background()))

	assert.Equal(t, 115200, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, 10*time.Millisecond, port.ReadTimeout())

	require.NoError(t, tr.Send(context.Background(), []byte("*IDN?\n")))
	assert.Equal(t, "*IDN?\n", string(port.Written()))

	port.incoming <- []byte("TL Embedded, ")
	port.incoming <- []byte("Nautilus, 1, v1.2\n")

	frame, err := tr.Receiver().WaitFor(context.Background(), time.Second, lineMatch)
	require.NoError(t, err)
	assert.Equal(t, "TL Embedded, Nautilus, 1, v1.2", string(frame))
}

func TestSerialTransport_CloseFailsPendingWait(t *testing.T) {
	port := newFakePort()
	tr, _ := newFakeSerial(t, port)
	require.NoError(t, tr.Open(context.Background()))

	errCh := make(chan error, 1)
	go func() {
		_, err := tr.Receiver().WaitFor(context.Background(), 5*time.Second, lineMatch)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return tr.Receiver().waiting.Load() }, time.Second, time.Millisecond)
	require.NoError(t, tr.Close())

	require.ErrorIs(t, <-errCh, ErrClosed)
	require.ErrorIs(t, tr.Send(context.Background(), []byte("x")), ErrClosed)
}

func TestSerialTransport_OpenFailure(t *testing.T) {
	tr := NewSerial("/dev/missing", DefaultBaudRate, newTestConfig(t))
	tr.openPort = func(string, *serial.Mode) (serial.Port, error) {
		return nil, errors.New("no such device")
	}

	err := tr.Open(context.Background())
	require.ErrorIs(t, err, ErrConnect)
	require.ErrorIs(t, tr.Send(context.Background(), []byte("x")), ErrNotOpen)
}

func TestSerialTransport_CloseWhileOpening(t *testing.T) {
	port := newFakePort()
	release := make(chan struct{})

	tr := NewSerial("/dev/ttyFAKE0", 9600, newTestConfig(t))
	tr.openPort = func(string, *serial.Mode) (serial.Port, error) {
		<-release
		return port, nil
	}

	openErr := make(chan error, 1)
	go func() { openErr <- tr.Open(context.Background()) }()

	require.Eventually(t, func() bool { return tr.state.get() == openingState },
		time.Second, time.Millisecond)
	require.NoError(t, tr.Close())
	close(release)

	select {
	case err := <-openErr:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Open did not return")
	}

	port.mu.Lock()
	closed := port.closed
	port.mu.Unlock()
	assert.True(t, closed)
	assert.Nil(t, tr.getPort())
	assert.Equal(t, closedState, tr.state.get())
	assert.Equal(t, int64(0), tr.Metrics().OpenCount.Value())

	require.ErrorIs(t, tr.Send(context.Background(), []byte("x")), ErrClosed)
}
