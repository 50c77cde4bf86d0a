package transport

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.bug.st/serial"
)

// SerialTransport is a transport over a local serial device.
type SerialTransport struct {
	base

	path string
	baud int

	// openPort is serial.Open, replaceable in tests.
	openPort func(name string, mode *serial.Mode) (serial.Port, error)

	portMutex sync.RWMutex
	port      serial.Port
}

var _ Transport = (*SerialTransport)(nil)

// NewSerial creates a transport for the device at path. The device is not
// touched until Open.
func NewSerial(path string, baud int, cfg *Config) *SerialTransport {
	t := &SerialTransport{
		path:     path,
		baud:     baud,
		openPort: serial.Open,
	}
	t.init(cfg, "serial://"+path)

	return t
}

// Kind reports Serial.
func (t *SerialTransport) Kind() Kind { return Serial }

// Path returns the device path.
func (t *SerialTransport) Path() string { return t.path }

// BaudRate returns the configured line speed.
func (t *SerialTransport) BaudRate() int { return t.baud }

func (t *SerialTransport) String() string {
	return "serial://" + t.path + ":" + strconv.Itoa(t.baud)
}

// Open opens the device as 8N1 at the configured baud rate.
func (t *SerialTransport) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ok, err := t.beginOpen()
	if !ok {
		return err
	}

	mode := &serial.Mode{
		BaudRate: t.baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := t.openPort(t.path, mode)
	if err != nil {
		t.state.set(closedState)
		t.logger.Error("transport: failed to open serial port", "error", err)

		return fmt.Errorf("%w: %s: %w", ErrConnect, t.path, err)
	}

	// A bounded read lets the reader goroutine observe Close.
	if err := port.SetReadTimeout(t.cfg.serialPollInterval); err != nil {
		_ = port.Close()
		t.state.set(closedState)

		return fmt.Errorf("%w: %s: set read timeout: %w", ErrConnect, t.path, err)
	}

	t.portMutex.Lock()
	t.port = port
	t.portMutex.Unlock()

	release := func() {
		t.portMutex.Lock()
		if t.port == port {
			t.port = nil
		}
		t.portMutex.Unlock()

		_ = port.Close()
	}
	if err := t.finishOpen(port.Read, release, t.cfg.readBufferSize); err != nil {
		return err
	}
	t.logger.Debug("transport: serial port opened", "baud", t.baud)

	return nil
}

func (t *SerialTransport) getPort() serial.Port {
	t.portMutex.RLock()
	defer t.portMutex.RUnlock()

	return t.port
}

// Send writes data to the port. Serial writes carry no deadline; the ctx
// is only checked before writing.
func (t *SerialTransport) Send(ctx context.Context, data []byte) error {
	port := t.getPort()
	if port == nil || !t.state.isOpened() || t.rx.Err() != nil {
		return t.unusableErr()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writeAll(port, data); err != nil {
		t.metrics.incSendErr()
		return fmt.Errorf("%w: %w", ErrSend, err)
	}
	t.metrics.incSend(len(data))

	return nil
}

// Close releases the port and waits for the reader goroutine to exit.
func (t *SerialTransport) Close() error {
	if !t.beginClose() {
		return nil
	}

	t.portMutex.Lock()
	port := t.port
	t.port = nil
	t.portMutex.Unlock()

	var closeErr error
	if port != nil {
		if err := port.Close(); err != nil {
			t.logger.Error("transport: failed to close serial port", "error", err)
			closeErr = fmt.Errorf("transport: close %s: %w", t.path, err)
		}
	}

	t.finishClose()
	t.logger.Debug("transport: closed")

	return closeErr
}
