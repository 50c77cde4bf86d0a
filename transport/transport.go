package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tlembedded/go-nautilus/logger"
)

// Kind identifies the medium behind a Transport.
type Kind int

const (
	Stream Kind = iota
	Datagram
	Serial
)

func (k Kind) String() string {
	switch k {
	case Stream:
		return "stream"
	case Datagram:
		return "datagram"
	case Serial:
		return "serial"
	default:
		return "unknown"
	}
}

// Transport is a byte-stream endpoint to an instrument.
//
// Implementations are safe for one sender and one receive-buffer consumer
// running concurrently with the internal reader goroutine.
type Transport interface {
	// Open establishes the medium. Opening an open transport is a no-op.
	Open(ctx context.Context) error
	// Close shuts the medium down and fails any pending receive wait
	// with ErrClosed. Closing a closed transport is a no-op.
	Close() error
	// Send writes data, returning once the medium has accepted all of it.
	Send(ctx context.Context, data []byte) error
	// Receiver returns the buffer fed by the medium.
	Receiver() *RecvBuffer
	// Kind reports the medium variant.
	Kind() Kind
	// Metrics returns the transport counters.
	Metrics() *Metrics
	// String describes the endpoint, e.g. "tcp://10.0.0.5:5025".
	String() string
}

// base carries the state shared by all variants.
type base struct {
	cfg     *Config
	logger  logger.Logger
	rx      *RecvBuffer
	metrics *Metrics

	state    atomicOpState
	stopping atomic.Bool
	wg       sync.WaitGroup
}

func (b *base) init(cfg *Config, name string) {
	b.cfg = cfg
	b.logger = cfg.logger.With("transport", name)
	b.rx = NewRecvBuffer()
	b.metrics = NewMetrics()
}

func (b *base) Receiver() *RecvBuffer { return b.rx }

func (b *base) Metrics() *Metrics { return b.metrics }

// beginOpen moves to Opening. It reports false when the transport is
// already open or busy opening/closing.
func (b *base) beginOpen() (bool, error) {
	if b.state.isOpened() {
		return false, nil
	}
	if !b.state.toOpening() {
		return false, fmt.Errorf("transport: cannot open in state %s", b.state.String())
	}

	b.rx.Reset()
	b.stopping.Store(false)

	return true, nil
}

// finishOpen starts the reader over a freshly opened medium. If Close ran
// while the medium was being opened, release is called to drop the medium
// and ErrClosed is returned.
func (b *base) finishOpen(read func([]byte) (int, error), release func(), bufSize int) error {
	b.wg.Add(1)
	go b.readLoop(read, bufSize)

	if !b.state.toOpened() {
		b.stopping.Store(true)
		release()
		b.wg.Wait()
		b.logger.Debug("transport: closed while opening")

		return fmt.Errorf("%w: closed while opening", ErrClosed)
	}
	b.metrics.OpenCount.Inc()

	return nil
}

// beginClose stops the reader and fails pending waits. It reports false
// when there is nothing to close.
func (b *base) beginClose() bool {
	if !b.state.toClosing() {
		return false
	}

	b.stopping.Store(true)
	b.rx.Fail(ErrClosed)

	return true
}

func (b *base) finishClose() {
	b.wg.Wait()
	b.state.toClosed()
}

// unusableErr picks the error for I/O attempted without a live medium.
func (b *base) unusableErr() error {
	if err := b.rx.Err(); err != nil {
		return err
	}

	return ErrNotOpen
}

// readLoop appends everything the medium delivers until it fails or the
// transport is closed.
func (b *base) readLoop(read func([]byte) (int, error), bufSize int) {
	defer b.wg.Done()

	buf := make([]byte, bufSize)
	for !b.stopping.Load() {
		n, err := read(buf)
		if n > 0 {
			b.metrics.addRecv(n)
			b.rx.Append(buf[:n])
		}

		if err == nil {
			continue
		}

		if b.stopping.Load() {
			return
		}

		if errors.Is(err, io.EOF) {
			b.logger.Info("transport: remote closed the connection")
		} else {
			b.logger.Warn("transport: receive failed", "error", err)
		}
		b.rx.Fail(fmt.Errorf("%w: %w", ErrClosed, err))

		return
	}
}

// sendDeadline returns the earlier of the ctx deadline and now+timeout.
func sendDeadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	return deadline
}

// writeAll writes all bytes in data to w.
func writeAll(w io.Writer, data []byte) error {
	for written := 0; written < len(data); {
		n, err := w.Write(data[written:])
		written += n

		if err != nil {
			return err
		}
	}

	return nil
}
