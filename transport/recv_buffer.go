package transport

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tlembedded/go-nautilus/internal/pool"
)

// MatchFunc inspects the buffered bytes and reports a frame.
//
// It returns end < 0 when buf holds no complete frame. Otherwise buf[:end]
// is handed to the waiter and buf[next:] stays buffered; next >= end.
type MatchFunc func(buf []byte) (end, next int)

// DelimiterMatch frames on the first occurrence of delim, which is consumed
// but not returned.
func DelimiterMatch(delim []byte) MatchFunc {
	return func(buf []byte) (int, int) {
		idx := bytes.Index(buf, delim)
		if idx < 0 {
			return -1, 0
		}

		return idx, idx + len(delim)
	}
}

// RecvBuffer is the append-only receive buffer of a transport.
//
// The medium appends with Append; a single consumer extracts frames with
// WaitFor. Waiters are woken by closing the notify channel, which Append
// replaces on every call.
type RecvBuffer struct {
	mu     sync.Mutex
	buf    []byte
	notify chan struct{}
	err    error

	waiting atomic.Bool
}

// NewRecvBuffer returns an empty buffer.
func NewRecvBuffer() *RecvBuffer {
	return &RecvBuffer{notify: make(chan struct{})}
}

// Append adds p to the tail and wakes the pending waiter, if any.
// Data arriving after Fail is dropped.
func (b *RecvBuffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}

	b.mu.Lock()
	if b.err != nil {
		b.mu.Unlock()
		return
	}
	b.buf = append(b.buf, p...)
	b.wakeLocked()
	b.mu.Unlock()
}

// Fail marks the buffer unusable. The pending waiter and every later
// WaitFor return err. Only the first error is kept.
func (b *RecvBuffer) Fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.err != nil {
		return
	}
	b.err = err
	b.wakeLocked()
}

// Reset discards buffered bytes and clears a previous failure.
func (b *RecvBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.buf = nil
	b.err = nil
}

// Err returns the failure recorded by Fail, if any.
func (b *RecvBuffer) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.err
}

// Len returns the number of buffered bytes.
func (b *RecvBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.buf)
}

// WaitFor returns the first frame reported by match.
//
// If the buffer already holds a frame it returns at once. Otherwise it
// waits for new data, re-scanning on every Append, until a frame shows up,
// the timeout elapses (ErrWaitTimeout), ctx ends, or the buffer fails.
// A timed-out wait leaves nothing registered, so data arriving later stays
// in the buffer for the next call.
//
// Only one WaitFor may run at a time; a concurrent call fails with
// ErrReadPending.
func (b *RecvBuffer) WaitFor(ctx context.Context, timeout time.Duration, match MatchFunc) ([]byte, error) {
	if !b.waiting.CompareAndSwap(false, true) {
		return nil, ErrReadPending
	}
	defer b.waiting.Store(false)

	frame, notify, err := b.extract(match)
	if err != nil || notify == nil {
		return frame, err
	}

	if timeout <= 0 {
		return nil, ErrWaitTimeout
	}

	timer := pool.GetTimer(timeout)
	defer pool.PutTimer(timer)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timer.C:
			return nil, ErrWaitTimeout

		case <-notify:
			frame, notify, err = b.extract(match)
			if err != nil || notify == nil {
				return frame, err
			}
		}
	}
}

// extract returns a frame, or the channel to wait on when there is none.
func (b *RecvBuffer) extract(match MatchFunc) ([]byte, <-chan struct{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.err != nil {
		return nil, nil, b.err
	}

	end, next := match(b.buf)
	if end < 0 {
		return nil, b.notify, nil
	}

	frame := bytes.Clone(b.buf[:end])
	if frame == nil {
		frame = []byte{}
	}
	b.buf = append(b.buf[:0], b.buf[next:]...)

	return frame, nil, nil
}

func (b *RecvBuffer) wakeLocked() {
	close(b.notify)
	b.notify = make(chan struct{})
}
