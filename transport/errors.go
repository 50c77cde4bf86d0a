package transport

import "errors"

// Configuration errors, returned before any I/O is attempted.
var (
	ErrUnsupportedScheme = errors.New("transport: URI scheme not recognized")
	ErrInvalidURI        = errors.New("transport: invalid URI")
)

// Medium errors.
var (
	ErrConnect = errors.New("transport: connect failed")
	ErrSend    = errors.New("transport: send failed")
	ErrClosed  = errors.New("transport: connection closed")
	ErrNotOpen = errors.New("transport: not open")
)

// Receive buffer errors.
var (
	ErrReadPending = errors.New("transport: another read is already pending")
	ErrWaitTimeout = errors.New("transport: wait timeout")
)
