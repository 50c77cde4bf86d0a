// Package transport turns an instrument URI into a byte-stream channel.
//
// Three media are supported, selected by the URI scheme:
//
//   - tcp://host[:port] and ip://host[:port]: a TCP stream socket.
//   - udp://host[:port]: a connected UDP socket, one datagram per Send.
//   - serial://device[:baud] and tty://device[:baud]: a serial line.
//
// The default port is 5025 and the default baud rate is 9600; both can be
// changed with WithDefaultPort and WithDefaultBaud.
//
// # Receive path
//
// Every Transport owns a RecvBuffer. A reader goroutine appends whatever the
// medium delivers, and consumers extract framed data with RecvBuffer.WaitFor,
// a timed wait on "the buffer matches a predicate". At most one WaitFor may be
// outstanding per buffer; a second concurrent call fails with ErrReadPending.
// Closing the transport fails any pending wait with ErrClosed.
//
// # Errors
//
// Configuration problems (ErrUnsupportedScheme, ErrInvalidURI) are reported by
// FromURI before any I/O. Open reports ErrConnect, Send reports ErrSend, and
// both report ErrNotOpen or ErrClosed when the medium is not usable.
package transport
