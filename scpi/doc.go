// Package scpi implements the line-oriented request/response engine used to
// talk to SCPI-like instruments over a transport.
//
// A command is ASCII text terminated by "\n". A reply is a single line
// terminated by "\n", returned with surrounding whitespace trimmed. The
// Engine issues exactly one Send per Write and consumes exactly one line per
// Read; Query is one Write followed by one Read.
//
//	eng, err := scpi.Dial(ctx, "tcp://10.0.0.5", scpi.WithTimeout(500*time.Millisecond))
//	if err != nil {
//		return err
//	}
//	defer eng.Close()
//
//	idn, err := eng.Identity(ctx)
//
// # Timeouts
//
// Each Read waits at most the engine timeout (1000 ms by default) for a
// complete line and fails with ErrReadTimeout otherwise. A line arriving
// after a timed-out Read stays buffered and is returned by the next Read.
//
// # Concurrency
//
// An Engine does not serialize callers. Operations on one Engine must be
// issued sequentially; a Read started while another is pending fails with
// transport.ErrReadPending.
//
// # Hex payloads
//
// Binary data tunneled through text commands is carried as lowercase hex,
// two characters per byte. EncodeHex and DecodeHex convert between the two.
package scpi
