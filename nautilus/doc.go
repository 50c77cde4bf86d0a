// Package nautilus is a client for the TL Embedded Nautilus instrument.
//
// The instrument speaks a SCPI-like line protocol over TCP, UDP or a serial
// line; see package scpi for the engine and package transport for the
// supported URIs. The default URI is tcp://nautilus.local.
//
//	c, err := nautilus.New("serial:///dev/ttyACM0")
//	if err != nil {
//		return err
//	}
//	if err := c.Open(ctx); err != nil {
//		return err
//	}
//	defer c.Close(ctx)
//
// Open checks the identity reply and fails with ErrNotFound when the
// remote end is not a Nautilus; the transport is closed again in that case.
//
// # Auxiliary serial port
//
// Bytes received by the instrument's auxiliary UART are fetched in hex
// chunks and kept in a client-side accumulation buffer. ReadSerialLine and
// ReadSerialBytes poll until their condition is met or the timeout passes.
// A timeout is a normal result, not an error.
//
// # Auxiliary I2C bus
//
// WriteEEPROM splits a payload along the device's page boundaries, writes
// one page-bounded chunk per transaction and polls the device address until
// it acknowledges again before writing the next chunk. A NAK stops the
// write and is reported as false with a nil error.
//
// A Client is not safe for concurrent use.
package nautilus
