package nautilus

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tlembedded/go-nautilus/internal/pool"
	"github.com/tlembedded/go-nautilus/scpi"
)

// OpenSerial configures the auxiliary UART for baud and enables it.
// Bytes left in the accumulation buffer are discarded.
func (c *Client) OpenSerial(ctx context.Context, baud int) error {
	if baud <= 0 {
		return fmt.Errorf("%w: baud rate %d", ErrInvalidArgument, baud)
	}

	if err := c.eng.Write(ctx, "AUX:SER:BAUD "+strconv.Itoa(baud)); err != nil {
		return err
	}
	if err := c.eng.Write(ctx, "AUX:SER:ENA ON"); err != nil {
		return err
	}
	c.serialBuf = nil

	return nil
}

// CloseSerial disables the auxiliary UART.
func (c *Client) CloseSerial(ctx context.Context) error {
	return c.eng.Write(ctx, "AUX:SER:ENA OFF")
}

// SerialRemaining returns the number of received bytes still held by the
// instrument.
func (c *Client) SerialRemaining(ctx context.Context) (int, error) {
	reply, err := c.eng.Query(ctx, "AUX:SER:READ?")
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(reply)
	if err != nil {
		return 0, fmt.Errorf("%w: AUX:SER:READ? reply %q", scpi.ErrDecode, reply)
	}

	return n, nil
}

// WriteSerial transmits payload on the auxiliary UART.
func (c *Client) WriteSerial(ctx context.Context, payload []byte) error {
	return c.eng.Write(ctx, "AUX:SER:WRITE "+scpi.EncodeHex(payload))
}

// SetDirPin configures the RS-485 direction pin: disabled, or driven
// while transmitting either high or low.
func (c *Client) SetDirPin(ctx context.Context, enable, activeHigh bool) error {
	mode := "OFF"
	if enable {
		mode = "NTX"
		if activeHigh {
			mode = "TX"
		}
	}

	return c.eng.Write(ctx, "AUX:SER:DIR "+mode)
}

// SerialBuffered returns the number of bytes in the accumulation buffer.
func (c *Client) SerialBuffered() int { return len(c.serialBuf) }

// fetchSerial appends the next chunk held by the instrument.
func (c *Client) fetchSerial(ctx context.Context) error {
	reply, err := c.eng.Query(ctx, "AUX:SER:READ "+strconv.Itoa(serialChunkSize))
	if err != nil {
		return err
	}

	chunk, err := scpi.DecodeHex(reply)
	if err != nil {
		return err
	}
	c.serialBuf = append(c.serialBuf, chunk...)

	return nil
}

// ReadSerialLine returns the bytes before the first delim received on the
// auxiliary UART, consuming the delimiter. Bytes after it stay buffered for
// later reads. An empty delim means "\n".
//
// At least one fetch is made. If no delimiter has arrived once timeout has
// elapsed, ok is false and the buffered bytes are kept.
func (c *Client) ReadSerialLine(ctx context.Context, delim string, timeout time.Duration) (line string, ok bool, err error) {
	if delim == "" {
		delim = "\n"
	}
	sep := []byte(delim)

	start := time.Now()
	for {
		if err := c.fetchSerial(ctx); err != nil {
			return "", false, err
		}

		if idx := bytes.Index(c.serialBuf, sep); idx >= 0 {
			line = string(c.serialBuf[:idx])
			c.serialBuf = c.serialBuf[idx+len(sep):]

			return line, true, nil
		}

		if time.Since(start) > timeout {
			c.logger.Debug("nautilus: serial line read timed out", "buffered", len(c.serialBuf))
			return "", false, nil
		}

		if err := pool.Sleep(ctx, c.cfg.serialPollInterval); err != nil {
			return "", false, err
		}
	}
}

// ReadSerialBytes returns exactly count bytes received on the auxiliary
// UART. If they have not all arrived once timeout has elapsed, it returns
// everything buffered so far, possibly nothing, and empties the buffer.
func (c *Client) ReadSerialBytes(ctx context.Context, count int, timeout time.Duration) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidArgument, count)
	}

	start := time.Now()
	for {
		if err := c.fetchSerial(ctx); err != nil {
			return nil, err
		}

		if len(c.serialBuf) >= count {
			data := bytes.Clone(c.serialBuf[:count])
			c.serialBuf = c.serialBuf[count:]

			return nonNil(data), nil
		}

		if time.Since(start) > timeout {
			data := c.serialBuf
			c.serialBuf = nil
			c.logger.Debug("nautilus: serial byte read timed out", "want", count, "got", len(data))

			return nonNil(data), nil
		}

		if err := pool.Sleep(ctx, c.cfg.serialPollInterval); err != nil {
			return nil, err
		}
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}

	return b
}
