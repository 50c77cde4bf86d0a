package nautilus

import (
	"context"
	"fmt"

	"github.com/tlembedded/go-nautilus/internal/pool"
)

const (
	// DefaultEEPROMAddress is the bus address of a 24AA01.
	DefaultEEPROMAddress = 0x50
	// DefaultEEPROMPageSize is the write page of a 24AA01.
	DefaultEEPROMPageSize = 8

	// maxEEPROMOffset is the last offset a one-byte word address can reach.
	maxEEPROMOffset = 0xFF
)

// EEPROMConfig describes a small I2C EEPROM with a one-byte word address.
type EEPROMConfig struct {
	Address  uint8
	PageSize int
}

// EEPROMOption is a functional option for EEPROM operations.
type EEPROMOption interface {
	apply(*EEPROMConfig) error
}

type eepromOptFunc func(*EEPROMConfig) error

func (f eepromOptFunc) apply(cfg *EEPROMConfig) error { return f(cfg) }

// WithEEPROMAddress sets the device bus address.
func WithEEPROMAddress(addr uint8) EEPROMOption {
	return eepromOptFunc(func(cfg *EEPROMConfig) error {
		if err := checkAddress(addr); err != nil {
			return err
		}
		cfg.Address = addr

		return nil
	})
}

// WithPageSize sets the device write page size in bytes.
func WithPageSize(size int) EEPROMOption {
	return eepromOptFunc(func(cfg *EEPROMConfig) error {
		if size <= 0 || size > maxEEPROMOffset+1 {
			return fmt.Errorf("%w: page size %d", ErrInvalidArgument, size)
		}
		cfg.PageSize = size

		return nil
	})
}

func newEEPROMConfig(opts []EEPROMOption) (EEPROMConfig, error) {
	cfg := EEPROMConfig{Address: DefaultEEPROMAddress, PageSize: DefaultEEPROMPageSize}
	for _, opt := range opts {
		if err := opt.apply(&cfg); err != nil {
			return EEPROMConfig{}, err
		}
	}

	return cfg, nil
}

// ReadEEPROM reads count bytes starting at offset.
func (c *Client) ReadEEPROM(ctx context.Context, count, offset int, opts ...EEPROMOption) ([]byte, error) {
	cfg, err := newEEPROMConfig(opts)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > maxEEPROMOffset {
		return nil, fmt.Errorf("%w: EEPROM offset %d", ErrInvalidArgument, offset)
	}

	return c.TransferI2C(ctx, cfg.Address, []byte{byte(offset)}, count)
}

// pageChunks splits [offset, offset+n) at page boundaries.
func pageChunks(offset, n, pageSize int) [][2]int {
	var chunks [][2]int

	end := offset + n
	for offset < end {
		pageEnd := (offset/pageSize + 1) * pageSize
		chunk := min(pageEnd, end) - offset

		chunks = append(chunks, [2]int{offset, chunk})
		offset += chunk
	}

	return chunks
}

// WriteEEPROM writes payload starting at offset.
//
// The payload is written one page-bounded chunk at a time, each chunk
// prefixed with its word address. After each acknowledged chunk the device
// address is probed until the internal write cycle ends. If the probes run
// out the write carries on regardless.
//
// It returns false with a nil error as soon as a chunk is not acknowledged;
// later chunks are not attempted.
//
// The word address is a single byte, so the written range must lie within
// the first 256 bytes of the device. A range past that fails with
// ErrInvalidArgument before anything is sent; parts with two-byte word
// addresses need their own framing.
func (c *Client) WriteEEPROM(ctx context.Context, payload []byte, offset int, opts ...EEPROMOption) (bool, error) {
	cfg, err := newEEPROMConfig(opts)
	if err != nil {
		return false, err
	}
	if offset < 0 || offset+len(payload) > maxEEPROMOffset+1 {
		return false, fmt.Errorf("%w: EEPROM range [%d, %d)", ErrInvalidArgument, offset, offset+len(payload))
	}

	index := 0
	for _, ch := range pageChunks(offset, len(payload), cfg.PageSize) {
		start, n := ch[0], ch[1]

		frame := make([]byte, 0, n+1)
		frame = append(frame, byte(start))
		frame = append(frame, payload[index:index+n]...)

		acked, err := c.WriteI2C(ctx, cfg.Address, frame)
		if err != nil {
			return false, err
		}
		if !acked {
			c.logger.Debug("nautilus: eeprom write not acknowledged", "address", cfg.Address, "offset", start)
			return false, nil
		}
		index += n

		if err := c.awaitWriteCycle(ctx, cfg.Address, start); err != nil {
			return false, err
		}
	}

	return true, nil
}

// awaitWriteCycle polls addr until it acknowledges or the attempts run out.
func (c *Client) awaitWriteCycle(ctx context.Context, addr uint8, offset int) error {
	for i := 0; i < c.cfg.ackPollAttempts; i++ {
		ok, err := c.ScanI2C(ctx, addr)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		if err := pool.Sleep(ctx, c.cfg.ackPollInterval); err != nil {
			return err
		}
	}

	c.logger.Warn("nautilus: eeprom did not acknowledge after write",
		"address", addr, "offset", offset, "attempts", c.cfg.ackPollAttempts)

	return nil
}
