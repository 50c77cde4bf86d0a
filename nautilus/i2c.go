package nautilus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tlembedded/go-nautilus/scpi"
)

const (
	// MaxI2CAddress is the highest 7-bit bus address.
	MaxI2CAddress = 0x7F

	ackReply = "ON"
)

// OpenI2C sets the auxiliary I2C bus clock in Hz and enables the bus.
func (c *Client) OpenI2C(ctx context.Context, speed int) error {
	if speed <= 0 {
		return fmt.Errorf("%w: I2C speed %d", ErrInvalidArgument, speed)
	}

	if err := c.eng.Write(ctx, "AUX:IIC:SPEED "+strconv.Itoa(speed)); err != nil {
		return err
	}

	return c.eng.Write(ctx, "AUX:IIC:ENA ON")
}

// CloseI2C disables the auxiliary I2C bus.
func (c *Client) CloseI2C(ctx context.Context) error {
	return c.eng.Write(ctx, "AUX:IIC:ENA OFF")
}

// ReadI2C reads count bytes from the device at addr.
func (c *Client) ReadI2C(ctx context.Context, addr uint8, count int) ([]byte, error) {
	if err := checkAddress(addr); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidArgument, count)
	}

	reply, err := c.eng.Query(ctx, fmt.Sprintf("AUX:IIC:READ %d, %d", addr, count))
	if err != nil {
		return nil, err
	}

	return scpi.DecodeHex(reply)
}

// WriteI2C writes payload to the device at addr and reports whether the
// device acknowledged.
func (c *Client) WriteI2C(ctx context.Context, addr uint8, payload []byte) (bool, error) {
	if err := checkAddress(addr); err != nil {
		return false, err
	}

	reply, err := c.eng.Query(ctx, fmt.Sprintf("AUX:IIC:WRITE %d, %s", addr, scpi.EncodeHex(payload)))
	if err != nil {
		return false, err
	}

	return reply == ackReply, nil
}

// TransferI2C writes payload to the device at addr, then reads count
// bytes back in the same transaction.
func (c *Client) TransferI2C(ctx context.Context, addr uint8, payload []byte, count int) ([]byte, error) {
	if err := checkAddress(addr); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", ErrInvalidArgument, count)
	}

	reply, err := c.eng.Query(ctx, fmt.Sprintf("AUX:IIC:TRAN %d, %s, %d", addr, scpi.EncodeHex(payload), count))
	if err != nil {
		return nil, err
	}

	return scpi.DecodeHex(reply)
}

// ScanI2C reports whether a device acknowledges addr.
func (c *Client) ScanI2C(ctx context.Context, addr uint8) (bool, error) {
	if err := checkAddress(addr); err != nil {
		return false, err
	}

	reply, err := c.eng.Query(ctx, fmt.Sprintf("AUX:IIC:SCAN %d", addr))
	if err != nil {
		return false, err
	}

	return reply == ackReply, nil
}

// ScanAllI2C probes every 7-bit address and returns the ones that answer,
// in ascending order.
func (c *Client) ScanAllI2C(ctx context.Context) ([]uint8, error) {
	found := []uint8{}
	for addr := 0; addr <= MaxI2CAddress; addr++ {
		ok, err := c.ScanI2C(ctx, uint8(addr))
		if err != nil {
			return nil, err
		}
		if ok {
			found = append(found, uint8(addr))
		}
	}

	return found, nil
}

func checkAddress(addr uint8) error {
	if addr > MaxI2CAddress {
		return fmt.Errorf("%w: I2C address 0x%02x", ErrInvalidArgument, addr)
	}

	return nil
}
