package scpi

import (
	"errors"
	"fmt"

	"github.com/tlembedded/go-nautilus/transport"
)

var (
	// ErrReadTimeout is returned when no complete reply line arrives in time.
	ErrReadTimeout = fmt.Errorf("scpi: read timed out: %w", transport.ErrWaitTimeout)

	// ErrDecode is the parent of all hex decoding errors.
	ErrDecode = errors.New("scpi: decode failed")
	// ErrOddHexLength is returned for hex strings with an odd number of digits.
	ErrOddHexLength = fmt.Errorf("%w: odd hex length", ErrDecode)
	// ErrInvalidHex is returned for hex strings containing a non-hex digit.
	ErrInvalidHex = fmt.Errorf("%w: invalid hex digit", ErrDecode)
)
