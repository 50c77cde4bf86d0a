package scpi

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// EncodeHex encodes b as lowercase hex without separators.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex decodes a hex string, accepting either case. Surrounding
// whitespace is ignored. An empty string decodes to an empty slice.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %d digits", ErrOddHexLength, len(s))
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		var invalid hex.InvalidByteError
		if errors.As(err, &invalid) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidHex, rune(invalid))
		}

		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return b, nil
}
