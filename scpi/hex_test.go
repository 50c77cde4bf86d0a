package scpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHex(t *testing.T) {
	assert.Equal(t, "00abff10", EncodeHex([]byte{0x00, 0xab, 0xff, 0x10}))
	assert.Equal(t, "", EncodeHex(nil))
}

func TestDecodeHex(t *testing.T) {
	b, err := DecodeHex("00ABff10")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xab, 0xff, 0x10}, b)

	b, err = DecodeHex(" 4142 \r")
	require.NoError(t, err)
	assert.Equal(t, []byte("AB"), b)

	b, err = DecodeHex("")
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestDecodeHex_RoundTrip(t *testing.T) {
	in := make([]byte, 256)
	for i := range in {
		in[i] = byte(i)
	}

	out, err := DecodeHex(EncodeHex(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeHex_Errors(t *testing.T) {
	_, err := DecodeHex("abc")
	require.ErrorIs(t, err, ErrOddHexLength)
	require.ErrorIs(t, err, ErrDecode)

	_, err = DecodeHex("zz")
	require.ErrorIs(t, err, ErrInvalidHex)
	require.ErrorIs(t, err, ErrDecode)
}
