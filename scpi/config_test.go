package scpi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlembedded/go-nautilus/logger"
	"github.com/tlembedded/go-nautilus/transport"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, cfg.Timeout())
	assert.NotNil(t, cfg.GetLogger())
	assert.Empty(t, cfg.TransportOptions())
}

func TestNewConfig_WithOptions(t *testing.T) {
	l := logger.NewMockLogger()
	cfg, err := NewConfig(
		WithTimeout(250*time.Millisecond),
		WithLogger(l),
		WithTransportOptions(transport.WithDefaultPort(6000)),
		WithTransportOptions(transport.WithDefaultBaud(115200)),
	)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Timeout())
	assert.Same(t, l, cfg.GetLogger())
	assert.Len(t, cfg.TransportOptions(), 2)
}

func TestNewConfig_InvalidOptions(t *testing.T) {
	_, err := NewConfig(WithTimeout(0))
	require.Error(t, err)

	_, err = NewConfig(WithTimeout(MaxTimeout + time.Second))
	require.Error(t, err)

	_, err = NewConfig(WithLogger(nil))
	require.Error(t, err)
}
