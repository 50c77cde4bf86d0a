package nautilus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tlembedded/go-nautilus/logger"
	"github.com/tlembedded/go-nautilus/scpi"
	"github.com/tlembedded/go-nautilus/transport"
	"github.com/tlembedded/go-nautilus/transport/transporttest"
)

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion(testIdentity)
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 4}, v)
	assert.Equal(t, "v1.4", v.String())

	v, err = ParseVersion("TL Embedded, Nautilus, 0001, v0.1")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 0, Minor: 1}, v)

	_, err = ParseVersion("Rigol Technologies,DS1054Z,DS1ZA0000,00.04.04")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = ParseVersion("TL Embedded, Nautilus, 0001, 1.4")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = ParseVersion("TL Embedded, Nautilus, 0001, vX.Y")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVersion_AtLeast(t *testing.T) {
	v := Version{Major: 1, Minor: 4}

	assert.True(t, v.AtLeast(1, 0))
	assert.True(t, v.AtLeast(1, 4))
	assert.True(t, v.AtLeast(0, 9))
	assert.False(t, v.AtLeast(1, 5))
	assert.False(t, v.AtLeast(2, 0))
}

func TestClient_Open(t *testing.T) {
	inst := transporttest.New().Handle("*IDN?", transporttest.Reply(testIdentity))
	c := newTestClient(t, inst)

	require.NoError(t, c.Open(context.Background()))
	assert.True(t, inst.IsOpen())
	assert.Equal(t, Version{Major: 1, Minor: 4}, c.FirmwareVersion())

	present, err := c.IsPresent(context.Background())
	require.NoError(t, err)
	assert.True(t, present)
}

func TestClient_OpenWrongInstrumentClosesTransport(t *testing.T) {
	inst := transporttest.New().Handle("*IDN?", transporttest.Reply("ACME, Multimeter, 1, v1.0"))
	c := newTestClient(t, inst)

	err := c.Open(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, inst.IsOpen())
	assert.True(t, inst.IsClosed())
}

func TestClient_OpenUnrecognizedVersion(t *testing.T) {
	tests := []struct {
		name     string
		identity string
	}{
		{"three part version", "TL Embedded, Nautilus, 001C00484331500120373358, v1.2.3"},
		{"release candidate", "TL Embedded, Nautilus, 001C00484331500120373358, v1.4-rc1"},
		{"no version field", "TL Embedded, Nautilus, 001C00484331500120373358"},
		{"signature only", IdentityPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.NewMockLogger().AllowLevel("Debug", "Info")
			log.On("Warn", "nautilus: unrecognized firmware version", mock.Anything).Once()

			inst := transporttest.New().Handle("*IDN?", transporttest.Reply(tt.identity))
			c := newTestClient(t, inst, WithLogger(log))

			require.NoError(t, c.Open(context.Background()))
			assert.True(t, inst.IsOpen())
			assert.Equal(t, Version{}, c.FirmwareVersion())
			log.AssertExpectations(t)
		})
	}
}

func TestClient_OpenNoReplyClosesTransport(t *testing.T) {
	inst := transporttest.New()
	c := newTestClient(t, inst)

	err := c.Open(context.Background())
	require.ErrorIs(t, err, scpi.ErrReadTimeout)
	assert.True(t, inst.IsClosed())
}

func TestClient_OpenTransportFailure(t *testing.T) {
	inst := transporttest.New()
	boom := errors.New("no route to host")
	inst.FailOpen(boom)

	c := newTestClient(t, inst)
	require.ErrorIs(t, c.Open(context.Background()), boom)
	assert.Empty(t, inst.Commands())
}

func TestClient_IsPresentFalse(t *testing.T) {
	inst := transporttest.NewOpen().Handle("*IDN?", transporttest.Reply("ACME, Thing, 1, v1.0"))
	c := newTestClient(t, inst)

	present, err := c.IsPresent(context.Background())
	require.NoError(t, err)
	assert.False(t, present)
}

func TestClient_CloseResets(t *testing.T) {
	inst := transporttest.New().Handle("*IDN?", transporttest.Reply(testIdentity))
	c := newTestClient(t, inst)
	require.NoError(t, c.Open(context.Background()))

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"*IDN?", "*RST"}, inst.Commands())
	assert.True(t, inst.IsClosed())
}

func TestClient_CloseWithoutReset(t *testing.T) {
	inst := transporttest.New().Handle("*IDN?", transporttest.Reply(testIdentity))
	c := newTestClient(t, inst, WithResetOnClose(false))
	require.NoError(t, c.Open(context.Background()))

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"*IDN?"}, inst.Commands())
	assert.True(t, inst.IsClosed())
}

func TestClient_CloseClosesAfterResetFailure(t *testing.T) {
	inst := transporttest.NewOpen()
	c := newTestClient(t, inst)

	boom := errors.New("link down")
	inst.FailSend(boom)

	err := c.Close(context.Background())
	require.ErrorIs(t, err, boom)
	assert.True(t, inst.IsClosed())
}

func TestNew(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "tcp://nautilus.local:5025", c.Engine().Transport().String())

	c, err = New("udp://10.0.0.9",
		WithEngineOptions(
			scpi.WithTimeout(300*time.Millisecond),
			scpi.WithTransportOptions(transport.WithDefaultPort(6000)),
		),
	)
	require.NoError(t, err)
	assert.Equal(t, transport.Datagram, c.Engine().Transport().Kind())
	assert.Equal(t, "udp://10.0.0.9:6000", c.Engine().Transport().String())
	assert.Equal(t, 300*time.Millisecond, c.Engine().Timeout())

	_, err = New("usb://0403:6001")
	require.ErrorIs(t, err, transport.ErrUnsupportedScheme)

	_, err = New("tcp://host", WithSerialPollInterval(0))
	require.Error(t, err)
}

func TestNewWithEngine_Nil(t *testing.T) {
	_, err := NewWithEngine(nil)
	require.Error(t, err)
}
