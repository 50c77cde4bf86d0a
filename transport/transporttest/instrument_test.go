package transporttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlembedded/go-nautilus/transport"
)

var lineMatch = transport.DelimiterMatch([]byte("\n"))

func TestInstrument_DispatchAndLog(t *testing.T) {
	inst := NewOpen().
		Handle("*IDN?", Reply("TL Embedded, Nautilus, 0001, v1.4")).
		Handle("AUX:IIC:WRITE", func(args string) (string, bool) {
			assert.Equal(t, "80, 0001", args)
			return "ON", true
		})

	ctx := context.Background()
	require.NoError(t, inst.Send(ctx, []byte("*idn?\n")))
	require.NoError(t, inst.Send(ctx, []byte("AUX:IIC:WRITE 80, ")))
	require.NoError(t, inst.Send(ctx, []byte("0001\n*RST\n")))

	assert.Equal(t, []string{"*idn?", "AUX:IIC:WRITE 80, 0001", "*RST"}, inst.Commands())
	assert.Equal(t, []string{"*RST"}, inst.CommandsWithHeader("*rst"))

	frame, err := inst.Receiver().WaitFor(ctx, time.Second, lineMatch)
	require.NoError(t, err)
	assert.Equal(t, "TL Embedded, Nautilus, 0001, v1.4", string(frame))

	frame, err = inst.Receiver().WaitFor(ctx, time.Second, lineMatch)
	require.NoError(t, err)
	assert.Equal(t, "ON", string(frame))

	// *RST has no handler, so nothing else is buffered.
	assert.Zero(t, inst.Receiver().Len())
	assert.Equal(t, int64(3), inst.Metrics().SendCount.Value())
}

func TestInstrument_Replies(t *testing.T) {
	fn := Replies("a", "b")

	r, ok := fn("")
	assert.True(t, ok)
	assert.Equal(t, "a", r)

	r, _ = fn("")
	assert.Equal(t, "b", r)

	r, _ = fn("")
	assert.Equal(t, "b", r)

	_, ok = Replies()("")
	assert.False(t, ok)

	_, ok = Silent()("")
	assert.False(t, ok)
}

func TestInstrument_Lifecycle(t *testing.T) {
	inst := New()
	ctx := context.Background()

	require.ErrorIs(t, inst.Send(ctx, []byte("x\n")), transport.ErrNotOpen)

	require.NoError(t, inst.Open(ctx))
	assert.True(t, inst.IsOpen())

	require.NoError(t, inst.Close())
	assert.True(t, inst.IsClosed())
	require.ErrorIs(t, inst.Send(ctx, []byte("x\n")), transport.ErrClosed)

	_, err := inst.Receiver().WaitFor(ctx, time.Second, lineMatch)
	require.ErrorIs(t, err, transport.ErrClosed)

	boom := errors.New("boom")
	inst.FailOpen(boom)
	require.ErrorIs(t, inst.Open(ctx), boom)
}

func TestInstrument_FailSend(t *testing.T) {
	inst := NewOpen()
	boom := errors.New("link down")

	inst.FailSend(boom)
	require.ErrorIs(t, inst.Send(context.Background(), []byte("x\n")), boom)
	assert.Empty(t, inst.Commands())

	inst.FailSend(nil)
	require.NoError(t, inst.Send(context.Background(), []byte("x\n")))
}
