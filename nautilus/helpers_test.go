package nautilus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tlembedded/go-nautilus/scpi"
	"github.com/tlembedded/go-nautilus/transport/transporttest"
)

const testIdentity = "TL Embedded, Nautilus, 001C00484331500120373358, v1.4"

// newTestClient creates a Client over inst with short poll intervals.
func newTestClient(t *testing.T, inst *transporttest.Instrument, opts ...Option) *Client {
	t.Helper()

	eng, err := scpi.New(inst, scpi.WithTimeout(200*time.Millisecond))
	require.NoError(t, err)

	defaults := []Option{
		WithSerialPollInterval(5 * time.Millisecond),
		WithAckPoll(DefaultAckPollAttempts, time.Millisecond),
	}

	c, err := NewWithEngine(eng, append(defaults, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })

	return c
}

// serialFeed answers AUX:SER:READ with queued hex chunks, then with an
// empty chunk once the queue is drained.
type serialFeed struct {
	mu     sync.Mutex
	chunks []string
	calls  int
}

func newSerialFeed(chunks ...[]byte) *serialFeed {
	f := &serialFeed{}
	for _, c := range chunks {
		f.chunks = append(f.chunks, scpi.EncodeHex(c))
	}

	return f
}

func (f *serialFeed) handle(args string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if len(f.chunks) == 0 {
		return "", true
	}

	next := f.chunks[0]
	f.chunks = f.chunks[1:]

	return next, true
}

func (f *serialFeed) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}
