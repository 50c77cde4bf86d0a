// Package transporttest provides a scripted in-memory instrument that
// implements transport.Transport, for testing code layered on a transport.
package transporttest

import (
	"context"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/tlembedded/go-nautilus/transport"
)

// HandlerFunc answers one command. args is the text after the command
// header. When respond is false nothing is sent back.
type HandlerFunc func(args string) (reply string, respond bool)

// Reply returns a handler that always answers with reply.
func Reply(reply string) HandlerFunc {
	return func(string) (string, bool) { return reply, true }
}

// Replies returns a handler answering with each reply in turn. Once the
// list is exhausted it repeats the last one.
func Replies(replies ...string) HandlerFunc {
	var (
		mu  sync.Mutex
		idx int
	)

	return func(string) (string, bool) {
		mu.Lock()
		defer mu.Unlock()

		if len(replies) == 0 {
			return "", false
		}

		r := replies[idx]
		if idx < len(replies)-1 {
			idx++
		}

		return r, true
	}
}

// Silent returns a handler that accepts the command without answering.
func Silent() HandlerFunc {
	return func(string) (string, bool) { return "", false }
}

// Instrument is a fake line-oriented instrument.
//
// Every newline-terminated command sent to it is logged and dispatched by
// header, the text before the first space, case-insensitively. Handler
// replies are appended to the receive buffer followed by "\n". Commands
// without a handler are logged and left unanswered.
type Instrument struct {
	handlers *xsync.MapOf[string, HandlerFunc]
	rx       *transport.RecvBuffer
	metrics  *transport.Metrics

	mu       sync.Mutex
	opened   bool
	closed   bool
	pending  strings.Builder
	commands []string
	sendErr  error
	openErr  error
	closeErr error
}

var _ transport.Transport = (*Instrument)(nil)

// New returns a closed instrument with no handlers.
func New() *Instrument {
	return &Instrument{
		handlers: xsync.NewMapOf[string, HandlerFunc](),
		rx:       transport.NewRecvBuffer(),
		metrics:  transport.NewMetrics(),
	}
}

// NewOpen returns an instrument that is already open.
func NewOpen() *Instrument {
	inst := New()
	_ = inst.Open(context.Background())

	return inst
}

// Handle registers fn for commands with the given header, e.g. "*IDN?"
// or "AUX:IIC:WRITE".
func (i *Instrument) Handle(header string, fn HandlerFunc) *Instrument {
	i.handlers.Store(strings.ToUpper(header), fn)
	return i
}

// Inject appends raw bytes to the receive buffer as if the instrument sent
// them unprompted.
func (i *Instrument) Inject(data string) {
	i.rx.Append([]byte(data))
}

// FailSend makes every later Send return err. A nil err clears it.
func (i *Instrument) FailSend(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.sendErr = err
}

// FailOpen makes every later Open return err.
func (i *Instrument) FailOpen(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.openErr = err
}

// FailClose makes every later Close return err.
func (i *Instrument) FailClose(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.closeErr = err
}

// Commands returns the commands received so far, without the "\n".
func (i *Instrument) Commands() []string {
	i.mu.Lock()
	defer i.mu.Unlock()

	return append([]string(nil), i.commands...)
}

// CommandsWithHeader returns the logged commands with the given header.
func (i *Instrument) CommandsWithHeader(header string) []string {
	header = strings.ToUpper(header)

	var out []string
	for _, cmd := range i.Commands() {
		if h, _ := splitCommand(cmd); h == header {
			out = append(out, cmd)
		}
	}

	return out
}

// IsOpen reports whether the instrument is open.
func (i *Instrument) IsOpen() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.opened
}

// IsClosed reports whether Close was called after a successful Open.
func (i *Instrument) IsClosed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.closed
}

func (i *Instrument) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.openErr != nil {
		return i.openErr
	}
	if i.opened {
		return nil
	}

	i.rx.Reset()
	i.pending.Reset()
	i.opened = true
	i.closed = false
	i.metrics.OpenCount.Inc()

	return nil
}

func (i *Instrument) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.opened {
		return nil
	}

	i.opened = false
	i.closed = true
	i.rx.Fail(transport.ErrClosed)

	return i.closeErr
}

func (i *Instrument) Send(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.Lock()
	if !i.opened {
		closed := i.closed
		i.mu.Unlock()

		if closed {
			return transport.ErrClosed
		}

		return transport.ErrNotOpen
	}
	if i.sendErr != nil {
		err := i.sendErr
		i.mu.Unlock()
		i.metrics.SendErrCount.Inc()

		return err
	}

	i.pending.Write(data)
	buffered := i.pending.String()

	var lines []string
	for {
		idx := strings.IndexByte(buffered, '\n')
		if idx < 0 {
			break
		}
		lines = append(lines, strings.TrimRight(buffered[:idx], "\r"))
		buffered = buffered[idx+1:]
	}
	i.pending.Reset()
	i.pending.WriteString(buffered)
	i.commands = append(i.commands, lines...)
	i.mu.Unlock()

	i.metrics.SendCount.Inc()
	i.metrics.BytesSent.Add(int64(len(data)))

	// Handlers run outside the lock so they may call back into Inject.
	for _, line := range lines {
		header, args := splitCommand(line)

		fn, ok := i.handlers.Load(header)
		if !ok {
			continue
		}

		if reply, respond := fn(args); respond {
			i.metrics.BytesRecv.Add(int64(len(reply) + 1))
			i.rx.Append([]byte(reply + "\n"))
		}
	}

	return nil
}

func (i *Instrument) Receiver() *transport.RecvBuffer { return i.rx }

func (i *Instrument) Kind() transport.Kind { return transport.Stream }

func (i *Instrument) Metrics() *transport.Metrics { return i.metrics }

func (i *Instrument) String() string { return "fake://instrument" }

func splitCommand(line string) (string, string) {
	header, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToUpper(header), strings.TrimSpace(args)
}
