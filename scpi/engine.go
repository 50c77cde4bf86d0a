package scpi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tlembedded/go-nautilus/logger"
	"github.com/tlembedded/go-nautilus/transport"
)

const (
	lineTerm = "\n"

	// IdentityQuery is the IEEE 488.2 identification query.
	IdentityQuery = "*IDN?"
	// ResetCommand is the IEEE 488.2 reset command.
	ResetCommand = "*RST"
)

var lineMatch = transport.DelimiterMatch([]byte(lineTerm))

// Engine is a line-framed request/response engine over one transport.
type Engine struct {
	tr      transport.Transport
	cfg     *Config
	logger  logger.Logger
	metrics *Metrics
}

// New creates an Engine over tr. The transport is used as is; call Open
// if it is not open yet.
func New(tr transport.Transport, opts ...Option) (*Engine, error) {
	if tr == nil {
		return nil, errors.New("scpi: transport must not be nil")
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		tr:      tr,
		cfg:     cfg,
		logger:  cfg.logger.With("endpoint", tr.String()),
		metrics: newMetrics(),
	}, nil
}

// NewFromURI builds the transport for uri and wraps it in an Engine
// without opening it.
func NewFromURI(uri string, opts ...Option) (*Engine, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	topts := append([]transport.Option{transport.WithLogger(cfg.logger)}, cfg.transportOpts...)
	tr, err := transport.FromURI(uri, topts...)
	if err != nil {
		return nil, err
	}

	return New(tr, opts...)
}

// Dial builds the transport for uri, wraps it in an Engine and opens it.
func Dial(ctx context.Context, uri string, opts ...Option) (*Engine, error) {
	eng, err := NewFromURI(uri, opts...)
	if err != nil {
		return nil, err
	}

	if err := eng.Open(ctx); err != nil {
		return nil, err
	}

	return eng, nil
}

// Transport returns the underlying transport.
func (e *Engine) Transport() transport.Transport { return e.tr }

// Timeout returns the per-read reply timeout.
func (e *Engine) Timeout() time.Duration { return e.cfg.timeout }

// Metrics returns the engine counters.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Open opens the underlying transport.
func (e *Engine) Open(ctx context.Context) error {
	return e.tr.Open(ctx)
}

// Close closes the underlying transport. A pending Read fails with
// transport.ErrClosed.
func (e *Engine) Close() error {
	return e.tr.Close()
}

// Write sends cmd followed by "\n".
func (e *Engine) Write(ctx context.Context, cmd string) error {
	e.logger.Debug("scpi: write", "cmd", cmd)

	if err := e.tr.Send(ctx, []byte(cmd+lineTerm)); err != nil {
		return err
	}
	e.metrics.WriteCount.Inc()

	return nil
}

// WriteBytes sends b unmodified.
func (e *Engine) WriteBytes(ctx context.Context, b []byte) error {
	if err := e.tr.Send(ctx, b); err != nil {
		return err
	}
	e.metrics.WriteCount.Inc()

	return nil
}

// ReadBytes waits for one reply line and returns it without the
// terminating "\n". Nothing else is stripped.
func (e *Engine) ReadBytes(ctx context.Context) ([]byte, error) {
	line, err := e.tr.Receiver().WaitFor(ctx, e.cfg.timeout, lineMatch)
	if err != nil {
		if errors.Is(err, transport.ErrWaitTimeout) {
			e.metrics.ReadTimeoutCount.Inc()
			e.logger.Debug("scpi: read timed out", "timeout", e.cfg.timeout)

			return nil, fmt.Errorf("%w: after %s", ErrReadTimeout, e.cfg.timeout)
		}

		return nil, err
	}
	e.metrics.ReadCount.Inc()

	return line, nil
}

// Read waits for one reply line and returns it with surrounding
// whitespace trimmed.
func (e *Engine) Read(ctx context.Context) (string, error) {
	line, err := e.ReadBytes(ctx)
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(string(line))
	e.logger.Debug("scpi: read", "reply", reply)

	return reply, nil
}

// Query sends cmd and returns the next reply line.
func (e *Engine) Query(ctx context.Context, cmd string) (string, error) {
	e.metrics.QueryCount.Inc()

	if err := e.Write(ctx, cmd); err != nil {
		return "", err
	}

	return e.Read(ctx)
}

// Identity returns the reply to *IDN?.
func (e *Engine) Identity(ctx context.Context) (string, error) {
	return e.Query(ctx, IdentityQuery)
}
