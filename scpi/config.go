package scpi

import (
	"errors"
	"time"

	"github.com/tlembedded/go-nautilus/logger"
	"github.com/tlembedded/go-nautilus/transport"
)

const (
	DefaultTimeout = 1000 * time.Millisecond
	MaxTimeout     = 10 * time.Minute
)

// Config holds Engine settings.
type Config struct {
	timeout       time.Duration
	logger        logger.Logger
	transportOpts []transport.Option
}

// NewConfig creates an engine configuration.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		timeout: DefaultTimeout,
		logger:  logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Timeout returns the per-read reply timeout.
func (cfg *Config) Timeout() time.Duration { return cfg.timeout }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// TransportOptions returns the options passed to transport.FromURI by Dial.
func (cfg *Config) TransportOptions() []transport.Option { return cfg.transportOpts }

// Option is a functional option for configuring an Engine.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithTimeout sets how long Read waits for a reply line.
func WithTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 || d > MaxTimeout {
			return errors.New("scpi: timeout must be in (0, 10m]")
		}
		cfg.timeout = d

		return nil
	})
}

// WithLogger sets the engine logger. Dial also hands it to the transport.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("scpi: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithTransportOptions sets the options Dial uses to build the transport.
func WithTransportOptions(opts ...transport.Option) Option {
	return optFunc(func(cfg *Config) error {
		cfg.transportOpts = append(cfg.transportOpts, opts...)
		return nil
	})
}
