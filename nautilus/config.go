package nautilus

import (
	"errors"
	"time"

	"github.com/tlembedded/go-nautilus/logger"
	"github.com/tlembedded/go-nautilus/scpi"
)

const (
	// DefaultURI is the mDNS name the instrument announces on Ethernet.
	DefaultURI = "tcp://nautilus.local"

	DefaultSerialBaud         = 9600
	DefaultI2CSpeed           = 100000 // Hz
	DefaultSerialPollInterval = 50 * time.Millisecond
	DefaultAckPollAttempts    = 10
	DefaultAckPollInterval    = 50 * time.Millisecond

	// serialChunkSize is the byte count requested per AUX:SER:READ.
	serialChunkSize = 256
)

// Config holds Client settings.
type Config struct {
	logger       logger.Logger
	engineOpts   []scpi.Option
	resetOnClose bool

	serialPollInterval time.Duration
	ackPollAttempts    int
	ackPollInterval    time.Duration
}

// NewConfig creates a client configuration.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		logger:             logger.GetLogger(),
		resetOnClose:       true,
		serialPollInterval: DefaultSerialPollInterval,
		ackPollAttempts:    DefaultAckPollAttempts,
		ackPollInterval:    DefaultAckPollInterval,
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// ResetOnClose reports whether Close sends *RST before closing.
func (cfg *Config) ResetOnClose() bool { return cfg.resetOnClose }

// SerialPollInterval returns the delay between auxiliary serial fetches.
func (cfg *Config) SerialPollInterval() time.Duration { return cfg.serialPollInterval }

// AckPollAttempts returns the number of address probes after an EEPROM write.
func (cfg *Config) AckPollAttempts() int { return cfg.ackPollAttempts }

// AckPollInterval returns the delay between EEPROM acknowledge probes.
func (cfg *Config) AckPollInterval() time.Duration { return cfg.ackPollInterval }

// Option is a functional option for configuring a Client.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithLogger sets the client logger. New hands it to the engine as well.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("nautilus: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}

// WithEngineOptions sets the options New uses to build the engine.
func WithEngineOptions(opts ...scpi.Option) Option {
	return optFunc(func(cfg *Config) error {
		cfg.engineOpts = append(cfg.engineOpts, opts...)
		return nil
	})
}

// WithResetOnClose controls whether Close resets the instrument first.
// Enabled by default.
func WithResetOnClose(enable bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.resetOnClose = enable
		return nil
	})
}

// WithSerialPollInterval sets the delay between auxiliary serial fetches.
func WithSerialPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("nautilus: serial poll interval must be positive")
		}
		cfg.serialPollInterval = d

		return nil
	})
}

// WithAckPoll sets how many times, and how often, the EEPROM address is
// probed after each page write.
func WithAckPoll(attempts int, interval time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if attempts <= 0 {
			return errors.New("nautilus: ack poll attempts must be positive")
		}
		if interval < 0 {
			return errors.New("nautilus: ack poll interval must not be negative")
		}
		cfg.ackPollAttempts = attempts
		cfg.ackPollInterval = interval

		return nil
	})
}
