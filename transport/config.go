package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/tlembedded/go-nautilus/logger"
)

const (
	DefaultPort     = 5025 // SCPI-over-socket port
	DefaultBaudRate = 9600

	DefaultConnectTimeout     = 3 * time.Second
	DefaultSendTimeout        = 3 * time.Second
	DefaultSerialPollInterval = 100 * time.Millisecond
	DefaultReadBufferSize     = 4096
)

const (
	MaxPort = 65535

	MinReadBufferSize = 64
	maxDatagramSize   = 65535
)

// Config holds the settings shared by all transport variants.
type Config struct {
	defaultPort int
	defaultBaud int

	connectTimeout time.Duration
	sendTimeout    time.Duration

	// serialPollInterval bounds how long a serial read blocks, so the
	// reader goroutine notices shutdown.
	serialPollInterval time.Duration
	readBufferSize     int

	logger logger.Logger
}

// NewConfig creates a transport configuration.
// opts are functional options applied in order; see With* functions.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		defaultPort:        DefaultPort,
		defaultBaud:        DefaultBaudRate,
		connectTimeout:     DefaultConnectTimeout,
		sendTimeout:        DefaultSendTimeout,
		serialPollInterval: DefaultSerialPollInterval,
		readBufferSize:     DefaultReadBufferSize,
		logger:             logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// DefaultPort returns the port used when a socket URI carries none.
func (cfg *Config) DefaultPort() int { return cfg.defaultPort }

// DefaultBaud returns the baud rate used when a serial URI carries none.
func (cfg *Config) DefaultBaud() int { return cfg.defaultBaud }

// ConnectTimeout returns the socket dial timeout.
func (cfg *Config) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// SendTimeout returns the write deadline applied to each Send.
func (cfg *Config) SendTimeout() time.Duration { return cfg.sendTimeout }

// SerialPollInterval returns the serial port read timeout.
func (cfg *Config) SerialPollInterval() time.Duration { return cfg.serialPollInterval }

// ReadBufferSize returns the size of the reader goroutine's scratch buffer.
func (cfg *Config) ReadBufferSize() int { return cfg.readBufferSize }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithDefaultPort sets the port used for tcp, ip and udp URIs without one.
func WithDefaultPort(port int) Option {
	return optFunc(func(cfg *Config) error {
		if port <= 0 || port > MaxPort {
			return fmt.Errorf("transport: port %d out of range [1, %d]", port, MaxPort)
		}
		cfg.defaultPort = port

		return nil
	})
}

// WithDefaultBaud sets the baud rate used for serial URIs without one.
func WithDefaultBaud(baud int) Option {
	return optFunc(func(cfg *Config) error {
		if baud <= 0 {
			return fmt.Errorf("transport: baud rate %d must be positive", baud)
		}
		cfg.defaultBaud = baud

		return nil
	})
}

// WithConnectTimeout sets the socket dial timeout.
func WithConnectTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("transport: connect timeout must be positive")
		}
		cfg.connectTimeout = d

		return nil
	})
}

// WithSendTimeout sets the write deadline applied to each Send.
func WithSendTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("transport: send timeout must be positive")
		}
		cfg.sendTimeout = d

		return nil
	})
}

// WithSerialPollInterval sets the serial port read timeout.
func WithSerialPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("transport: serial poll interval must be positive")
		}
		cfg.serialPollInterval = d

		return nil
	})
}

// WithReadBufferSize sets the reader goroutine's scratch buffer size.
func WithReadBufferSize(size int) Option {
	return optFunc(func(cfg *Config) error {
		if size < MinReadBufferSize {
			return fmt.Errorf("transport: read buffer size %d below minimum %d", size, MinReadBufferSize)
		}
		cfg.readBufferSize = size

		return nil
	})
}

// WithLogger sets the logger for the transport.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("transport: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
