package nautilus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tlembedded/go-nautilus/logger"
	"github.com/tlembedded/go-nautilus/scpi"
)

// IdentityPrefix starts every Nautilus *IDN? reply, e.g.
// "TL Embedded, Nautilus, 001C00484331500120373358, v0.1".
const IdentityPrefix = "TL Embedded, Nautilus,"

// Version is a firmware version reported in the identity string.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return "v" + strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}

	return v.Minor >= minor
}

// ParseVersion parses the trailing "vX.Y" field of an identity string.
func ParseVersion(idn string) (Version, error) {
	if !strings.HasPrefix(idn, IdentityPrefix) {
		return Version{}, fmt.Errorf("%w: identity %q", ErrNotFound, idn)
	}

	fields := strings.Split(idn, ", ")
	last := strings.TrimSpace(fields[len(fields)-1])

	major, minor, ok := strings.Cut(strings.TrimPrefix(last, "v"), ".")
	if !ok || !strings.HasPrefix(last, "v") {
		return Version{}, fmt.Errorf("%w: malformed version %q", ErrNotFound, last)
	}

	var v Version
	var err error
	if v.Major, err = strconv.Atoi(major); err != nil {
		return Version{}, fmt.Errorf("%w: malformed version %q", ErrNotFound, last)
	}
	if v.Minor, err = strconv.Atoi(minor); err != nil {
		return Version{}, fmt.Errorf("%w: malformed version %q", ErrNotFound, last)
	}

	return v, nil
}

// Client drives one Nautilus instrument.
type Client struct {
	eng    *scpi.Engine
	cfg    *Config
	logger logger.Logger

	version Version

	// serialBuf accumulates auxiliary serial bytes across reads.
	serialBuf []byte
}

// New creates a client for the instrument at uri without opening it.
// An empty uri selects DefaultURI.
func New(uri string, opts ...Option) (*Client, error) {
	if uri == "" {
		uri = DefaultURI
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	engOpts := append([]scpi.Option{scpi.WithLogger(cfg.logger)}, cfg.engineOpts...)
	eng, err := scpi.NewFromURI(uri, engOpts...)
	if err != nil {
		return nil, err
	}

	return newClient(eng, cfg), nil
}

// NewWithEngine creates a client over an existing engine. Engine options
// in opts are ignored.
func NewWithEngine(eng *scpi.Engine, opts ...Option) (*Client, error) {
	if eng == nil {
		return nil, errors.New("nautilus: engine must not be nil")
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return newClient(eng, cfg), nil
}

func newClient(eng *scpi.Engine, cfg *Config) *Client {
	return &Client{
		eng:    eng,
		cfg:    cfg,
		logger: cfg.logger.With("instrument", eng.Transport().String()),
	}
}

// Engine returns the underlying protocol engine.
func (c *Client) Engine() *scpi.Engine { return c.eng }

// FirmwareVersion returns the version read by the last successful Open.
func (c *Client) FirmwareVersion() Version { return c.version }

// Open opens the transport and verifies that the identity reply starts with
// IdentityPrefix. On any failure after the transport opened, the transport
// is closed again.
//
// The firmware version is read on a best-effort basis: an identity with an
// unrecognized version field still opens, leaving FirmwareVersion zero.
func (c *Client) Open(ctx context.Context) error {
	if err := c.eng.Open(ctx); err != nil {
		return err
	}

	idn, err := c.identify(ctx)
	if err != nil {
		if cerr := c.eng.Close(); cerr != nil {
			c.logger.Warn("nautilus: failed to close transport after open failure", "error", cerr)
		}

		return err
	}

	v, err := ParseVersion(idn)
	if err != nil {
		c.logger.Warn("nautilus: unrecognized firmware version", "identity", idn)
	}

	c.version = v
	c.serialBuf = nil
	c.logger.Info("nautilus: connected", "version", v.String())

	return nil
}

// identify queries *IDN? and fails with ErrNotFound unless the reply
// starts with IdentityPrefix.
func (c *Client) identify(ctx context.Context) (string, error) {
	idn, err := c.eng.Identity(ctx)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(idn, IdentityPrefix) {
		return "", fmt.Errorf("%w: identity %q", ErrNotFound, idn)
	}

	return idn, nil
}

// Close resets the instrument, unless disabled with WithResetOnClose, and
// closes the transport. The transport is closed even if the reset fails.
func (c *Client) Close(ctx context.Context) error {
	var resetErr error
	if c.cfg.resetOnClose {
		resetErr = c.Reset(ctx)
	}

	return errors.Join(resetErr, c.eng.Close())
}

// IsPresent reports whether the identity reply comes from a Nautilus.
func (c *Client) IsPresent(ctx context.Context) (bool, error) {
	idn, err := c.eng.Identity(ctx)
	if err != nil {
		return false, err
	}

	return strings.HasPrefix(idn, IdentityPrefix), nil
}

// Version queries the identity and returns the firmware version. It fails
// with ErrNotFound if the reply is not from a Nautilus.
func (c *Client) Version(ctx context.Context) (Version, error) {
	idn, err := c.eng.Identity(ctx)
	if err != nil {
		return Version{}, err
	}

	return ParseVersion(idn)
}

// Reset sends *RST.
func (c *Client) Reset(ctx context.Context) error {
	return c.eng.Write(ctx, scpi.ResetCommand)
}
