package transport

import (
	"fmt"
	"strconv"
	"strings"
)

// Recognized URI schemes.
const (
	SchemeSerial = "serial"
	SchemeTTY    = "tty"
	SchemeTCP    = "tcp"
	SchemeIP     = "ip"
	SchemeUDP    = "udp"
)

// URI is a parsed transport address of the form scheme://host[:param].
//
// Param is the port for socket schemes and the baud rate for serial ones.
type URI struct {
	Scheme   string
	Host     string
	Param    int
	HasParam bool
}

func (u URI) String() string {
	host := u.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if !u.HasParam {
		return u.Scheme + "://" + host
	}

	return u.Scheme + "://" + host + ":" + strconv.Itoa(u.Param)
}

// ParseURI parses raw without performing any I/O.
//
// The scheme is case-insensitive. The param is split off at the last colon,
// so IPv6 hosts must be bracketed ("tcp://[::1]:5025").
func ParseURI(raw string) (URI, error) {
	scheme, addr, found := strings.Cut(raw, "://")
	if !found {
		return URI{}, fmt.Errorf("%w: %q: missing \"://\"", ErrInvalidURI, raw)
	}

	scheme = strings.ToLower(scheme)
	switch scheme {
	case SchemeSerial, SchemeTTY, SchemeTCP, SchemeIP, SchemeUDP:
	default:
		return URI{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}

	u := URI{Scheme: scheme, Host: addr}

	if strings.HasPrefix(addr, "[") {
		end := strings.IndexByte(addr, ']')
		if end < 0 {
			return URI{}, fmt.Errorf("%w: %q: unterminated '['", ErrInvalidURI, raw)
		}
		u.Host = addr[1:end]

		rest := addr[end+1:]
		if rest != "" {
			if rest[0] != ':' {
				return URI{}, fmt.Errorf("%w: %q: unexpected %q after host", ErrInvalidURI, raw, rest)
			}
			if err := u.setParam(raw, rest[1:]); err != nil {
				return URI{}, err
			}
		}
	} else if idx := strings.LastIndexByte(addr, ':'); idx >= 0 {
		u.Host = addr[:idx]
		if err := u.setParam(raw, addr[idx+1:]); err != nil {
			return URI{}, err
		}
	}

	if u.Host == "" {
		return URI{}, fmt.Errorf("%w: %q: empty host", ErrInvalidURI, raw)
	}

	return u, nil
}

func (u *URI) setParam(raw, s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("%w: %q: bad parameter %q", ErrInvalidURI, raw, s)
	}
	if u.IsSocket() && n > MaxPort {
		return fmt.Errorf("%w: %q: port %d out of range", ErrInvalidURI, raw, n)
	}

	u.Param = n
	u.HasParam = true

	return nil
}

// IsSocket reports whether the scheme names a network transport.
func (u URI) IsSocket() bool {
	switch u.Scheme {
	case SchemeTCP, SchemeIP, SchemeUDP:
		return true
	default:
		return false
	}
}

// FromURI parses raw and constructs the matching transport. No I/O is
// performed; call Open on the result.
func FromURI(raw string, opts ...Option) (Transport, error) {
	u, err := ParseURI(raw)
	if err != nil {
		return nil, err
	}

	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	return NewFromURI(u, cfg)
}

// NewFromURI constructs the transport for an already parsed URI.
func NewFromURI(u URI, cfg *Config) (Transport, error) {
	switch u.Scheme {
	case SchemeSerial, SchemeTTY:
		baud := cfg.defaultBaud
		if u.HasParam {
			baud = u.Param
		}

		return NewSerial(u.Host, baud, cfg), nil

	case SchemeTCP, SchemeIP:
		return NewStream(u.Host, u.portOr(cfg.defaultPort), cfg), nil

	case SchemeUDP:
		return NewDatagram(u.Host, u.portOr(cfg.defaultPort), cfg), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func (u URI) portOr(def int) int {
	if u.HasParam {
		return u.Param
	}

	return def
}
