package nautilus

import "errors"

var (
	// ErrNotFound is returned when the identity reply does not come from
	// a Nautilus.
	ErrNotFound = errors.New("nautilus: instrument not found")
	// ErrInvalidArgument is returned for arguments the instrument cannot
	// represent, such as a negative count or an EEPROM offset beyond one byte.
	ErrInvalidArgument = errors.New("nautilus: invalid argument")
)
