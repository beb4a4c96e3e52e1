package analytics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller mistakes such as unknown report kinds or malformed bounds.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedKind is returned for chart, export or dimension names that are not recognised.
	ErrUnsupportedKind = fmt.Errorf("%w: unsupported kind", ErrInvalidArgument)
)

func unsupported(what, name string) error {
	return fmt.Errorf("%w: %s %q", ErrUnsupportedKind, what, name)
}
