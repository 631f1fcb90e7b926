package profile

import (
	"errors"
	"fmt"
)

// Configuration errors. All of them match ErrInvalidConfig with errors.Is.
var (
	ErrInvalidConfig = errors.New("profile: invalid configuration")

	// ErrBinCount indicates fewer than one bin.
	ErrBinCount = fmt.Errorf("%w: need at least one bin", ErrInvalidConfig)

	// ErrRange indicates a radial range whose maximum does not exceed its minimum.
	ErrRange = fmt.Errorf("%w: radial range must satisfy min < max", ErrInvalidConfig)

	// ErrLogMinRadius indicates log bins requested with a non-positive minimum radius.
	ErrLogMinRadius = fmt.Errorf("%w: can't use log bins with a non-positive minimum radius", ErrInvalidConfig)

	// ErrUnsupportedKind indicates a kind the particle type has no accessor for.
	ErrUnsupportedKind = fmt.Errorf("%w: profile kind not defined for this particle type", ErrInvalidConfig)

	// ErrUnknownKind indicates a kind name that does not exist.
	ErrUnknownKind = fmt.Errorf("%w: unknown profile kind", ErrInvalidConfig)
)

// WriteError reports a profile export destination that could not be written.
type WriteError struct {
	Path    string
	Wrapped error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("profile: writing %s: %v", e.Path, e.Wrapped)
}

func (e *WriteError) Unwrap() error {
	return e.Wrapped
}
