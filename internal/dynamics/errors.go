package dynamics

import (
	"errors"
	"fmt"
)

// Domain errors for dynamics computations.
var (
	// ErrDomain is the class of errors raised when a quantity is not defined
	// for the configured geometry.
	ErrDomain = errors.New("dynamics: quantity undefined for this geometry")

	// ErrRequires3D indicates a 3D-only quantity requested for 2D coordinates.
	ErrRequires3D = fmt.Errorf("%w: angular momentum requires 3 spatial dimensions", ErrDomain)
)
