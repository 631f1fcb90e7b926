package profile

import (
	"fmt"
	"strings"
)

// Kind selects the quantity a profile computes.
type Kind int

const (
	AvgAge Kind = iota
	AvgCarbonFraction
	AvgMetallicity
	CumulativeMass
	Density
)

var kindNames = [...]string{
	AvgAge:            "avg_age",
	AvgCarbonFraction: "avg_carbon_frac",
	AvgMetallicity:    "avg_metallicity",
	CumulativeMass:    "cumulative_mass",
	Density:           "density",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsAverage reports whether the kind is a per-bin mean.
func (k Kind) IsAverage() bool {
	switch k {
	case AvgAge, AvgCarbonFraction, AvgMetallicity:
		return true
	}
	return false
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds lists every profile kind.
func Kinds() []Kind {
	return []Kind{AvgAge, AvgCarbonFraction, AvgMetallicity, CumulativeMass, Density}
}
