// Package filter selects particle subsets by comparing one property against
// a threshold.
package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/galprof/internal/particle"
)

var (
	// ErrUnknownKind indicates a filter name that does not exist.
	ErrUnknownKind = errors.New("filter: unknown filter kind")

	// ErrUnsupported indicates a filter the particle type has no property for.
	ErrUnsupported = errors.New("filter: filter not defined for this particle type")
)

type Kind int

const (
	AgeGT Kind = iota
	AgeLT
	MassGT
	MassLT
	MetallicityGT
	MetallicityLT
	TemperatureGT
	TemperatureLT
)

var kindNames = map[Kind]string{
	AgeGT:         "age_gt",
	AgeLT:         "age_lt",
	MassGT:        "mass_gt",
	MassLT:        "mass_lt",
	MetallicityGT: "metallicity_gt",
	MetallicityLT: "metallicity_lt",
	TemperatureGT: "temperature_gt",
	TemperatureLT: "temperature_lt",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds lists every filter in declaration order.
func Kinds() []Kind {
	return []Kind{AgeGT, AgeLT, MassGT, MassLT, MetallicityGT, MetallicityLT, TemperatureGT, TemperatureLT}
}

type massive interface {
	Mass() float64
}

// property resolves the accessor a filter kind reads. The check is made on
// the static type P, so a slice of interface values only supports what the
// interface itself declares.
func property[P any](kind Kind) (func(P) float64, error) {
	var zero P
	switch kind {
	case MassGT, MassLT:
		if _, ok := any(zero).(massive); ok {
			return func(p P) float64 { return any(p).(massive).Mass() }, nil
		}
	case AgeGT, AgeLT:
		if _, ok := any(zero).(particle.Aged); ok {
			return func(p P) float64 { return any(p).(particle.Aged).Age() }, nil
		}
	case MetallicityGT, MetallicityLT:
		if _, ok := any(zero).(particle.Metallic); ok {
			return func(p P) float64 { return any(p).(particle.Metallic).Metallicity() }, nil
		}
	case TemperatureGT, TemperatureLT:
		if _, ok := any(zero).(particle.Thermal); ok {
			return func(p P) float64 { return any(p).(particle.Thermal).Temperature() }, nil
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	return nil, fmt.Errorf("%w: %s on %T", ErrUnsupported, kind, zero)
}

func greater(k Kind) bool {
	switch k {
	case AgeGT, MassGT, MetallicityGT, TemperatureGT:
		return true
	}
	return false
}

// Apply returns the particles of ps whose property is strictly greater (or
// less) than threshold. ps is not modified.
func Apply[P any](ps []P, kind Kind, threshold float64) ([]P, error) {
	get, err := property[P](kind)
	if err != nil {
		return nil, err
	}

	gt := greater(kind)
	out := make([]P, 0, len(ps))
	for _, p := range ps {
		v := get(p)
		if (gt && v > threshold) || (!gt && v < threshold) {
			out = append(out, p)
		}
	}
	return out, nil
}
