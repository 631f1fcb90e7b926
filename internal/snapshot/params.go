package snapshot

import (
	"errors"
	"fmt"

	"gopkg.in/gcfg.v1"
)

const (
	DefaultLabel       = "demo"
	DefaultBoxSize     = 10.0
	DefaultRedshift    = 0.0
	DefaultTime        = 13.7
	DefaultOmega0      = 1.0
	DefaultOmegaBaryon = 0.04
	DefaultOmegaLambda = 0.72
	DefaultHubble      = 0.7
	DefaultCount       = 1000
)

var ErrInvalidParameters = errors.New("snapshot: invalid parameters")

// ExampleParameterFile documents every key LoadParameters understands.
const ExampleParameterFile = `[simulation]
label = demo
# Comoving box side length.
box-size = 10
redshift = 0
# Output time in Gyr.
time = 13.7

[cosmology]
omega0 = 1.0
omega-baryon = 0.04
omega-lambda = 0.72
hubble = 0.7

[particles]
dark-matter = 1000
gas = 1000
stars = 1000
`

type SimulationSection struct {
	Label    string
	BoxSize  float64 `gcfg:"box-size"`
	Redshift float64
	Time     float64
}

type CosmologySection struct {
	Omega0      float64 `gcfg:"omega0"`
	OmegaBaryon float64 `gcfg:"omega-baryon"`
	OmegaLambda float64 `gcfg:"omega-lambda"`
	Hubble      float64
}

type ParticleSection struct {
	DarkMatter int `gcfg:"dark-matter"`
	Gas        int
	Stars      int
}

// Parameters describe a snapshot: its box, its cosmology and how many
// particles of each species it holds.
type Parameters struct {
	Simulation SimulationSection
	Cosmology  CosmologySection
	Particles  ParticleSection
}

func DefaultParameters() Parameters {
	return Parameters{
		Simulation: SimulationSection{
			Label:    DefaultLabel,
			BoxSize:  DefaultBoxSize,
			Redshift: DefaultRedshift,
			Time:     DefaultTime,
		},
		Cosmology: CosmologySection{
			Omega0:      DefaultOmega0,
			OmegaBaryon: DefaultOmegaBaryon,
			OmegaLambda: DefaultOmegaLambda,
			Hubble:      DefaultHubble,
		},
		Particles: ParticleSection{
			DarkMatter: DefaultCount,
			Gas:        DefaultCount,
			Stars:      DefaultCount,
		},
	}
}

// LoadParameters reads a parameter file over the defaults. An empty path
// returns the defaults unchanged.
func LoadParameters(path string) (Parameters, error) {
	p := DefaultParameters()
	if path == "" {
		return p, nil
	}
	if err := gcfg.FatalOnly(gcfg.ReadFileInto(&p, path)); err != nil {
		return Parameters{}, fmt.Errorf("snapshot: reading %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

func (p Parameters) Validate() error {
	if !(p.Simulation.BoxSize > 0) {
		return fmt.Errorf("%w: box-size must be positive, got %g", ErrInvalidParameters, p.Simulation.BoxSize)
	}
	if !(p.Cosmology.Hubble > 0) {
		return fmt.Errorf("%w: hubble must be positive, got %g", ErrInvalidParameters, p.Cosmology.Hubble)
	}
	for _, sp := range AllSpecies() {
		if n := p.Count(sp); n < 0 {
			return fmt.Errorf("%w: %s count must not be negative, got %d", ErrInvalidParameters, sp, n)
		}
	}
	return nil
}

func (p Parameters) Count(sp Species) int {
	switch sp {
	case DarkMatter:
		return p.Particles.DarkMatter
	case Gas:
		return p.Particles.Gas
	case Stars:
		return p.Particles.Stars
	}
	return 0
}
