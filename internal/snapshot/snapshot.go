package snapshot

import (
	"fmt"

	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/particle"
)

// Simulation holds the particles of one snapshot, split by species.
type Simulation struct {
	Params     Parameters
	DarkMatter []particle.Particle[geom.Coords]
	Gas        []particle.Gas[geom.Coords]
	Stars      []particle.Star[geom.Coords]
}

// Open loads the parameter file at paramPath and populates a snapshot from
// it. The same seed always yields the same particles.
func Open(paramPath string, seed uint64) (*Simulation, error) {
	params, err := LoadParameters(paramPath)
	if err != nil {
		return nil, err
	}
	return Generate(params, seed), nil
}

// Generate fills a snapshot with random particles spread over the box.
// Particle ids are unique across species.
func Generate(params Parameters, seed uint64) *Simulation {
	ranges := particle.DefaultRanges()
	ranges.Position = particle.Interval{Min: 0, Max: params.Simulation.BoxSize}
	ranges.Age = particle.Interval{Min: 0, Max: params.Simulation.Time}

	gen := particle.NewGenerator[geom.Coords](particle.NewIDSource(), seed, ranges)

	sim := &Simulation{
		Params:     params,
		DarkMatter: make([]particle.Particle[geom.Coords], params.Particles.DarkMatter),
		Gas:        make([]particle.Gas[geom.Coords], params.Particles.Gas),
		Stars:      make([]particle.Star[geom.Coords], params.Particles.Stars),
	}
	for i := range sim.DarkMatter {
		sim.DarkMatter[i] = gen.Particle()
	}
	for i := range sim.Gas {
		sim.Gas[i] = gen.Gas()
	}
	for i := range sim.Stars {
		sim.Stars[i] = gen.Star()
	}
	return sim
}

// Bodies returns a read-only view of one species.
func (s *Simulation) Bodies(sp Species) []particle.Body[geom.Coords] {
	var out []particle.Body[geom.Coords]
	switch sp {
	case DarkMatter:
		out = make([]particle.Body[geom.Coords], len(s.DarkMatter))
		for i, p := range s.DarkMatter {
			out[i] = p
		}
	case Gas:
		out = make([]particle.Body[geom.Coords], len(s.Gas))
		for i, p := range s.Gas {
			out[i] = p
		}
	case Stars:
		out = make([]particle.Body[geom.Coords], len(s.Stars))
		for i, p := range s.Stars {
			out[i] = p
		}
	}
	return out
}

func (s *Simulation) Count(sp Species) int {
	switch sp {
	case DarkMatter:
		return len(s.DarkMatter)
	case Gas:
		return len(s.Gas)
	case Stars:
		return len(s.Stars)
	}
	return 0
}

func (s *Simulation) Counts() map[Species]int {
	counts := make(map[Species]int, 3)
	for _, sp := range AllSpecies() {
		counts[sp] = s.Count(sp)
	}
	return counts
}

func (s *Simulation) Total() int {
	return len(s.DarkMatter) + len(s.Gas) + len(s.Stars)
}

func (s *Simulation) String() string {
	p := s.Params
	return fmt.Sprintf("%s: %d dark matter, %d gas, %d stars (box %g, z=%g, t=%g Gyr, h=%g, %dD)",
		p.Simulation.Label, len(s.DarkMatter), len(s.Gas), len(s.Stars),
		p.Simulation.BoxSize, p.Simulation.Redshift, p.Simulation.Time, p.Cosmology.Hubble, geom.NDims)
}
