package particle

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/galprof/internal/geom"
)

// AgeOfUniverse is the upper bound of generated stellar ages, in Gyr.
const AgeOfUniverse = 13.7

// Interval is a closed range [Min, Max].
type Interval struct {
	Min, Max float64
}

// Ranges are the distributions used by a Generator. Temperature is sampled
// log-uniformly; everything else uniformly.
type Ranges struct {
	Mass            Interval
	Position        Interval
	Velocity        Interval
	Metallicity     Interval
	Abundance       Interval
	SmoothingLength Interval
	Temperature     Interval
	Age             Interval
}

func DefaultRanges() Ranges {
	return Ranges{
		Mass:            Interval{0, 1},
		Position:        Interval{0, 10},
		Velocity:        Interval{0, 100},
		Metallicity:     Interval{-6, 2},
		Abundance:       Interval{0, 1},
		SmoothingLength: Interval{0, 0.1},
		Temperature:     Interval{1e3, 1e9},
		Age:             Interval{0, AgeOfUniverse},
	}
}

// Generator fills particles with random properties. It stands in for the
// snapshot readers and is deterministic for a given seed.
type Generator[V geom.Vector[V]] struct {
	ids    *IDSource
	src    rand.Source
	ranges Ranges
}

func NewGenerator[V geom.Vector[V]](ids *IDSource, seed uint64, ranges Ranges) *Generator[V] {
	return &Generator[V]{ids: ids, src: rand.NewSource(seed), ranges: ranges}
}

func (g *Generator[V]) uniform(iv Interval) float64 {
	return distuv.Uniform{Min: iv.Min, Max: iv.Max, Src: g.src}.Rand()
}

func (g *Generator[V]) logUniform(iv Interval) float64 {
	lo := Interval{math.Log10(iv.Min), math.Log10(iv.Max)}
	return math.Pow(10, g.uniform(lo))
}

func (g *Generator[V]) vector(iv Interval) V {
	c := make([]float64, geom.Dims[V]())
	for i := range c {
		c[i] = g.uniform(iv)
	}
	return geom.Make[V](c...)
}

// Particle returns a dark matter particle.
func (g *Generator[V]) Particle() Particle[V] {
	p := Blank[V](g.ids)
	p.mass = g.uniform(g.ranges.Mass)
	p.position = g.vector(g.ranges.Position)
	p.velocity = g.vector(g.ranges.Velocity)
	return p
}

func (g *Generator[V]) baryonic() Baryonic[V] {
	b := blankBaryonic[V](g.ids)
	b.mass = g.uniform(g.ranges.Mass)
	b.position = g.vector(g.ranges.Position)
	b.velocity = g.vector(g.ranges.Velocity)
	b.metallicity = g.uniform(g.ranges.Metallicity)
	for i := range b.abundances {
		b.abundances[i] = g.uniform(g.ranges.Abundance)
	}
	return b
}

func (g *Generator[V]) Gas() Gas[V] {
	return Gas[V]{
		Baryonic:        g.baryonic(),
		smoothingLength: g.uniform(g.ranges.SmoothingLength),
		temperature:     g.logUniform(g.ranges.Temperature),
	}
}

func (g *Generator[V]) Star() Star[V] {
	return Star[V]{Baryonic: g.baryonic(), age: g.uniform(g.ranges.Age)}
}
