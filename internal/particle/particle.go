package particle

import "github.com/san-kum/galprof/internal/geom"

// Values marking unset properties.
const (
	MassNotSet            = -1.0
	PositionNotSet        = -1.0
	VelocityNotSet        = -1.0
	MetallicityNotSet     = 99.0
	AbundanceNotSet       = -1.0
	SmoothingLengthNotSet = -1.0
	TemperatureNotSet     = -1.0
	AgeNotSet             = -1.0
)

// ID identifies a particle within the IDSource that issued it.
type ID uint64

// IDSource issues sequential particle IDs starting at zero. It is not safe
// for concurrent use.
type IDSource struct {
	next ID
}

func NewIDSource() *IDSource { return &IDSource{} }

// Next returns the next unused ID.
func (s *IDSource) Next() ID {
	id := s.next
	s.next++
	return id
}

// Issued reports how many IDs have been handed out.
func (s *IDSource) Issued() int { return int(s.next) }

// Body is the read-only view shared by every particle type.
type Body[V geom.Vector[V]] interface {
	ID() ID
	Mass() float64
	Position() V
	Velocity() V
}

// Metallic is implemented by particles carrying a metallicity.
type Metallic interface {
	Metallicity() float64
}

// Abundant is implemented by particles carrying element mass fractions.
type Abundant interface {
	Abundance(Element) float64
}

// Aged is implemented by star-like particles.
type Aged interface {
	Age() float64
}

// Thermal is implemented by gas-like particles.
type Thermal interface {
	Temperature() float64
}

// Smoothed is implemented by particles with an SPH smoothing length.
type Smoothed interface {
	SmoothingLength() float64
}

// Particle is the base record: an id, a mass, a position and a velocity.
// Dark matter particles use it directly.
type Particle[V geom.Vector[V]] struct {
	id       ID
	mass     float64
	position V
	velocity V
}

func New[V geom.Vector[V]](ids *IDSource, mass float64, position, velocity V) Particle[V] {
	return Particle[V]{id: ids.Next(), mass: mass, position: position, velocity: velocity}
}

// Blank returns a particle whose properties are all unset.
func Blank[V geom.Vector[V]](ids *IDSource) Particle[V] {
	pos := make([]float64, geom.Dims[V]())
	vel := make([]float64, len(pos))
	for i := range pos {
		pos[i] = PositionNotSet
		vel[i] = VelocityNotSet
	}
	return Particle[V]{
		id:       ids.Next(),
		mass:     MassNotSet,
		position: geom.Make[V](pos...),
		velocity: geom.Make[V](vel...),
	}
}

func (p Particle[V]) ID() ID        { return p.id }
func (p Particle[V]) Mass() float64 { return p.mass }
func (p Particle[V]) Position() V   { return p.position }
func (p Particle[V]) Velocity() V   { return p.velocity }
func (p Particle[V]) HasMass() bool { return p.mass != MassNotSet }

// DistanceFrom returns the distance between the particle and location.
func (p Particle[V]) DistanceFrom(location V) float64 {
	return geom.Distance(p.position, location)
}

// Translate returns a copy of p moved by displacement.
func (p Particle[V]) Translate(displacement V) Particle[V] {
	p.position = p.position.Add(displacement)
	return p
}

// Baryonic adds a metallicity and element mass fractions to Particle. It is
// the common part of Gas and Star.
type Baryonic[V geom.Vector[V]] struct {
	Particle[V]
	metallicity float64
	abundances  Abundances
}

func (b Baryonic[V]) Metallicity() float64 { return b.metallicity }

func (b Baryonic[V]) Abundance(e Element) float64 {
	if e < 0 || e >= NumElements {
		return AbundanceNotSet
	}
	return b.abundances[e]
}

// Abundances returns a copy of the element mass fractions.
func (b Baryonic[V]) Abundances() Abundances { return b.abundances }

func blankBaryonic[V geom.Vector[V]](ids *IDSource) Baryonic[V] {
	b := Baryonic[V]{Particle: Blank[V](ids), metallicity: MetallicityNotSet}
	for i := range b.abundances {
		b.abundances[i] = AbundanceNotSet
	}
	return b
}

// Gas is a hydrodynamic particle with a smoothing length and a temperature.
type Gas[V geom.Vector[V]] struct {
	Baryonic[V]
	smoothingLength float64
	temperature     float64
}

func NewGas[V geom.Vector[V]](base Particle[V], metallicity float64, abundances Abundances, smoothingLength, temperature float64) Gas[V] {
	return Gas[V]{
		Baryonic:        Baryonic[V]{Particle: base, metallicity: metallicity, abundances: abundances},
		smoothingLength: smoothingLength,
		temperature:     temperature,
	}
}

// BlankGas returns a gas particle whose properties are all unset.
func BlankGas[V geom.Vector[V]](ids *IDSource) Gas[V] {
	return Gas[V]{
		Baryonic:        blankBaryonic[V](ids),
		smoothingLength: SmoothingLengthNotSet,
		temperature:     TemperatureNotSet,
	}
}

func (g Gas[V]) SmoothingLength() float64 { return g.smoothingLength }
func (g Gas[V]) Temperature() float64     { return g.temperature }

// Star is a stellar particle; Age is the time since it formed, in Gyr.
type Star[V geom.Vector[V]] struct {
	Baryonic[V]
	age float64
}

func NewStar[V geom.Vector[V]](base Particle[V], metallicity float64, abundances Abundances, age float64) Star[V] {
	return Star[V]{
		Baryonic: Baryonic[V]{Particle: base, metallicity: metallicity, abundances: abundances},
		age:      age,
	}
}

// BlankStar returns a star particle whose properties are all unset.
func BlankStar[V geom.Vector[V]](ids *IDSource) Star[V] {
	return Star[V]{Baryonic: blankBaryonic[V](ids), age: AgeNotSet}
}

func (s Star[V]) Age() float64 { return s.age }
