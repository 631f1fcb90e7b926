package profile

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/particle"
)

// Range is the radial interval [Min, Max] covered by a profile. Both ends are
// inclusive: a particle exactly at Max falls in the last bin.
type Range struct {
	Min, Max float64
}

func (r Range) Contains(d float64) bool {
	return d >= r.Min && d <= r.Max
}

// Validate reports whether r can be split into n bins, linearly or in
// log10(radius). Both ends must be finite with Min < Max.
func (r Range) Validate(n int, logBins bool) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrBinCount, n)
	}
	if !(r.Max > r.Min) || !finite(r.Min) || !finite(r.Max) || !finite(r.Max-r.Min) {
		return fmt.Errorf("%w: got [%g, %g]", ErrRange, r.Min, r.Max)
	}
	if logBins && r.Min <= 0 {
		return fmt.Errorf("%w: got %g", ErrLogMinRadius, r.Min)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Bin is one radial shell. Volume holds the annulus area for 2D profiles.
type Bin struct {
	Inner  float64
	Outer  float64
	Radius float64
	Volume float64
	Value  float64
	Count  int
}

// Point is the exported (radius, value) pair of a bin.
type Point struct {
	Radius float64
	Value  float64
}

type settings struct {
	logBins bool
}

type Option func(*settings)

// LogBins spaces bin edges uniformly in log10(radius).
func LogBins() Option {
	return func(s *settings) { s.logBins = true }
}

// WithLogBins selects log spacing when on is true and linear spacing otherwise.
func WithLogBins(on bool) Option {
	return func(s *settings) { s.logBins = on }
}

// Profile is a finished radial profile. It is immutable once New returns.
type Profile struct {
	kind    Kind
	rng     Range
	logBins bool
	dims    int

	// scaled minimum radius and bin width
	lo, width float64

	bins []Bin
}

// New bins ps by distance from centre and computes a kind profile over r
// with n bins. Particles outside r are ignored.
func New[V geom.Vector[V], P particle.Body[V]](ps []P, centre V, kind Kind, r Range, n int, opts ...Option) (*Profile, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	contribute, err := contribution[V, P](kind)
	if err != nil {
		return nil, err
	}

	p := &Profile{kind: kind, rng: r, logBins: s.logBins, dims: geom.Dims[V]()}
	if err := p.setupBins(n); err != nil {
		return nil, err
	}

	for _, part := range ps {
		i := p.binIndex(geom.Distance(part.Position(), centre))
		if i < 0 {
			continue
		}
		p.bins[i].Value += contribute(part)
		p.bins[i].Count++
	}

	p.finish()
	return p, nil
}

// contribution resolves the per-particle quantity for kind. Capabilities are
// checked on the static type P.
func contribution[V geom.Vector[V], P particle.Body[V]](kind Kind) (func(P) float64, error) {
	var zero P
	switch kind {
	case Density, CumulativeMass:
		return func(p P) float64 { return p.Mass() }, nil
	case AvgMetallicity:
		if _, ok := any(zero).(particle.Metallic); ok {
			return func(p P) float64 { return any(p).(particle.Metallic).Metallicity() }, nil
		}
	case AvgCarbonFraction:
		if _, ok := any(zero).(particle.Abundant); ok {
			return func(p P) float64 { return any(p).(particle.Abundant).Abundance(particle.Carbon) }, nil
		}
	case AvgAge:
		if _, ok := any(zero).(particle.Aged); ok {
			return func(p P) float64 { return any(p).(particle.Aged).Age() }, nil
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	return nil, fmt.Errorf("%w: %s on %T", ErrUnsupportedKind, kind, zero)
}

func (p *Profile) scale(r float64) float64 {
	if p.logBins {
		return math.Log10(r)
	}
	return r
}

func (p *Profile) unscale(s float64) float64 {
	if p.logBins {
		return math.Pow(10, s)
	}
	return s
}

func (p *Profile) setupBins(n int) error {
	if err := p.rng.Validate(n, p.logBins); err != nil {
		return err
	}

	p.lo = p.scale(p.rng.Min)
	p.width = (p.scale(p.rng.Max) - p.lo) / float64(n)
	scaled := floats.Span(make([]float64, n+1), p.lo, p.scale(p.rng.Max))

	edges := make([]float64, n+1)
	for i, e := range scaled {
		edges[i] = p.unscale(e)
	}
	edges[0], edges[n] = p.rng.Min, p.rng.Max

	p.bins = make([]Bin, n)
	for i := range p.bins {
		inner, outer := edges[i], edges[i+1]
		vol := p.shellVolume(inner, outer)
		if !finite(vol) {
			return fmt.Errorf("%w: shell volume of [%g, %g] overflows", ErrRange, inner, outer)
		}
		p.bins[i] = Bin{
			Inner:  inner,
			Outer:  outer,
			Radius: p.unscale((scaled[i] + scaled[i+1]) / 2),
			Volume: vol,
		}
	}
	return nil
}

func (p *Profile) shellVolume(inner, outer float64) float64 {
	if p.dims == 3 {
		return 4 * math.Pi / 3 * (math.Pow(outer, 3) - math.Pow(inner, 3))
	}
	return math.Pi * (outer*outer - inner*inner)
}

// binIndex maps a distance to its bin, or -1 when it lies outside the range.
func (p *Profile) binIndex(d float64) int {
	if !p.rng.Contains(d) {
		return -1
	}
	i := int(math.Floor((p.scale(d) - p.lo) / p.width))
	if i < 0 {
		return 0
	}
	if i >= len(p.bins) {
		return len(p.bins) - 1
	}
	return i
}

func (p *Profile) finish() {
	for i := range p.bins {
		b := &p.bins[i]
		switch p.kind {
		case AvgAge, AvgCarbonFraction, AvgMetallicity:
			if b.Count > 0 {
				b.Value /= float64(b.Count)
			}
		case CumulativeMass:
			if i > 0 {
				b.Value += p.bins[i-1].Value
			}
		case Density:
			b.Value /= b.Volume
		}
	}
}

func (p *Profile) Kind() Kind    { return p.kind }
func (p *Profile) Range() Range  { return p.rng }
func (p *Profile) LogBins() bool { return p.logBins }
func (p *Profile) Dims() int     { return p.dims }
func (p *Profile) Len() int      { return len(p.bins) }
func (p *Profile) Bin(i int) Bin { return p.bins[i] }

// Bins returns a copy of the bins in index order.
func (p *Profile) Bins() []Bin {
	out := make([]Bin, len(p.bins))
	copy(out, p.bins)
	return out
}

// Points returns the (radius, value) pairs in index order.
func (p *Profile) Points() []Point {
	out := make([]Point, len(p.bins))
	for i, b := range p.bins {
		out[i] = Point{Radius: b.Radius, Value: b.Value}
	}
	return out
}

// TotalCount returns the number of particles assigned to any bin.
func (p *Profile) TotalCount() int {
	n := 0
	for _, b := range p.bins {
		n += b.Count
	}
	return n
}
