package dynamics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/particle"
)

func masses[V geom.Vector[V], P particle.Body[V]](ps []P) []float64 {
	m := make([]float64, len(ps))
	for i, p := range ps {
		m[i] = p.Mass()
	}
	return m
}

// TotalMass returns the summed mass of ps.
func TotalMass[V geom.Vector[V], P particle.Body[V]](ps []P) float64 {
	return floats.Sum(masses[V](ps))
}

// CentreOfMass returns Σ m_i r_i / Σ m_i. An empty or massless collection
// gives NaN components.
func CentreOfMass[V geom.Vector[V], P particle.Body[V]](ps []P) V {
	var weighted V
	total := 0.0
	for _, p := range ps {
		weighted = weighted.Add(p.Position().Scale(p.Mass()))
		total += p.Mass()
	}
	return weighted.Scale(1 / total)
}

// AngularMomentum returns the specific angular momentum Σ m_i (r_i × v_i) / Σ m_i.
// It fails with ErrRequires3D for 2D coordinates.
func AngularMomentum[V geom.Vector[V], P particle.Body[V]](ps []P) (geom.Vec3, error) {
	if geom.Dims[V]() != 3 {
		return geom.Vec3{}, ErrRequires3D
	}

	var l geom.Vec3
	total := 0.0
	for _, p := range ps {
		r := geom.Make[geom.Vec3](geom.Components(p.Position())...)
		v := geom.Make[geom.Vec3](geom.Components(p.Velocity())...)
		l = l.Add(r.Cross(v).Scale(p.Mass()))
		total += p.Mass()
	}
	return l.Scale(1 / total), nil
}

// VelocityDispersion returns sqrt(Σ m|v|²/M − Σ m²|v|²/M²), summed over all
// components together. A negative radicand yields NaN.
func VelocityDispersion[V geom.Vector[V], P particle.Body[V]](ps []P) float64 {
	var first, second, total float64
	for _, p := range ps {
		v2 := p.Velocity().Dot(p.Velocity())
		m := p.Mass()
		first += m * v2
		second += m * m * v2
		total += m
	}
	return math.Sqrt(first/total - second/(total*total))
}
