package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vector is the constraint satisfied by the coordinate types of this package.
type Vector[V any] interface {
	comparable
	Add(V) V
	Sub(V) V
	Scale(float64) V
	Dot(V) float64
	Norm() float64
	Dim() int
	At(i int) float64
}

type Vec2 r2.Vec

func (v Vec2) Add(w Vec2) Vec2       { return Vec2(r2.Add(r2.Vec(v), r2.Vec(w))) }
func (v Vec2) Sub(w Vec2) Vec2       { return Vec2(r2.Sub(r2.Vec(v), r2.Vec(w))) }
func (v Vec2) Scale(f float64) Vec2  { return Vec2(r2.Scale(f, r2.Vec(v))) }
func (v Vec2) Dot(w Vec2) float64    { return r2.Dot(r2.Vec(v), r2.Vec(w)) }
func (v Vec2) Norm() float64         { return r2.Norm(r2.Vec(v)) }
func (v Vec2) Dim() int              { return 2 }
func (v Vec2) String() string        { return fmt.Sprintf("[%g, %g]", v.X, v.Y) }
func (v Vec2) Components() []float64 { return []float64{v.X, v.Y} }

func (v Vec2) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	panic(fmt.Sprintf("geom: index %d out of range for Vec2", i))
}

type Vec3 r3.Vec

func (v Vec3) Add(w Vec3) Vec3       { return Vec3(r3.Add(r3.Vec(v), r3.Vec(w))) }
func (v Vec3) Sub(w Vec3) Vec3       { return Vec3(r3.Sub(r3.Vec(v), r3.Vec(w))) }
func (v Vec3) Scale(f float64) Vec3  { return Vec3(r3.Scale(f, r3.Vec(v))) }
func (v Vec3) Dot(w Vec3) float64    { return r3.Dot(r3.Vec(v), r3.Vec(w)) }
func (v Vec3) Norm() float64         { return r3.Norm(r3.Vec(v)) }
func (v Vec3) Dim() int              { return 3 }
func (v Vec3) String() string        { return fmt.Sprintf("[%g, %g, %g]", v.X, v.Y, v.Z) }
func (v Vec3) Components() []float64 { return []float64{v.X, v.Y, v.Z} }

// Cross returns v × w.
func (v Vec3) Cross(w Vec3) Vec3 { return Vec3(r3.Cross(r3.Vec(v), r3.Vec(w))) }

func (v Vec3) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("geom: index %d out of range for Vec3", i))
}

// Dims reports the dimensionality of the vector type V.
func Dims[V Vector[V]]() int {
	var zero V
	return zero.Dim()
}

// Make builds a V from its components. Missing components are zero and extra
// components are ignored.
func Make[V Vector[V]](c ...float64) V {
	at := func(i int) float64 {
		if i < len(c) {
			return c[i]
		}
		return 0
	}
	var zero V
	switch any(zero).(type) {
	case Vec2:
		return any(Vec2{X: at(0), Y: at(1)}).(V)
	case Vec3:
		return any(Vec3{X: at(0), Y: at(1), Z: at(2)}).(V)
	}
	panic(fmt.Sprintf("geom: unsupported vector type %T", zero))
}

// Components returns the components of v in index order.
func Components[V Vector[V]](v V) []float64 {
	out := make([]float64, v.Dim())
	for i := range out {
		out[i] = v.At(i)
	}
	return out
}

// Distance returns |a - b|.
func Distance[V Vector[V]](a, b V) float64 {
	return a.Sub(b).Norm()
}

// IsFinite reports whether no component of v is NaN or Inf.
func IsFinite[V Vector[V]](v V) bool {
	for i := 0; i < v.Dim(); i++ {
		x := v.At(i)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
