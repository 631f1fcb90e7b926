// Package dynamics computes bulk kinematic properties of particle
// collections:
//
//   - [CentreOfMass]: mass-weighted mean position
//   - [AngularMomentum]: specific angular momentum vector (3D only)
//   - [VelocityDispersion]: mass-weighted velocity dispersion
//
// The functions are generic over the coordinate type and the particle type
// and never modify their input. Numerical edge cases (empty collections,
// zero total mass, a negative dispersion radicand) produce NaN or Inf rather
// than errors.
//
// # Example
//
//	com := dynamics.CentreOfMass[geom.Vec3](sim.DarkMatter)
//	l, err := dynamics.AngularMomentum[geom.Vec3](hotGas)
package dynamics
