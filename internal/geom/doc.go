// Package geom provides the fixed-dimension coordinate types shared by
// particles, dynamics and profiles.
//
// Two vector types implement [Vector]:
//
//   - [Vec2]: planar coordinates, backed by gonum's spatial/r2
//   - [Vec3]: spatial coordinates, backed by gonum's spatial/r3
//
// Library code is generic over the vector type. Applications use [Coords],
// which is [Vec3] unless the module is built with the ndims2 tag:
//
//	go build -tags ndims2 ./cmd/galprof
package geom
