//go:build ndims2

package geom

// Coords is the coordinate type used by the application build.
type Coords = Vec2

// NDims is the number of spatial dimensions of Coords.
const NDims = 2
