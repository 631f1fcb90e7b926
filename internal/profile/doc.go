// Package profile bins particles by distance from a centre and aggregates a
// physical quantity per radial bin.
//
// A [Profile] is built in one pass by [New] and is read-only afterwards:
//
//	p, err := profile.New(stars, centre, profile.AvgMetallicity,
//	    profile.Range{Min: 0, Max: 5}, 20)
//	if err != nil {
//	    return err
//	}
//	err = p.WriteText("stellar_metallicity_profile.txt")
//
// Bins are uniform in radius, or in log10(radius) with [LogBins]. Each bin
// records a spherical shell volume for 3D coordinates and an annulus area for
// 2D coordinates.
//
// # Kinds
//
// The [Kind] selects the per-particle contribution and the post-processing:
//
//   - [Density]: mass per unit volume (area in 2D)
//   - [CumulativeMass]: mass enclosed up to the outer edge of the bin
//   - [AvgMetallicity], [AvgCarbonFraction], [AvgAge]: mean over the bin
//
// Averages need particles exposing the matching accessor
// ([particle.Metallic], [particle.Abundant], [particle.Aged]); asking for
// one the particle type lacks fails with [ErrUnsupportedKind].
package profile
