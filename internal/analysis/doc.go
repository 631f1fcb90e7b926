// Package analysis runs a configured set of radial profiles and kinematics
// summaries against a snapshot.
//
// A [Pipeline] ties the pieces together:
//
//   - [ResolveCentre]: explicit centre point, or centre of mass of a species
//   - [ComputeProfile]: select, filter and bin one species
//   - [ComputeKinematics]: centre of mass, angular momentum and dispersion
//   - [Report.Record]: convert results into a catalogue record
//
// # Example
//
//	p := &analysis.Pipeline{Config: cfg, Simulation: sim, Store: st}
//	report, err := p.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.RunID)
package analysis
