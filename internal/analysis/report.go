package analysis

import (
	"fmt"
	"time"

	"github.com/san-kum/galprof/internal/config"
	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/profile"
	"github.com/san-kum/galprof/internal/storage"
)

type ProfileResult struct {
	Config   config.ProfileConfig
	Profile  *profile.Profile
	Path     string
	Selected int
}

// Report is the outcome of one pipeline run.
type Report struct {
	RunID        string
	CreatedAt    time.Time
	Label        string
	Seed         uint64
	ParamFile    string
	Particles    int
	Centre       geom.Coords
	CentreSource string
	Profiles     []ProfileResult
	Kinematics   []KinematicsResult
	Elapsed      time.Duration
}

// FilterLabel renders a filter as "<kind> <value>", or "" for none.
func FilterLabel(f *config.FilterConfig) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%s %g", f.Kind, f.Value)
}

// Record converts the report into a catalogue record.
func (r *Report) Record() *storage.Run {
	run := &storage.Run{
		ID:        r.RunID,
		Label:     r.Label,
		Seed:      int64(r.Seed),
		ParamFile: r.ParamFile,
		Dims:      geom.NDims,
		Particles: r.Particles,
		CreatedAt: r.CreatedAt,
	}

	for _, pr := range r.Profiles {
		sp := storage.Profile{
			Name:    pr.Config.Name,
			Species: pr.Config.Species,
			Kind:    pr.Profile.Kind().String(),
			Filter:  FilterLabel(pr.Config.Filter),
			RMin:    pr.Profile.Range().Min,
			RMax:    pr.Profile.Range().Max,
			LogBins: pr.Profile.LogBins(),
			Path:    pr.Path,
		}
		for _, b := range pr.Profile.Bins() {
			sp.Bins = append(sp.Bins, storage.Bin{
				Inner:  b.Inner,
				Outer:  b.Outer,
				Radius: b.Radius,
				Volume: b.Volume,
				Value:  b.Value,
				Count:  b.Count,
			})
		}
		run.Profiles = append(run.Profiles, sp)
	}

	for _, k := range r.Kinematics {
		sk := storage.Kinematics{
			Name:         k.Config.Name,
			Species:      k.Config.Species,
			Filter:       FilterLabel(k.Config.Filter),
			Count:        k.Count,
			CentreOfMass: geom.Components(k.CentreOfMass),
			Dispersion:   k.Dispersion,
		}
		if k.HasAngularMomentum {
			sk.AngularMomentum = geom.Components(k.AngularMomentum)
		}
		run.Kinematics = append(run.Kinematics, sk)
	}
	return run
}
