package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/san-kum/galprof/internal/config"
	"github.com/san-kum/galprof/internal/dynamics"
	"github.com/san-kum/galprof/internal/filter"
	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/particle"
	"github.com/san-kum/galprof/internal/profile"
	"github.com/san-kum/galprof/internal/snapshot"
	"github.com/san-kum/galprof/internal/storage"
)

// Pipeline runs every profile and kinematics entry of a Config against one
// snapshot. Store and Logger are optional.
type Pipeline struct {
	Config     *config.Config
	Simulation *snapshot.Simulation
	Store      *storage.Store
	Logger     *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Run validates the configuration, computes every result, writes one text
// file per profile to the output directory and records the run when a store
// is set. Cancellation is checked between entries.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if p.Config == nil || p.Simulation == nil {
		return nil, fmt.Errorf("analysis: pipeline needs a config and a simulation")
	}
	if err := p.Config.Validate(); err != nil {
		return nil, err
	}
	log := p.logger()
	start := time.Now()

	centre, source, err := ResolveCentre(p.Simulation, p.Config.Centre)
	if err != nil {
		return nil, err
	}
	log.Info("resolved centre", "centre", centre, "from", source)

	report := &Report{
		Label:        p.Config.Label,
		Seed:         p.Config.Seed,
		ParamFile:    p.Config.ParamFile,
		Particles:    p.Simulation.Total(),
		Centre:       centre,
		CentreSource: source,
	}

	if len(p.Config.Profiles) > 0 {
		if err := os.MkdirAll(p.Config.OutputDir, 0755); err != nil {
			return report, &profile.WriteError{Path: p.Config.OutputDir, Wrapped: err}
		}
	}

	for _, pc := range p.Config.Profiles {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		prof, selected, err := ComputeProfile(p.Simulation, pc, centre)
		if err != nil {
			return report, fmt.Errorf("profile %s: %w", pc.Name, err)
		}
		path := filepath.Join(p.Config.OutputDir, pc.Name+".txt")
		if err := prof.WriteText(path); err != nil {
			if len(report.Profiles) > 0 {
				log.Warn("run not recorded, earlier profile files were written", "written", len(report.Profiles))
			}
			return report, fmt.Errorf("profile %s: %w", pc.Name, err)
		}
		log.Debug("computed profile", "profile", pc.Name, "particles", selected, "binned", prof.TotalCount())

		report.Profiles = append(report.Profiles, ProfileResult{
			Config:   pc,
			Profile:  prof,
			Path:     path,
			Selected: selected,
		})
	}

	for _, kc := range p.Config.Kinematics {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		res, err := ComputeKinematics(p.Simulation, kc)
		if err != nil {
			return report, fmt.Errorf("kinematics %s: %w", kc.Name, err)
		}
		if !res.HasAngularMomentum {
			log.Warn("angular momentum undefined", "kinematics", kc.Name, "dims", geom.NDims)
		}
		report.Kinematics = append(report.Kinematics, res)
	}

	report.Elapsed = time.Since(start)

	if p.Store != nil {
		run := report.Record()
		if err := p.Store.SaveRun(ctx, run); err != nil {
			return report, fmt.Errorf("record run: %w", err)
		}
		report.RunID = run.ID
		report.CreatedAt = run.CreatedAt
	}

	log.Info("analysis complete", "label", report.Label, "profiles", len(report.Profiles),
		"kinematics", len(report.Kinematics), "elapsed", report.Elapsed)
	return report, nil
}

// ResolveCentre returns the explicit centre point, or the centre of mass of
// the configured species.
func ResolveCentre(sim *snapshot.Simulation, cc config.CentreConfig) (geom.Coords, string, error) {
	if c, ok := cc.CentrePoint(); ok {
		return c, "point", nil
	}
	sp, err := snapshot.ParseSpecies(cc.Species)
	if err != nil {
		return geom.Coords{}, "", err
	}
	return dynamics.CentreOfMass[geom.Coords](sim.Bodies(sp)), "centre of mass of " + sp.String(), nil
}

// ComputeProfile selects and filters a species and bins it around centre. It
// also returns how many particles passed the filter.
func ComputeProfile(sim *snapshot.Simulation, pc config.ProfileConfig, centre geom.Coords) (*profile.Profile, int, error) {
	sp, err := snapshot.ParseSpecies(pc.Species)
	if err != nil {
		return nil, 0, err
	}
	kind, err := profile.ParseKind(pc.Kind)
	if err != nil {
		return nil, 0, err
	}

	switch sp {
	case snapshot.DarkMatter:
		return profileOf(sim.DarkMatter, centre, kind, pc)
	case snapshot.Gas:
		return profileOf(sim.Gas, centre, kind, pc)
	default:
		return profileOf(sim.Stars, centre, kind, pc)
	}
}

func profileOf[P particle.Body[geom.Coords]](ps []P, centre geom.Coords, kind profile.Kind, pc config.ProfileConfig) (*profile.Profile, int, error) {
	sel, err := selectParticles(ps, pc.Filter)
	if err != nil {
		return nil, 0, err
	}
	r := profile.Range{Min: pc.RMin, Max: pc.RMax}
	prof, err := profile.New(sel, centre, kind, r, pc.Bins, profile.WithLogBins(pc.Log))
	if err != nil {
		return nil, 0, err
	}
	return prof, len(sel), nil
}

// KinematicsResult summarises the bulk motion of a (filtered) species.
// AngularMomentum is only meaningful when HasAngularMomentum is set.
type KinematicsResult struct {
	Config             config.KinematicsConfig
	Count              int
	CentreOfMass       geom.Coords
	AngularMomentum    geom.Vec3
	HasAngularMomentum bool
	Dispersion         float64
}

// ComputeKinematics returns the centre of mass, specific angular momentum and
// velocity dispersion of a species. Angular momentum is left unset when the
// build has fewer than three dimensions.
func ComputeKinematics(sim *snapshot.Simulation, kc config.KinematicsConfig) (KinematicsResult, error) {
	sp, err := snapshot.ParseSpecies(kc.Species)
	if err != nil {
		return KinematicsResult{}, err
	}

	switch sp {
	case snapshot.DarkMatter:
		return kinematicsOf(sim.DarkMatter, kc)
	case snapshot.Gas:
		return kinematicsOf(sim.Gas, kc)
	default:
		return kinematicsOf(sim.Stars, kc)
	}
}

func kinematicsOf[P particle.Body[geom.Coords]](ps []P, kc config.KinematicsConfig) (KinematicsResult, error) {
	sel, err := selectParticles(ps, kc.Filter)
	if err != nil {
		return KinematicsResult{}, err
	}

	res := KinematicsResult{
		Config:       kc,
		Count:        len(sel),
		CentreOfMass: dynamics.CentreOfMass[geom.Coords](sel),
		Dispersion:   dynamics.VelocityDispersion[geom.Coords](sel),
	}

	l, err := dynamics.AngularMomentum[geom.Coords](sel)
	switch {
	case errors.Is(err, dynamics.ErrDomain):
	case err != nil:
		return KinematicsResult{}, err
	default:
		res.AngularMomentum = l
		res.HasAngularMomentum = true
	}
	return res, nil
}

func selectParticles[P any](ps []P, f *config.FilterConfig) ([]P, error) {
	if f == nil {
		return ps, nil
	}
	kind, err := filter.ParseKind(f.Kind)
	if err != nil {
		return nil, err
	}
	return filter.Apply(ps, kind, f.Value)
}
