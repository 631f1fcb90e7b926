package storage

import (
	"database/sql/driver"
	"fmt"
	"math"
	"time"
)

// Run is one recorded analysis.
type Run struct {
	ID        string
	Label     string
	Seed      int64
	ParamFile string
	Dims      int
	Particles int
	CreatedAt time.Time

	Profiles   []Profile
	Kinematics []Kinematics

	// Filled by ListRuns, which does not load the records themselves.
	NumProfiles   int
	NumKinematics int
}

// Profile is a stored radial profile.
type Profile struct {
	Name    string
	Species string
	Kind    string
	Filter  string
	RMin    float64
	RMax    float64
	LogBins bool
	Path    string
	Bins    []Bin
}

type Bin struct {
	Inner  float64
	Outer  float64
	Radius float64
	Volume float64
	Value  float64
	Count  int
}

// Kinematics is a stored dynamics summary. AngularMomentum is nil when it was
// undefined for the run's geometry.
type Kinematics struct {
	Name            string
	Species         string
	Filter          string
	Count           int
	CentreOfMass    []float64
	AngularMomentum []float64
	Dispersion      float64
}

// nullFloat stores NaN as NULL.
type nullFloat float64

func (f nullFloat) Value() (driver.Value, error) {
	if math.IsNaN(float64(f)) {
		return nil, nil
	}
	return float64(f), nil
}

func (f *nullFloat) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = nullFloat(math.NaN())
	case float64:
		*f = nullFloat(v)
	case int64:
		*f = nullFloat(v)
	default:
		return fmt.Errorf("storage: can't scan %T into a float", src)
	}
	return nil
}

func padded(v []float64) [3]nullFloat {
	out := [3]nullFloat{nullFloat(math.NaN()), nullFloat(math.NaN()), nullFloat(math.NaN())}
	for i := 0; i < len(v) && i < 3; i++ {
		out[i] = nullFloat(v[i])
	}
	return out
}

type runRow struct {
	ID            string `db:"id"`
	Label         string `db:"label"`
	Seed          int64  `db:"seed"`
	ParamFile     string `db:"param_file"`
	Dims          int    `db:"dims"`
	Particles     int    `db:"particles"`
	CreatedAt     int64  `db:"created_at"`
	NumProfiles   int    `db:"n_profiles"`
	NumKinematics int    `db:"n_kinematics"`
}

func (r runRow) run() Run {
	return Run{
		ID:            r.ID,
		Label:         r.Label,
		Seed:          r.Seed,
		ParamFile:     r.ParamFile,
		Dims:          r.Dims,
		Particles:     r.Particles,
		CreatedAt:     time.Unix(0, r.CreatedAt),
		NumProfiles:   r.NumProfiles,
		NumKinematics: r.NumKinematics,
	}
}

type profileRow struct {
	ID      int64   `db:"id"`
	RunID   string  `db:"run_id"`
	Name    string  `db:"name"`
	Species string  `db:"species"`
	Kind    string  `db:"kind"`
	Filter  string  `db:"filter"`
	RMin    float64 `db:"rmin"`
	RMax    float64 `db:"rmax"`
	LogBins bool    `db:"log_bins"`
	Path    string  `db:"path"`
}

func (r profileRow) profile() Profile {
	return Profile{
		Name:    r.Name,
		Species: r.Species,
		Kind:    r.Kind,
		Filter:  r.Filter,
		RMin:    r.RMin,
		RMax:    r.RMax,
		LogBins: r.LogBins,
		Path:    r.Path,
	}
}

type binRow struct {
	ProfileID int64     `db:"profile_id"`
	Index     int       `db:"idx"`
	Inner     float64   `db:"inner_radius"`
	Outer     float64   `db:"outer_radius"`
	Radius    float64   `db:"radius"`
	Volume    float64   `db:"volume"`
	Value     nullFloat `db:"value"`
	Count     int       `db:"n_particles"`
}

func (r binRow) bin() Bin {
	return Bin{
		Inner:  r.Inner,
		Outer:  r.Outer,
		Radius: r.Radius,
		Volume: r.Volume,
		Value:  float64(r.Value),
		Count:  r.Count,
	}
}

type kinematicsRow struct {
	ID         int64     `db:"id"`
	RunID      string    `db:"run_id"`
	Name       string    `db:"name"`
	Species    string    `db:"species"`
	Filter     string    `db:"filter"`
	Count      int       `db:"n_particles"`
	ComX       nullFloat `db:"com_x"`
	ComY       nullFloat `db:"com_y"`
	ComZ       nullFloat `db:"com_z"`
	HasL       bool      `db:"has_angular_momentum"`
	LX         nullFloat `db:"l_x"`
	LY         nullFloat `db:"l_y"`
	LZ         nullFloat `db:"l_z"`
	Dispersion nullFloat `db:"dispersion"`
}

func (r kinematicsRow) kinematics(dims int) Kinematics {
	com := []float64{float64(r.ComX), float64(r.ComY), float64(r.ComZ)}
	if dims >= 1 && dims < 3 {
		com = com[:dims]
	}
	k := Kinematics{
		Name:         r.Name,
		Species:      r.Species,
		Filter:       r.Filter,
		Count:        r.Count,
		CentreOfMass: com,
		Dispersion:   float64(r.Dispersion),
	}
	if r.HasL {
		k.AngularMomentum = []float64{float64(r.LX), float64(r.LY), float64(r.LZ)}
	}
	return k
}
