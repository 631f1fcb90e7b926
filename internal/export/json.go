package export

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/san-kum/galprof/internal/storage"
)

// Number is a float64 that encodes NaN and infinities as null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func numbers(v []float64) []Number {
	if v == nil {
		return nil
	}
	out := make([]Number, len(v))
	for i, f := range v {
		out[i] = Number(f)
	}
	return out
}

type ExportData struct {
	ID         string           `json:"id"`
	Label      string           `json:"label"`
	Seed       int64            `json:"seed"`
	ParamFile  string           `json:"param_file,omitempty"`
	Dims       int              `json:"dims"`
	Particles  int              `json:"particles"`
	CreatedAt  time.Time        `json:"created_at"`
	Profiles   []ProfileData    `json:"profiles"`
	Kinematics []KinematicsData `json:"kinematics"`
}

type ProfileData struct {
	Name    string   `json:"name"`
	Species string   `json:"species"`
	Kind    string   `json:"kind"`
	Filter  string   `json:"filter,omitempty"`
	RMin    Number   `json:"rmin"`
	RMax    Number   `json:"rmax"`
	LogBins bool     `json:"log_bins"`
	Path    string   `json:"path,omitempty"`
	Bins    int      `json:"bins"`
	Radii   []Number `json:"radii"`
	Values  []Number `json:"values"`
	Counts  []int    `json:"counts"`
}

type KinematicsData struct {
	Name            string   `json:"name"`
	Species         string   `json:"species"`
	Filter          string   `json:"filter,omitempty"`
	Count           int      `json:"count"`
	CentreOfMass    []Number `json:"centre_of_mass"`
	AngularMomentum []Number `json:"angular_momentum"`
	Dispersion      Number   `json:"velocity_dispersion"`
}

func newExportData(run *storage.Run) ExportData {
	data := ExportData{
		ID:         run.ID,
		Label:      run.Label,
		Seed:       run.Seed,
		ParamFile:  run.ParamFile,
		Dims:       run.Dims,
		Particles:  run.Particles,
		CreatedAt:  run.CreatedAt.UTC(),
		Profiles:   make([]ProfileData, len(run.Profiles)),
		Kinematics: make([]KinematicsData, len(run.Kinematics)),
	}

	for i, p := range run.Profiles {
		pd := ProfileData{
			Name:    p.Name,
			Species: p.Species,
			Kind:    p.Kind,
			Filter:  p.Filter,
			RMin:    Number(p.RMin),
			RMax:    Number(p.RMax),
			LogBins: p.LogBins,
			Path:    p.Path,
			Bins:    len(p.Bins),
			Radii:   make([]Number, len(p.Bins)),
			Values:  make([]Number, len(p.Bins)),
			Counts:  make([]int, len(p.Bins)),
		}
		for j, b := range p.Bins {
			pd.Radii[j] = Number(b.Radius)
			pd.Values[j] = Number(b.Value)
			pd.Counts[j] = b.Count
		}
		data.Profiles[i] = pd
	}
	for i, k := range run.Kinematics {
		data.Kinematics[i] = KinematicsData{
			Name:            k.Name,
			Species:         k.Species,
			Filter:          k.Filter,
			Count:           k.Count,
			CentreOfMass:    numbers(k.CentreOfMass),
			AngularMomentum: numbers(k.AngularMomentum),
			Dispersion:      Number(k.Dispersion),
		}
	}
	return data
}

// WriteJSON writes run as indented JSON.
func WriteJSON(w io.Writer, run *storage.Run) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(run))
}

func ExportJSON(path string, run *storage.Run) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, run); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
