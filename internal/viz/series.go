package viz

import "github.com/san-kum/galprof/internal/storage"

// Series is one profile prepared for display.
type Series struct {
	Name      string
	Kind      string
	Species   string
	Filter    string
	LogRadius bool
	Radii     []float64
	Values    []float64
	Counts    []int
}

func FromStored(p storage.Profile) Series {
	s := Series{
		Name:      p.Name,
		Kind:      p.Kind,
		Species:   p.Species,
		Filter:    p.Filter,
		LogRadius: p.LogBins,
		Radii:     make([]float64, len(p.Bins)),
		Values:    make([]float64, len(p.Bins)),
		Counts:    make([]int, len(p.Bins)),
	}
	for i, b := range p.Bins {
		s.Radii[i] = b.Radius
		s.Values[i] = b.Value
		s.Counts[i] = b.Count
	}
	return s
}

// FromRun returns one series per stored profile, in run order.
func FromRun(run *storage.Run) []Series {
	out := make([]Series, len(run.Profiles))
	for i, p := range run.Profiles {
		out[i] = FromStored(p)
	}
	return out
}
