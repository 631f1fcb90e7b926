package viz

import (
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/galprof/internal/analysis"
	"github.com/san-kum/galprof/internal/config"
	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/particle"
	"github.com/san-kum/galprof/internal/profile"
	"github.com/san-kum/galprof/internal/storage"
)

func testSeries() []Series {
	run := &storage.Run{
		Profiles: []storage.Profile{
			{
				Name: "density", Species: "dark_matter", Kind: "density", LogBins: true,
				Bins: []storage.Bin{
					{Radius: 0.1, Value: 100, Count: 5},
					{Radius: 1, Value: 10, Count: 4},
					{Radius: 10, Value: 0, Count: 0},
				},
			},
			{
				Name: "metals", Species: "stars", Kind: "avg_metallicity", Filter: "age_lt 2",
				Bins: []storage.Bin{
					{Radius: 0.5, Value: -1, Count: 1},
					{Radius: 1.5, Value: 0.5, Count: 2},
				},
			},
		},
	}
	return FromRun(run)
}

func TestFromRun(t *testing.T) {
	series := testSeries()
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	s := series[0]
	if !s.LogRadius || s.Species != "dark_matter" {
		t.Errorf("unexpected series %+v", s)
	}
	if len(s.Radii) != 3 || s.Values[1] != 10 || s.Counts[0] != 5 {
		t.Errorf("bins not copied: %+v", s)
	}
}

func TestCaption(t *testing.T) {
	s := testSeries()[1]
	c := Caption(s, false)
	if !strings.Contains(c, "avg_metallicity of stars") || !strings.Contains(c, "(age_lt 2)") {
		t.Errorf("unexpected caption %q", c)
	}
	if !strings.Contains(Caption(testSeries()[0], true), "log10 density") {
		t.Error("expected log10 in caption")
	}
}

func TestPlotValues(t *testing.T) {
	data, finite := plotValues([]float64{100, 10, 0, math.NaN(), math.Inf(1)}, true)
	if finite != 2 {
		t.Errorf("expected 2 drawable values, got %d", finite)
	}
	if data[0] != 2 || data[1] != 1 {
		t.Errorf("expected log10 values, got %v", data)
	}
	for _, i := range []int{2, 3, 4} {
		if !math.IsNaN(data[i]) {
			t.Errorf("value %d should be a gap, got %f", i, data[i])
		}
	}

	_, finite = plotValues([]float64{-1, 0.5}, false)
	if finite != 2 {
		t.Errorf("linear axis should keep negative values, got %d", finite)
	}
}

func TestPlot(t *testing.T) {
	s := testSeries()[1]
	out := Plot(s, 40, 8, false)
	if !strings.Contains(out, "metals") {
		t.Errorf("expected caption in plot, got %q", out)
	}

	s.Values = []float64{0, 0}
	if out := Plot(s, 40, 8, true); !strings.Contains(out, "nothing to plot") {
		t.Errorf("expected empty plot message, got %q", out)
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("expected flat line for no data, got %q", got)
	}
	if got := SparklineChart([]float64{math.NaN()}, 3); got != "───" {
		t.Errorf("expected flat line for no finite data, got %q", got)
	}
	if got := SparklineChart([]float64{1, math.NaN(), 3}, 3); !strings.Contains(got, " ") {
		t.Errorf("expected a gap for NaN, got %q", got)
	}
}

func TestViewerKeys(t *testing.T) {
	var m tea.Model = NewViewer(testSeries(), ThemeMinimal)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if idx, _ := m.(Viewer).Current(); idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if idx, _ := m.(Viewer).Current(); idx != 0 {
		t.Errorf("expected wrap to 0, got %d", idx)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if idx, _ := m.(Viewer).Current(); idx != 1 {
		t.Errorf("expected wrap back to 1, got %d", idx)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if _, logValues := m.(Viewer).Current(); !logValues {
		t.Error("expected log values after l")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestViewerView(t *testing.T) {
	var m tea.Model = NewViewer(testSeries(), ThemeOcean)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})

	out := m.View()
	if !strings.Contains(out, "DENSITY") || !strings.Contains(out, "1/2") {
		t.Errorf("unexpected view %q", out)
	}
	if !strings.Contains(out, "count") {
		t.Error("expected bin table")
	}

	empty := NewViewer(nil, ThemeCyberpunk).View()
	if !strings.Contains(empty, "no profiles") {
		t.Errorf("unexpected empty view %q", empty)
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("expected ocean theme")
	}
	if GetTheme("nonexistent").Name != ThemeCyberpunk.Name {
		t.Error("expected fallback theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Error("expected dot to be set")
	}
	c.Set(-1, 0)
	c.Set(100, 100)

	lines := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	c.Clear()
	if c.IsSet(3, 5) {
		t.Error("expected clear canvas")
	}
}

func TestProjection(t *testing.T) {
	positions := []geom.Vec3{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 50, Y: 0}}
	c := Projection(positions, geom.Vec3{}, 2, 20, 10)

	// 40x40 dots over [-2, 2]: 10 dots per unit, origin at (20, 20)
	if !c.IsSet(20, 20) {
		t.Error("expected dot at centre")
	}
	if !c.IsSet(30, 10) {
		t.Error("expected dot at (1, 1)")
	}

	ringed := Projection([]geom.Vec3{}, geom.Vec3{}, 2, 20, 10, 1)
	if !ringed.IsSet(30, 20) || !ringed.IsSet(20, 10) {
		t.Error("expected ring of radius 1 around centre")
	}
}

func TestSummary(t *testing.T) {
	ids := particle.NewIDSource()
	ps := []particle.Particle[geom.Coords]{particle.Blank[geom.Coords](ids)}
	prof, err := profile.New(ps, geom.Coords{}, profile.CumulativeMass, profile.Range{Min: 0, Max: 1}, 4)
	if err != nil {
		t.Fatal(err)
	}

	report := &analysis.Report{
		RunID:        "abc123",
		Label:        "demo",
		Particles:    1,
		CentreSource: "point",
		Elapsed:      1500 * time.Microsecond,
		Profiles: []analysis.ProfileResult{
			{Config: config.ProfileConfig{Name: "dm_mass", Species: "dark_matter"}, Profile: prof, Path: "dm_mass.txt"},
		},
		Kinematics: []analysis.KinematicsResult{
			{Config: config.KinematicsConfig{Name: "hot_gas", Species: "gas"}, Count: 3, Dispersion: 12},
		},
	}

	out := Summary(report)
	for _, want := range []string{"demo", "abc123", "dm_mass", "hot_gas", "velocity dispersion"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q", want)
		}
	}
}
