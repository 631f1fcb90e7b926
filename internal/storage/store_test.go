package storage

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := OpenDir(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun() *Run {
	return &Run{
		Label:     "demo",
		Seed:      42,
		ParamFile: "params.ini",
		Dims:      3,
		Particles: 3000,
		Profiles: []Profile{
			{
				Name: "dm_density", Species: "dark_matter", Kind: "density",
				RMin: 0.03, RMax: 3, LogBins: true, Path: "dm_density.txt",
				Bins: []Bin{
					{Inner: 0.03, Outer: 0.3, Radius: 0.0949, Volume: 0.113, Value: 12.5, Count: 3},
					{Inner: 0.3, Outer: 3, Radius: 0.949, Volume: 113, Value: 0.4, Count: 17},
				},
			},
			{
				Name: "young_metals", Species: "stars", Kind: "avg_metallicity", Filter: "age_lt 2",
				RMin: 0, RMax: 5, Path: "young_metals.txt",
				Bins: []Bin{{Inner: 0, Outer: 5, Radius: 2.5, Volume: 523.6, Value: math.NaN()}},
			},
		},
		Kinematics: []Kinematics{
			{
				Name: "hot_gas", Species: "gas", Filter: "temperature_gt 100000", Count: 120,
				CentreOfMass:    []float64{5, 5.1, 4.9},
				AngularMomentum: []float64{0.1, -0.2, 3},
				Dispersion:      57.7,
			},
			{
				Name: "empty", Species: "gas", Count: 0,
				CentreOfMass:    []float64{math.NaN(), math.NaN(), math.NaN()},
				AngularMomentum: []float64{math.NaN(), math.NaN(), math.NaN()},
				Dispersion:      math.NaN(),
			},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := sampleRun()
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if run.ID == "" {
		t.Error("expected non-empty run id")
	}
	if run.CreatedAt.IsZero() {
		t.Error("expected creation time to be set")
	}

	got, err := st.LoadRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got.Label != "demo" {
		t.Errorf("expected label 'demo', got '%s'", got.Label)
	}
	if got.Seed != 42 {
		t.Errorf("expected seed 42, got %d", got.Seed)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("expected created at %v, got %v", run.CreatedAt, got.CreatedAt)
	}
	if len(got.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(got.Profiles))
	}

	dm := got.Profiles[0]
	if dm.Name != "dm_density" || !dm.LogBins || dm.RMin != 0.03 {
		t.Errorf("unexpected profile %+v", dm)
	}
	if len(dm.Bins) != 2 || dm.Bins[1].Value != 0.4 || dm.Bins[1].Count != 17 {
		t.Errorf("unexpected bins %+v", dm.Bins)
	}
	if got.Profiles[1].Filter != "age_lt 2" {
		t.Errorf("expected filter to round trip, got %q", got.Profiles[1].Filter)
	}
	if !math.IsNaN(got.Profiles[1].Bins[0].Value) {
		t.Errorf("expected NaN bin value, got %f", got.Profiles[1].Bins[0].Value)
	}

	if len(got.Kinematics) != 2 {
		t.Fatalf("expected 2 kinematics, got %d", len(got.Kinematics))
	}
	hot := got.Kinematics[0]
	if hot.Count != 120 || hot.Dispersion != 57.7 {
		t.Errorf("unexpected kinematics %+v", hot)
	}
	if len(hot.CentreOfMass) != 3 || hot.CentreOfMass[1] != 5.1 {
		t.Errorf("unexpected centre of mass %v", hot.CentreOfMass)
	}
	if len(hot.AngularMomentum) != 3 || hot.AngularMomentum[2] != 3 {
		t.Errorf("unexpected angular momentum %v", hot.AngularMomentum)
	}

	empty := got.Kinematics[1]
	if !math.IsNaN(empty.Dispersion) || !math.IsNaN(empty.CentreOfMass[0]) || !math.IsNaN(empty.AngularMomentum[0]) {
		t.Errorf("expected NaN kinematics, got %+v", empty)
	}
}

func TestStoreTwoDimensional(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := &Run{
		Label: "flat",
		Dims:  2,
		Kinematics: []Kinematics{
			{Name: "gas", Species: "gas", Count: 4, CentreOfMass: []float64{1, 2}, Dispersion: 3},
		},
	}
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := st.LoadRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	k := got.Kinematics[0]
	if len(k.CentreOfMass) != 2 || k.CentreOfMass[1] != 2 {
		t.Errorf("expected 2D centre of mass, got %v", k.CentreOfMass)
	}
	if k.AngularMomentum != nil {
		t.Errorf("expected undefined angular momentum, got %v", k.AngularMomentum)
	}
}

func TestStoreList(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	older := sampleRun()
	older.Label = "older"
	older.CreatedAt = time.Now().Add(-time.Hour)
	if err := st.SaveRun(ctx, older); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := st.SaveRun(ctx, sampleRun()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Label != "demo" || runs[1].Label != "older" {
		t.Errorf("expected newest first, got %s, %s", runs[0].Label, runs[1].Label)
	}
	if runs[0].NumProfiles != 2 || runs[0].NumKinematics != 2 {
		t.Errorf("unexpected counts %d/%d", runs[0].NumProfiles, runs[0].NumKinematics)
	}
	if runs[0].Profiles != nil {
		t.Error("list should not load profiles")
	}

	latest, err := st.Latest(ctx)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if latest.Label != "demo" {
		t.Errorf("expected latest run demo, got %s", latest.Label)
	}
}

func TestStoreLoadProfile(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := sampleRun()
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	p, err := st.LoadProfile(ctx, run.ID[:8], "dm_density")
	if err != nil {
		t.Fatalf("load profile failed: %v", err)
	}
	if len(p.Bins) != 2 || p.Bins[0].Inner != 0.03 {
		t.Errorf("unexpected profile %+v", p)
	}

	if _, err := st.LoadProfile(ctx, run.ID, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.LoadRun(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.Latest(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.ResolveID(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestStoreAmbiguousPrefix(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"abc-1", "abc-2"} {
		if err := st.SaveRun(ctx, &Run{ID: id, Label: id}); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	if _, err := st.ResolveID(ctx, "abc"); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("expected ErrAmbiguous, got %v", err)
	}
	id, err := st.ResolveID(ctx, "abc-2")
	if err != nil || id != "abc-2" {
		t.Errorf("expected abc-2, got %q (%v)", id, err)
	}
}

func TestStoreDuplicateProfileRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := sampleRun()
	run.Profiles = append(run.Profiles, run.Profiles[0])
	if err := st.SaveRun(ctx, run); err == nil {
		t.Fatal("expected error for duplicate profile name")
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected failed save to leave no run, got %d", len(runs))
	}
}

func TestStoreDelete(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := sampleRun()
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := st.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := st.LoadRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	var bins int
	if err := st.conn.Get(&bins, "SELECT COUNT(*) FROM bins"); err != nil {
		t.Fatal(err)
	}
	if bins != 0 {
		t.Errorf("expected bins to be deleted with the run, got %d", bins)
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	st, err := OpenDir(dir)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer st.Close()

	if _, err := os.Stat(filepath.Join(dir, FileName)); os.IsNotExist(err) {
		t.Errorf("%s not created", FileName)
	}
}
