// Package storage keeps a SQLite catalogue of analysis runs: their profiles,
// profile bins and kinematics summaries.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// FileName is the catalogue file created inside a data directory.
const FileName = "galprof.db"

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrAmbiguous = errors.New("storage: run id prefix matches several runs")
)

// Store wraps a SQLite connection holding the run catalogue.
type Store struct {
	conn *sqlx.DB
}

// OpenDir opens the catalogue inside dir, creating dir if needed.
func OpenDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return Open(filepath.Join(dir, FileName))
}

// Open opens or creates a catalogue at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		seed INTEGER NOT NULL,
		param_file TEXT NOT NULL,
		dims INTEGER NOT NULL,
		particles INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		species TEXT NOT NULL,
		kind TEXT NOT NULL,
		filter TEXT NOT NULL,
		rmin REAL NOT NULL,
		rmax REAL NOT NULL,
		log_bins INTEGER NOT NULL,
		path TEXT NOT NULL,
		UNIQUE (run_id, name)
	);

	CREATE TABLE IF NOT EXISTS bins (
		profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		inner_radius REAL NOT NULL,
		outer_radius REAL NOT NULL,
		radius REAL NOT NULL,
		volume REAL NOT NULL,
		value REAL,
		n_particles INTEGER NOT NULL,
		PRIMARY KEY (profile_id, idx)
	);

	CREATE TABLE IF NOT EXISTS kinematics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		species TEXT NOT NULL,
		filter TEXT NOT NULL,
		n_particles INTEGER NOT NULL,
		com_x REAL, com_y REAL, com_z REAL,
		has_angular_momentum INTEGER NOT NULL,
		l_x REAL, l_y REAL, l_z REAL,
		dispersion REAL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_profiles_run ON profiles(run_id);
	CREATE INDEX IF NOT EXISTS idx_kinematics_run ON kinematics(run_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRun writes a run with all its profiles and kinematics in one
// transaction. An empty ID is replaced by a new UUID and a zero CreatedAt by
// the current time.
func (s *Store) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, seed, param_file, dims, particles, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, run.Seed, run.ParamFile, run.Dims, run.Particles, run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	for _, p := range run.Profiles {
		if err := saveProfile(ctx, tx, run.ID, p); err != nil {
			return fmt.Errorf("save profile %s: %w", p.Name, err)
		}
	}
	for _, k := range run.Kinematics {
		if err := saveKinematics(ctx, tx, run.ID, k); err != nil {
			return fmt.Errorf("save kinematics %s: %w", k.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("saved run", "id", run.ID, "profiles", len(run.Profiles), "kinematics", len(run.Kinematics))
	return nil
}

func saveProfile(ctx context.Context, tx *sqlx.Tx, runID string, p Profile) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (run_id, name, species, kind, filter, rmin, rmax, log_bins, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, p.Name, p.Species, p.Kind, p.Filter, p.RMin, p.RMax, p.LogBins, p.Path,
	)
	if err != nil {
		return err
	}
	profileID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO bins
		(profile_id, idx, inner_radius, outer_radius, radius, volume, value, n_particles)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, b := range p.Bins {
		_, err := stmt.ExecContext(ctx, profileID, i, b.Inner, b.Outer, b.Radius, b.Volume, nullFloat(b.Value), b.Count)
		if err != nil {
			return err
		}
	}
	return nil
}

func saveKinematics(ctx context.Context, tx *sqlx.Tx, runID string, k Kinematics) error {
	com := padded(k.CentreOfMass)
	l := padded(k.AngularMomentum)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO kinematics (run_id, name, species, filter, n_particles,
			com_x, com_y, com_z, has_angular_momentum, l_x, l_y, l_z, dispersion)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, k.Name, k.Species, k.Filter, k.Count,
		com[0], com[1], com[2], k.AngularMomentum != nil, l[0], l[1], l[2], nullFloat(k.Dispersion),
	)
	return err
}

// ListRuns returns run summaries, newest first. Profiles and kinematics are
// not loaded.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	var rows []runRow
	err := s.conn.SelectContext(ctx, &rows, `SELECT r.*,
		(SELECT COUNT(*) FROM profiles p WHERE p.run_id = r.id) AS n_profiles,
		(SELECT COUNT(*) FROM kinematics k WHERE k.run_id = r.id) AS n_kinematics
		FROM runs r ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, err
	}

	runs := make([]Run, len(rows))
	for i, r := range rows {
		runs[i] = r.run()
	}
	return runs, nil
}

// Latest returns the most recently created run.
func (s *Store) Latest(ctx context.Context) (*Run, error) {
	var id string
	err := s.conn.GetContext(ctx, &id, "SELECT id FROM runs ORDER BY created_at DESC, id LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.LoadRun(ctx, id)
}

// ResolveID expands a unique id prefix to the full run id.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}
	var ids []string
	err := s.conn.SelectContext(ctx, &ids, "SELECT id FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2", len(prefix), prefix)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
}

// LoadRun loads a run with its profiles, bins and kinematics. id may be a
// unique prefix.
func (s *Store) LoadRun(ctx context.Context, id string) (*Run, error) {
	id, err := s.ResolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	var row runRow
	err = s.conn.GetContext(ctx, &row, `SELECT r.*,
		(SELECT COUNT(*) FROM profiles p WHERE p.run_id = r.id) AS n_profiles,
		(SELECT COUNT(*) FROM kinematics k WHERE k.run_id = r.id) AS n_kinematics
		FROM runs r WHERE r.id = ?`, id)
	if err != nil {
		return nil, err
	}
	run := row.run()

	var profiles []profileRow
	if err := s.conn.SelectContext(ctx, &profiles, "SELECT * FROM profiles WHERE run_id = ? ORDER BY id", id); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	for _, pr := range profiles {
		p, err := s.withBins(ctx, pr)
		if err != nil {
			return nil, err
		}
		run.Profiles = append(run.Profiles, p)
	}

	var kin []kinematicsRow
	if err := s.conn.SelectContext(ctx, &kin, "SELECT * FROM kinematics WHERE run_id = ? ORDER BY id", id); err != nil {
		return nil, fmt.Errorf("load kinematics: %w", err)
	}
	for _, kr := range kin {
		run.Kinematics = append(run.Kinematics, kr.kinematics(run.Dims))
	}
	return &run, nil
}

// LoadProfile loads a single named profile of a run.
func (s *Store) LoadProfile(ctx context.Context, runID, name string) (*Profile, error) {
	runID, err := s.ResolveID(ctx, runID)
	if err != nil {
		return nil, err
	}

	var pr profileRow
	err = s.conn.GetContext(ctx, &pr, "SELECT * FROM profiles WHERE run_id = ? AND name = ?", runID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no profile %q in run %s", ErrNotFound, name, runID)
	}
	if err != nil {
		return nil, err
	}
	p, err := s.withBins(ctx, pr)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) withBins(ctx context.Context, pr profileRow) (Profile, error) {
	var bins []binRow
	err := s.conn.SelectContext(ctx, &bins, "SELECT * FROM bins WHERE profile_id = ? ORDER BY idx", pr.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("load bins of %s: %w", pr.Name, err)
	}
	p := pr.profile()
	p.Bins = make([]Bin, len(bins))
	for i, b := range bins {
		p.Bins[i] = b.bin()
	}
	return p, nil
}

// DeleteRun removes a run and everything recorded with it.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	id, err := s.ResolveID(ctx, id)
	if err != nil {
		return err
	}
	_, err = s.conn.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	return err
}
