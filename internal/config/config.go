package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/galprof/internal/filter"
	"github.com/san-kum/galprof/internal/geom"
	"github.com/san-kum/galprof/internal/profile"
	"github.com/san-kum/galprof/internal/snapshot"
)

const (
	DefaultLabel     = "analysis"
	DefaultSeed      = 1
	DefaultOutputDir = "."
	DefaultDataDir   = "data"
	DefaultLogLevel  = "info"
	DefaultBins      = 20
	DefaultRMin      = 0.0
	DefaultRMax      = 5.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Label      string             `yaml:"label"`
	Seed       uint64             `yaml:"seed"`
	ParamFile  string             `yaml:"param_file,omitempty"`
	OutputDir  string             `yaml:"output_dir"`
	DataDir    string             `yaml:"data_dir"`
	LogLevel   string             `yaml:"log_level"`
	Centre     CentreConfig       `yaml:"centre"`
	Profiles   []ProfileConfig    `yaml:"profiles"`
	Kinematics []KinematicsConfig `yaml:"kinematics,omitempty"`
}

// CentreConfig picks the profile centre: an explicit point, or the centre of
// mass of a species when Point is empty.
type CentreConfig struct {
	Species string    `yaml:"species,omitempty"`
	Point   []float64 `yaml:"point,omitempty,flow"`
}

type FilterConfig struct {
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value"`
}

type ProfileConfig struct {
	Name    string        `yaml:"name"`
	Species string        `yaml:"species"`
	Kind    string        `yaml:"kind"`
	Filter  *FilterConfig `yaml:"filter,omitempty"`
	RMin    float64       `yaml:"rmin"`
	RMax    float64       `yaml:"rmax"`
	Bins    int           `yaml:"bins"`
	Log     bool          `yaml:"log,omitempty"`
}

type KinematicsConfig struct {
	Name    string        `yaml:"name"`
	Species string        `yaml:"species"`
	Filter  *FilterConfig `yaml:"filter,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Label:     DefaultLabel,
		Seed:      DefaultSeed,
		OutputDir: DefaultOutputDir,
		DataDir:   DefaultDataDir,
		LogLevel:  DefaultLogLevel,
		Centre:    CentreConfig{Species: snapshot.DarkMatter.String()},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Centre.Point = append([]float64(nil), c.Centre.Point...)
	out.Profiles = make([]ProfileConfig, len(c.Profiles))
	for i, p := range c.Profiles {
		p.Filter = p.Filter.clone()
		out.Profiles[i] = p
	}
	out.Kinematics = make([]KinematicsConfig, len(c.Kinematics))
	for i, k := range c.Kinematics {
		k.Filter = k.Filter.clone()
		out.Kinematics[i] = k
	}
	return &out
}

func (f *FilterConfig) clone() *FilterConfig {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

func (c *Config) Validate() error {
	if len(c.Profiles) == 0 && len(c.Kinematics) == 0 {
		return fmt.Errorf("%w: nothing to compute, add profiles or kinematics", ErrInvalid)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if err := c.Centre.validate(); err != nil {
		return err
	}

	names := make(map[string]bool)
	for i, p := range c.Profiles {
		if err := p.validate(); err != nil {
			return fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if names[p.Name] {
			return fmt.Errorf("%w: duplicate profile name %q", ErrInvalid, p.Name)
		}
		names[p.Name] = true
	}
	for i, k := range c.Kinematics {
		if err := k.validate(); err != nil {
			return fmt.Errorf("kinematics[%d]: %w", i, err)
		}
	}
	return nil
}

// Level parses LogLevel. An empty level means info.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return lvl, nil
}

func (c CentreConfig) validate() error {
	if len(c.Point) > 0 {
		if len(c.Point) != geom.NDims {
			return fmt.Errorf("%w: centre point needs %d coordinates, got %d", ErrInvalid, geom.NDims, len(c.Point))
		}
		return nil
	}
	if _, err := snapshot.ParseSpecies(c.Species); err != nil {
		return fmt.Errorf("%w: centre: %w", ErrInvalid, err)
	}
	return nil
}

// CentrePoint returns the explicit centre, if one is set.
func (c CentreConfig) CentrePoint() (geom.Coords, bool) {
	if len(c.Point) != geom.NDims {
		return geom.Coords{}, false
	}
	return geom.Make[geom.Coords](c.Point...), true
}

func (f *FilterConfig) validate() error {
	if f == nil {
		return nil
	}
	if _, err := filter.ParseKind(f.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: name %q is not a valid file name", ErrInvalid, name)
	}
	return nil
}

func (p ProfileConfig) validate() error {
	if err := validName(p.Name); err != nil {
		return err
	}
	if _, err := snapshot.ParseSpecies(p.Species); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := profile.ParseKind(p.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	r := profile.Range{Min: p.RMin, Max: p.RMax}
	if err := r.Validate(p.Bins, p.Log); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, p.Name, err)
	}
	return p.Filter.validate()
}

func (k KinematicsConfig) validate() error {
	if err := validName(k.Name); err != nil {
		return err
	}
	if _, err := snapshot.ParseSpecies(k.Species); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return k.Filter.validate()
}
