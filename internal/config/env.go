package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment overrides. Unset variables leave the loaded
// configuration untouched.
type Env struct {
	DataDir   string `env:"GALPROF_DATA_DIR"`
	OutputDir string `env:"GALPROF_OUTPUT_DIR"`
	ParamFile string `env:"GALPROF_PARAM_FILE"`
	LogLevel  string `env:"GALPROF_LOG_LEVEL"`
	Seed      uint64 `env:"GALPROF_SEED"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays the GALPROF_* variables onto c.
func (c *Config) ApplyEnv() error {
	e := Env{
		DataDir:   c.DataDir,
		OutputDir: c.OutputDir,
		ParamFile: c.ParamFile,
		LogLevel:  c.LogLevel,
		Seed:      c.Seed,
	}
	if err := ParseEnv(&e); err != nil {
		return err
	}
	c.DataDir = e.DataDir
	c.OutputDir = e.OutputDir
	c.ParamFile = e.ParamFile
	c.LogLevel = e.LogLevel
	c.Seed = e.Seed
	return nil
}
