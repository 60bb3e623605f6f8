// Package config loads parbench run settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/parbench/workload"
)

// ErrInvalidConfig is returned by Validate and Load.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Workers     int     `yaml:"workers"`
	Threshold   float64 `yaml:"threshold"`
	Format      string  `yaml:"format"`
	LogLevel    string  `yaml:"log_level"`
	MetricsFile string  `yaml:"metrics_file"`

	CPU struct {
		Tasks     int `yaml:"tasks"`
		Fibonacci int `yaml:"fibonacci"`
	} `yaml:"cpu"`

	IO struct {
		Tasks int           `yaml:"tasks"`
		Sleep time.Duration `yaml:"sleep"`
	} `yaml:"io"`

	Monitor struct {
		Duration     time.Duration `yaml:"duration"`
		Terms        int           `yaml:"terms"`
		Affinity     bool          `yaml:"affinity"`
		SkipBaseline bool          `yaml:"skip_baseline"`
	} `yaml:"monitor"`

	Dispatch struct {
		Rate  float64 `yaml:"rate"`
		Burst int     `yaml:"burst"`
	} `yaml:"dispatch"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	var c Config
	c.Workers = 4
	c.Threshold = 1.5
	c.Format = "table"
	c.LogLevel = "warn"

	c.CPU.Tasks = 4
	c.CPU.Fibonacci = 35

	c.IO.Tasks = 8
	c.IO.Sleep = 500 * time.Millisecond

	c.Monitor.Duration = time.Second
	c.Monitor.Terms = 1000
	return c
}

// Load reads path over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return c, c.Validate()
}

// Validate checks every field a run depends on.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, a ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, a...)...))
		}
	}

	check(c.Workers > 0, "workers must be positive, got %d", c.Workers)
	check(c.Threshold > 0, "threshold must be positive, got %v", c.Threshold)
	check(c.Format == "table" || c.Format == "json", "format must be table or json, got %q", c.Format)
	check(c.CPU.Tasks >= 0, "cpu.tasks must not be negative, got %d", c.CPU.Tasks)
	check(c.CPU.Fibonacci >= 0 && c.CPU.Fibonacci <= workload.MaxFibonacci,
		"cpu.fibonacci must be in [0, %d], got %d", workload.MaxFibonacci, c.CPU.Fibonacci)
	check(c.IO.Tasks >= 0, "io.tasks must not be negative, got %d", c.IO.Tasks)
	check(c.IO.Sleep >= 0, "io.sleep must not be negative, got %v", c.IO.Sleep)
	check(c.Monitor.Duration > 0, "monitor.duration must be positive, got %v", c.Monitor.Duration)
	check(c.Monitor.Terms >= 0 && c.Monitor.Terms <= workload.MaxSquareSumTerms,
		"monitor.terms must be in [0, %d], got %d", workload.MaxSquareSumTerms, c.Monitor.Terms)
	check(c.Dispatch.Rate >= 0, "dispatch.rate must not be negative, got %v", c.Dispatch.Rate)

	return errors.Join(errs...)
}
