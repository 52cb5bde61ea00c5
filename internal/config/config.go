package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gruppe-adler/hexpop/internal/hexgrid"
	"github.com/gruppe-adler/hexpop/internal/hexmap"
)

// Config holds the settings of a conversion run
type Config struct {
	Name       string           `yaml:"name"`
	Inputs     []string         `yaml:"inputs"` // paths or glob patterns
	Output     string           `yaml:"output"` // output directory
	Formats    []string         `yaml:"formats"`
	Compact    bool             `yaml:"compact"`
	Strict     bool             `yaml:"strict"` // fail the run if any input fails
	Workers    int              `yaml:"workers"`
	Resolution ResolutionConfig `yaml:"resolution"`
	Log        LogConfig        `yaml:"log"`
}

// ResolutionConfig holds the H3 resolutions
type ResolutionConfig struct {
	Fine   int `yaml:"fine"`
	Coarse int `yaml:"coarse"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Name:    "population",
		Formats: []string{hexmap.FormatBinary},
		Strict:  true,
		Workers: runtime.NumCPU(),
		Resolution: ResolutionConfig{
			Fine:   hexgrid.FineResolution,
			Coarse: hexgrid.CoarseResolution,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file. Keys missing from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	return cfg, nil
}

// Resolutions returns the configured resolution pair
func (c Config) Resolutions() hexgrid.Resolutions {
	return hexgrid.Resolutions{Fine: c.Resolution.Fine, Coarse: c.Resolution.Coarse}
}

// Validate checks that the configuration can be run
func (c Config) Validate() error {
	var errs []error

	if len(c.Inputs) == 0 {
		errs = append(errs, errors.New("no inputs given"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("no output directory given"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(c.Formats) == 0 {
		errs = append(errs, errors.New("no output formats given"))
	}
	for _, f := range c.Formats {
		if !hexmap.IsFormat(f) {
			errs = append(errs, fmt.Errorf("unknown format %q, must be one of %v", f, hexmap.Formats()))
		}
	}
	if err := c.Resolutions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Logger builds a logger from the log settings
func (c Config) Logger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetLevel(level)
	if c.Log.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:  true,
			DisableSorting: true,
		})
	}
	return l, nil
}
