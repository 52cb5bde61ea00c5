package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hexpop.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
name: gpw
inputs:
  - data/gpw_*.asc
output: out
formats: [hexmap, sqlite]
compact: true
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpw", cfg.Name)
	assert.Equal(t, []string{"data/gpw_*.asc"}, cfg.Inputs)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, []string{"hexmap", "sqlite"}, cfg.Formats)
	assert.True(t, cfg.Compact)
	assert.True(t, cfg.Strict)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, ResolutionConfig{Fine: 10, Coarse: 8}, cfg.Resolution)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "inputs: [unterminated\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Inputs = []string{"a.asc"}
	cfg.Output = "out"
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Formats = []string{"shp"}
	assert.ErrorContains(t, bad.Validate(), `unknown format "shp"`)

	bad = cfg
	bad.Resolution = ResolutionConfig{Fine: 8, Coarse: 8}
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.Log.Level = "loud"
	assert.Error(t, bad.Validate())
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Log = LogConfig{Level: "warn", JSON: true}

	l, err := cfg.Logger()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}
