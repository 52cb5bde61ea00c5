package convert

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/h3-go/v4"

	"github.com/gruppe-adler/hexpop/internal/config"
	"github.com/gruppe-adler/hexpop/internal/hexgrid"
	"github.com/gruppe-adler/hexpop/internal/hexgrid/hexgridtest"
	"github.com/gruppe-adler/hexpop/internal/hexmap"
	"github.com/gruppe-adler/hexpop/internal/manifest"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const gridA = "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value -1\n5 -1\n"
const gridB = "ncols 1\nnrows 1\nxllcorner 4\nyllcorner 0\ncellsize 1\nNODATA_value -1\n8\n"
const gridBad = "ncols 1\nnrows 1\nxllcorner 4\nyllcorner 0\ncellsize 1\nNODATA_value -1\nabc\n"

func fakeIndexer() *hexgridtest.Fake {
	idx := hexgridtest.NewFake(2)
	idx.Footprints[orb.Point{0, 1}] = []h3.Cell{0, 1}
	idx.Footprints[orb.Point{4, 1}] = []h3.Cell{6}
	return idx
}

func TestConvert(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, in, "gpw_1.asc", gridA)
	write(t, in, "gpw_2.asc", gridB)

	cfg := config.Default()
	cfg.Name = "gpw"
	cfg.Inputs = []string{filepath.Join(in, "gpw_*.asc")}
	cfg.Output = out
	cfg.Formats = []string{hexmap.FormatBinary, hexmap.FormatSQLite}

	m, err := Convert(context.Background(), cfg, fakeIndexer(), quietLogger())
	require.NoError(t, err)

	want := hexmap.Map{0: 5, 3: 4}
	assert.Equal(t, 2, m.Cells)
	assert.Equal(t, []string{"gpw.hexmap", "gpw.db"}, m.Files)
	require.Len(t, m.Sources, 2)
	assert.Empty(t, m.Sources[0].Error)

	for _, f := range m.Files {
		got, err := hexmap.Load(filepath.Join(out, f))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	written, err := manifest.Read(filepath.Join(out, manifest.FileName))
	require.NoError(t, err)
	assert.Equal(t, "gpw", written.Name)
	assert.Equal(t, uint16(4), written.MinValue)
	assert.Equal(t, uint16(5), written.MaxValue)
}

func TestConvertStrict(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	cfg := config.Default()
	cfg.Inputs = []string{write(t, in, "a.asc", gridA), write(t, in, "bad.asc", gridBad)}
	cfg.Output = out

	_, err := Convert(context.Background(), cfg, fakeIndexer(), quietLogger())
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, manifest.FileName))

	cfg.Strict = false
	m, err := Convert(context.Background(), cfg, fakeIndexer(), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Cells)
	assert.NotEmpty(t, m.Sources[1].Error)
}

func TestConvertFailsOnWriterError(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(out, "gpw.db"), 0o755))
	write(t, filepath.Join(out, "gpw.db"), "keep", "")

	cfg := config.Default()
	cfg.Name = "gpw"
	cfg.Inputs = []string{write(t, in, "a.asc", gridA)}
	cfg.Output = out
	cfg.Formats = []string{hexmap.FormatBinary, hexmap.FormatSQLite}

	_, err := Convert(context.Background(), cfg, fakeIndexer(), quietLogger())
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, manifest.FileName))
}

func TestConvertRejectsMissingOutput(t *testing.T) {
	in := t.TempDir()

	cfg := config.Default()
	cfg.Inputs = []string{write(t, in, "a.asc", gridA)}
	cfg.Output = filepath.Join(in, "missing")

	_, err := Convert(context.Background(), cfg, fakeIndexer(), quietLogger())
	assert.Error(t, err)
}

func TestConvertWithH3(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	write(t, in, "berlin.asc", `ncols 2
nrows 2
xllcorner 13.40
yllcorner 52.48
cellsize 0.01
NODATA_value -9999
4000 4000
-9999 900
`)

	cfg := config.Default()
	cfg.Name = "berlin"
	cfg.Inputs = []string{filepath.Join(in, "berlin.asc")}
	cfg.Output = out
	cfg.Formats = hexmap.Formats()
	cfg.Compact = true

	m, err := Convert(context.Background(), cfg, hexgrid.H3{}, quietLogger())
	require.NoError(t, err)
	assert.NotZero(t, m.Cells)
	assert.Len(t, m.Files, len(hexmap.Formats()))

	for _, f := range m.Files {
		assert.FileExists(t, filepath.Join(out, f))
	}
}

func TestApplyFlags(t *testing.T) {
	flagSet := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	flagSet.StringSlice("in", nil, "")
	flagSet.String("out", "", "")
	flagSet.String("name", "", "")
	flagSet.StringSlice("formats", nil, "")
	flagSet.Bool("compact", false, "")
	flagSet.Bool("strict", true, "")
	flagSet.Int("workers", 0, "")
	flagSet.Int("fine", 10, "")
	flagSet.Int("coarse", 8, "")
	flagSet.String("log-level", "info", "")
	flagSet.Bool("log-json", false, "")

	require.NoError(t, flagSet.Parse([]string{
		"--in", "a.asc,b.asc", "--out", "out", "--formats", "csv", "--compact", "--coarse", "7",
	}))

	cfg := config.Default()
	cfg.Name = "from-file"
	require.NoError(t, applyFlags(&cfg, flagSet))

	assert.Equal(t, []string{"a.asc", "b.asc"}, cfg.Inputs)
	assert.Equal(t, "out", cfg.Output)
	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, []string{"csv"}, cfg.Formats)
	assert.True(t, cfg.Compact)
	assert.True(t, cfg.Strict)
	assert.Equal(t, config.ResolutionConfig{Fine: 10, Coarse: 7}, cfg.Resolution)
}
