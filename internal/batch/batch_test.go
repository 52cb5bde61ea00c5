package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/h3-go/v4"

	"github.com/gruppe-adler/hexpop/internal/asc"
	"github.com/gruppe-adler/hexpop/internal/hexgrid/hexgridtest"
	"github.com/gruppe-adler/hexpop/internal/hexmap"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// writeGrid writes a one cell grid whose cell starts at (x, 1).
func writeGrid(t *testing.T, dir, name string, x int, value string) string {
	t.Helper()
	content := fmt.Sprintf("ncols 1\nnrows 1\nxllcorner %d\nyllcorner 0\ncellsize 1\nNODATA_value -1\n%s\n", x, value)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	idx := hexgridtest.NewFake(2)
	idx.Footprints[orb.Point{0, 1}] = []h3.Cell{0, 1}
	idx.Footprints[orb.Point{5, 1}] = []h3.Cell{10, 11}
	idx.Footprints[orb.Point{9, 1}] = []h3.Cell{20}
	idx.Fail[orb.Point{7, 1}] = errors.New("degenerate")

	paths := []string{
		writeGrid(t, dir, "a.asc", 0, "100"),
		writeGrid(t, dir, "b.asc", 3, "abc"),
		writeGrid(t, dir, "c.asc", 5, "40"),
		writeGrid(t, dir, "d.asc", 7, "1"),
		filepath.Join(dir, "missing.asc"),
		writeGrid(t, dir, "e.asc", 9, "7"),
	}

	report := Run(context.Background(), paths, idx, Options{Workers: 2, Log: quietLogger()})
	require.Len(t, report.Results, len(paths))

	for i, r := range report.Results {
		assert.Equal(t, paths[i], r.Path)
	}

	var perr *asc.ParseError
	assert.ErrorAs(t, report.Results[1].Err, &perr)
	var ioErr *asc.IOError
	assert.ErrorAs(t, report.Results[4].Err, &ioErr)
	assert.Error(t, report.Results[3].Err)

	assert.Len(t, report.Succeeded(), 3)
	assert.Len(t, report.Failed(), 3)
	assert.Error(t, report.Err())

	assert.Equal(t, hexmap.Map{0: 100, 5: 40, 10: 3}, report.Merged())
}

func TestRunAllSucceed(t *testing.T) {
	dir := t.TempDir()
	idx := hexgridtest.NewFake(2)
	idx.Footprints[orb.Point{0, 1}] = []h3.Cell{0, 1}

	paths := []string{
		writeGrid(t, dir, "a.asc", 0, "10"),
		writeGrid(t, dir, "b.asc", 0, "20"),
	}

	report := Run(context.Background(), paths, idx, Options{Log: quietLogger()})
	assert.NoError(t, report.Err())
	assert.Empty(t, report.Failed())

	// both files cover the same cell, the later input wins
	assert.Equal(t, hexmap.Map{0: 20}, report.Merged())
	assert.Equal(t, uint64(1), report.Results[0].Stats.Retained)
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths := []string{writeGrid(t, dir, "a.asc", 0, "10")}
	report := Run(ctx, paths, hexgridtest.NewFake(2), Options{Workers: 1, Log: quietLogger()})

	assert.ErrorIs(t, report.Results[0].Err, context.Canceled)
	assert.Empty(t, report.Merged())
}
