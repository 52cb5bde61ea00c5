package inspect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/gruppe-adler/hexpop/internal/asc"
	"github.com/gruppe-adler/hexpop/internal/hexmap"
	"github.com/gruppe-adler/hexpop/internal/utils"
)

// Run is the program's entrypoint
func Run(flagSet *pflag.FlagSet) {
	inputPtr := flagSet.String("in", "", "Path to a grid (.asc, .asc.gz, .asc.zst) or hex map (.hexmap, .db)")

	flagSet.Parse(os.Args[2:])

	if *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if err := Inspect(*inputPtr, os.Stdout); err != nil {
		logrus.Fatal(err)
	}
}

// Inspect prints a summary of the file at path to w. Hex maps get their
// value statistics, everything else is read as a grid header.
func Inspect(path string, w io.Writer) error {
	if !utils.IsFile(path) {
		return fmt.Errorf("%s does not exists or is no file", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hexmap", ".db":
		return inspectHexMap(path, w)
	default:
		return inspectGrid(path, w)
	}
}

func inspectGrid(path string, w io.Writer) error {
	rc, err := asc.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	h, err := asc.ReadHeader(rc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	b := h.Bound()
	fmt.Fprintf(w, "grid        %s\n", path)
	fmt.Fprintf(w, "size        %d x %d (%d values)\n", h.Columns, h.Rows, h.Cells())
	fmt.Fprintf(w, "cellsize    %g\n", h.CellSize)
	fmt.Fprintf(w, "extent      %g,%g %g,%g\n", b.Min[0], b.Min[1], b.Max[0], b.Max[1])
	fmt.Fprintf(w, "nodata      %s\n", h.NoData)
	return nil
}

func inspectHexMap(path string, w io.Writer) error {
	m, err := hexmap.Load(path)
	if err != nil {
		return err
	}

	s := hexmap.Summarize(m)
	fmt.Fprintf(w, "hexmap      %s\n", path)
	fmt.Fprintf(w, "cells       %d\n", s.Cells)
	if s.Cells == 0 {
		return nil
	}
	fmt.Fprintf(w, "min         %d\n", s.Min)
	fmt.Fprintf(w, "max         %d\n", s.Max)
	fmt.Fprintf(w, "mean        %.2f\n", float64(s.Sum)/float64(s.Cells))

	res := make([]int, 0, len(s.Resolutions))
	for r := range s.Resolutions {
		res = append(res, r)
	}
	sort.Ints(res)
	for _, r := range res {
		fmt.Fprintf(w, "resolution  %d: %d cells\n", r, s.Resolutions[r])
	}
	return nil
}
