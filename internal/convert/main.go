package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/gruppe-adler/hexpop/internal/batch"
	"github.com/gruppe-adler/hexpop/internal/config"
	"github.com/gruppe-adler/hexpop/internal/hexgrid"
	"github.com/gruppe-adler/hexpop/internal/hexmap"
	"github.com/gruppe-adler/hexpop/internal/manifest"
	"github.com/gruppe-adler/hexpop/internal/utils"
	"github.com/gruppe-adler/hexpop/internal/validate"
)

// Run is the program's entrypoint
func Run(flagSet *pflag.FlagSet) {
	configPtr := flagSet.String("config", "", "Path to YAML config file")
	flagSet.StringSlice("in", nil, "Input grids (.asc, .asc.gz, .asc.zst), glob patterns allowed")
	flagSet.String("out", "", "Path to output directory")
	flagSet.String("name", "", "Base name of the output files")
	flagSet.StringSlice("formats", nil, fmt.Sprintf("Output formats %v", hexmap.Formats()))
	flagSet.Bool("compact", false, "Merge sibling cells with equal values into their parent")
	flagSet.Bool("strict", true, "Fail if any input grid fails")
	flagSet.Int("workers", 0, "Number of grids parsed in parallel (default: number of CPUs)")
	flagSet.Int("fine", hexgrid.FineResolution, "H3 resolution grid cells are tessellated at (at most 4 levels finer than --coarse)")
	flagSet.Int("coarse", hexgrid.CoarseResolution, "H3 resolution of the output cells")
	flagSet.String("log-level", "info", "Log level")
	flagSet.Bool("log-json", false, "Log as JSON")

	flagSet.Parse(os.Args[2:])

	cfg := config.Default()
	if *configPtr != "" {
		var err error
		cfg, err = config.Load(*configPtr)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	if err := applyFlags(&cfg, flagSet); err != nil {
		logrus.Fatal(err)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	log, err := cfg.Logger()
	if err != nil {
		logrus.Fatal(err)
	}

	if _, err := Convert(context.Background(), cfg, hexgrid.H3{}, log); err != nil {
		log.WithError(err).Fatal("Conversion failed")
	}
}

// applyFlags overrides cfg with every flag that was set explicitly.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && flagSet.Changed(name) {
			err = apply()
		}
	}

	set("in", func() (e error) { cfg.Inputs, e = flagSet.GetStringSlice("in"); return })
	set("out", func() (e error) { cfg.Output, e = flagSet.GetString("out"); return })
	set("name", func() (e error) { cfg.Name, e = flagSet.GetString("name"); return })
	set("formats", func() (e error) { cfg.Formats, e = flagSet.GetStringSlice("formats"); return })
	set("compact", func() (e error) { cfg.Compact, e = flagSet.GetBool("compact"); return })
	set("strict", func() (e error) { cfg.Strict, e = flagSet.GetBool("strict"); return })
	set("workers", func() (e error) { cfg.Workers, e = flagSet.GetInt("workers"); return })
	set("fine", func() (e error) { cfg.Resolution.Fine, e = flagSet.GetInt("fine"); return })
	set("coarse", func() (e error) { cfg.Resolution.Coarse, e = flagSet.GetInt("coarse"); return })
	set("log-level", func() (e error) { cfg.Log.Level, e = flagSet.GetString("log-level"); return })
	set("log-json", func() (e error) { cfg.Log.JSON, e = flagSet.GetBool("log-json"); return })

	return err
}

// Convert aggregates all inputs of cfg, writes every configured format into
// the output directory and finishes with the manifest.
func Convert(ctx context.Context, cfg config.Config, idx hexgrid.Indexer, log logrus.FieldLogger) (manifest.Manifest, error) {
	start := time.Now()

	paths, err := utils.ExpandGlobs(cfg.Inputs)
	if err != nil {
		return manifest.Manifest{}, err
	}

	if err := validate.OutputDirectory(cfg.Output); err != nil {
		return manifest.Manifest{}, err
	}
	if err := validate.Inputs(paths); err != nil {
		return manifest.Manifest{}, err
	}
	log.WithField("grids", len(paths)).Info("Validated inputs")

	// parse grids
	timer := time.Now()
	report := batch.Run(ctx, paths, idx, batch.Options{
		Workers:     cfg.Workers,
		Resolutions: cfg.Resolutions(),
		Log:         log,
	})
	if err := report.Err(); err != nil {
		if cfg.Strict {
			return manifest.Manifest{}, err
		}
		log.WithError(err).Warn("Continuing without failed grids")
	}
	if len(report.Succeeded()) == 0 {
		return manifest.Manifest{}, errors.New("no grid could be converted")
	}
	log.WithField("duration", time.Since(timer).String()).Info("Parsed grids")

	// merge
	cells := report.Merged()
	if cfg.Compact {
		timer = time.Now()
		before := len(cells)
		cells, err = hexmap.Compact(cells)
		if err != nil {
			return manifest.Manifest{}, err
		}
		log.WithFields(logrus.Fields{
			"before":   before,
			"after":    len(cells),
			"duration": time.Since(timer).String(),
		}).Info("Compacted hex map")
	}

	// write outputs
	timer = time.Now()
	files := make([]string, len(cfg.Formats))
	var g errgroup.Group
	for i, format := range cfg.Formats {
		i, format := i, format
		g.Go(func() error {
			p, err := hexmap.Save(cfg.Output, cfg.Name, format, cells)
			if err != nil {
				return err
			}
			files[i] = filepath.Base(p)
			log.WithField("file", p).Debug("Wrote hex map")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return manifest.Manifest{}, err
	}
	log.WithFields(logrus.Fields{
		"formats":  cfg.Formats,
		"duration": time.Since(timer).String(),
	}).Info("Wrote hex maps")

	m := buildManifest(cfg, report, cells, files)
	if err := manifest.Write(cfg.Output, m); err != nil {
		return manifest.Manifest{}, err
	}

	log.WithFields(logrus.Fields{
		"cells":    m.Cells,
		"duration": time.Since(start).String(),
	}).Info("Finished")

	return m, nil
}

func buildManifest(cfg config.Config, report batch.Report, cells hexmap.Map, files []string) manifest.Manifest {
	stats := hexmap.Summarize(cells)

	sources := make([]manifest.Source, len(report.Results))
	for i, r := range report.Results {
		sources[i] = manifest.Source{
			Path:     r.Path,
			Cells:    len(r.Cells),
			Values:   r.Stats.Values,
			Retained: r.Stats.Retained,
			Duration: r.Duration.String(),
		}
		if r.Err != nil {
			sources[i].Error = r.Err.Error()
		}
	}

	return manifest.Manifest{
		Name:               cfg.Name,
		Description:        fmt.Sprintf("Mean values of %d grids on H3 resolution %d", len(report.Succeeded()), cfg.Resolution.Coarse),
		FineResolution:     cfg.Resolution.Fine,
		Resolution:         cfg.Resolution.Coarse,
		Compacted:          cfg.Compact,
		Cells:              stats.Cells,
		CellsPerResolution: stats.Resolutions,
		MinValue:           stats.Min,
		MaxValue:           stats.Max,
		Files:              files,
		Sources:            sources,
		Created:            time.Now().UTC(),
	}
}
