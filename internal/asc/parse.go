// Package asc streams ESRI ASCII grids onto H3 cells.
//
// The grid is never held in memory: every body line is tessellated as soon
// as it is read and only the fine cell values are kept until the grid has
// been consumed and aggregated.
package asc

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/gruppe-adler/hexpop/internal/hexgrid"
)

// skipValue is treated like the nodata token.
const skipValue = "0"

// maxLineSize bounds a single line. A global 30 arc second grid has 43200
// values per row.
const maxLineSize = 64 << 20

// Stats counts what happened while a grid was parsed.
type Stats struct {
	Values      uint64 // body tokens consumed
	Retained    uint64 // values that were tessellated
	Skipped     uint64 // nodata and zero values
	FineCells   int
	CoarseCells int
}

type options struct {
	res hexgrid.Resolutions
	log logrus.FieldLogger
}

// Option configures Parse.
type Option func(*options)

// WithResolutions overrides the default fine and coarse resolutions.
func WithResolutions(r hexgrid.Resolutions) Option {
	return func(o *options) { o.res = r }
}

// WithLogger sets the logger used for per grid debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{
		res: hexgrid.DefaultResolutions(),
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// bodyState walks the body values once the header is complete.
type bodyState struct {
	header Header
	cursor Cursor
}

func newBodyState(h Header) *bodyState {
	return &bodyState{header: h, cursor: NewCursor(h)}
}

// consume processes the values of one line from left to right. Rows wrap by
// value count, not by line.
func (s *bodyState) consume(line int, fields []string, r *rasterizer) error {
	for _, tok := range fields {
		if tok == s.header.NoData || tok == skipValue {
			r.stats.Skipped++
		} else {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return &ParseError{Line: line, Token: tok, Err: err}
			}
			if err := r.add(s.cursor.Footprint(), v); err != nil {
				return err
			}
			r.stats.Retained++
		}
		r.stats.Values++
		s.cursor.Advance()
	}
	return nil
}

type rasterizer struct {
	idx   hexgrid.Indexer
	res   int
	fine  hexgrid.FineMap
	stats *Stats
}

func (r *rasterizer) add(footprint orb.Polygon, v float64) error {
	_, err := r.fine.Rasterize(r.idx, footprint, r.res, v)
	return err
}

// Parse reads a grid from r and returns its values aggregated onto coarse
// cells. Any malformed token or indexer failure aborts the whole grid.
func Parse(r io.Reader, idx hexgrid.Indexer, opts ...Option) (hexgrid.CoarseMap, error) {
	cells, _, err := ParseWithStats(r, idx, opts...)
	return cells, err
}

// ParseWithStats is Parse that also reports counters.
func ParseWithStats(r io.Reader, idx hexgrid.Indexer, opts ...Option) (hexgrid.CoarseMap, Stats, error) {
	o := newOptions(opts)
	if err := o.res.Validate(); err != nil {
		return nil, Stats{}, err
	}

	var stats Stats
	rast := &rasterizer{
		idx:   idx,
		res:   o.res.Fine,
		fine:  make(hexgrid.FineMap),
		stats: &stats,
	}

	head := newHeaderState()
	var body *bodyState

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())

		if body == nil {
			var err error
			body, err = head.consume(line, fields)
			if err != nil {
				return nil, Stats{}, err
			}
			if body != nil {
				o.log.WithFields(logrus.Fields{
					"ncols":    body.header.Columns,
					"nrows":    body.header.Rows,
					"start":    body.cursor.Pos,
					"cellsize": body.header.CellSize,
				}).Debug("header complete")
			}
			continue
		}

		if err := body.consume(line, fields, rast); err != nil {
			return nil, Stats{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, Stats{}, &IOError{Err: err}
	}

	if body != nil && stats.Values != body.header.Cells() {
		o.log.WithFields(logrus.Fields{
			"expected": body.header.Cells(),
			"values":   stats.Values,
		}).Warn("body value count does not match header")
	}

	stats.FineCells = len(rast.fine)
	coarse, err := hexgrid.Aggregate(rast.fine, idx, o.res)
	if err != nil {
		return nil, Stats{}, err
	}
	stats.CoarseCells = len(coarse)

	o.log.WithFields(logrus.Fields{
		"retained": stats.Retained,
		"skipped":  stats.Skipped,
		"fine":     stats.FineCells,
		"coarse":   stats.CoarseCells,
	}).Debug("grid aggregated")

	return coarse, stats, nil
}

// ParseFile opens path (see Open) and parses it.
func ParseFile(path string, idx hexgrid.Indexer, opts ...Option) (hexgrid.CoarseMap, Stats, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()

	cells, stats, err := ParseWithStats(rc, idx, opts...)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = path
		}
		return nil, Stats{}, err
	}
	return cells, stats, nil
}

// ReadHeader reads lines from r up to and including NODATA_value.
func ReadHeader(r io.Reader) (Header, error) {
	head := newHeaderState()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		body, err := head.consume(line, strings.Fields(scanner.Text()))
		if err != nil {
			return Header{}, err
		}
		if body != nil {
			return body.header, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return Header{}, &IOError{Err: err}
	}
	return head.partial, ErrHeaderIncomplete
}
