package asc

import (
	"strconv"

	"github.com/paulmach/orb"
)

// DefaultNoData is used when a grid does not set NODATA_value.
const DefaultNoData = "-1"

// Header keywords. Matching is case sensitive.
const (
	keyColumns  = "ncols"
	keyRows     = "nrows"
	keyXCorner  = "xllcorner"
	keyYCorner  = "yllcorner"
	keyCellSize = "cellsize"
	keyNoData   = "NODATA_value"
)

// Header describes an ESRI ASCII grid.
type Header struct {
	Columns    uint64
	Rows       uint64
	LowerLeftX float64
	LowerLeftY float64
	CellSize   float64

	// NoData is kept as the literal token so body values can be compared
	// without parsing.
	NoData string
}

// Origin returns the upper left corner of the grid, where the first body
// value is located.
func (h Header) Origin() orb.Point {
	return orb.Point{h.LowerLeftX, h.LowerLeftY + h.CellSize*float64(h.Rows)}
}

// Bound returns the extent covered by the grid.
func (h Header) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{h.LowerLeftX, h.LowerLeftY},
		Max: orb.Point{
			h.LowerLeftX + h.CellSize*float64(h.Columns),
			h.LowerLeftY + h.CellSize*float64(h.Rows),
		},
	}
}

// Cells returns the number of values the body is expected to hold.
func (h Header) Cells() uint64 {
	return h.Columns * h.Rows
}

// headerState collects header lines until NODATA_value completes the header.
type headerState struct {
	partial Header
}

func newHeaderState() *headerState {
	return &headerState{partial: Header{NoData: DefaultNoData}}
}

// consume applies one header line. It returns the body state once the
// header is complete and nil otherwise.
func (s *headerState) consume(line int, fields []string) (*bodyState, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	key := fields[0]
	switch key {
	case keyColumns, keyRows, keyXCorner, keyYCorner, keyCellSize, keyNoData:
	default:
		return nil, nil
	}

	if len(fields) < 2 {
		return nil, &ParseError{Line: line, Key: key, Err: errMissingValue}
	}
	value := fields[1]

	var err error
	switch key {
	case keyColumns:
		s.partial.Columns, err = strconv.ParseUint(value, 10, 64)
	case keyRows:
		s.partial.Rows, err = strconv.ParseUint(value, 10, 64)
	case keyXCorner:
		s.partial.LowerLeftX, err = strconv.ParseFloat(value, 64)
	case keyYCorner:
		s.partial.LowerLeftY, err = strconv.ParseFloat(value, 64)
	case keyCellSize:
		s.partial.CellSize, err = strconv.ParseFloat(value, 64)
	case keyNoData:
		s.partial.NoData = value
		return newBodyState(s.partial), nil
	}
	if err != nil {
		return nil, &ParseError{Line: line, Key: key, Token: value, Err: err}
	}
	return nil, nil
}
