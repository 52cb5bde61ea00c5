package hexgrid

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// TessellationError is returned when the Indexer fails on a footprint or a
// hierarchy lookup.
type TessellationError struct {
	Op        string
	Cell      h3.Cell
	Footprint orb.Polygon
	Err       error
}

func (e *TessellationError) Error() string {
	if e.Footprint != nil {
		return fmt.Sprintf("hexgrid: %s for footprint %v: %v", e.Op, e.Footprint.Bound(), e.Err)
	}
	return fmt.Sprintf("hexgrid: %s of %s: %v", e.Op, e.Cell, e.Err)
}

func (e *TessellationError) Unwrap() error { return e.Err }

// NarrowingError is returned when an aggregated mean does not fit a uint16.
type NarrowingError struct {
	Cell  h3.Cell
	Value float64
}

func (e *NarrowingError) Error() string {
	return fmt.Sprintf("hexgrid: mean %v of %s does not fit an unsigned 16 bit value", e.Value, e.Cell)
}
