package hexgrid

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// FineMap holds the value of every tessellated fine cell.
type FineMap map[h3.Cell]float64

// CoarseMap holds the averaged value of every coarse ancestor.
type CoarseMap map[h3.Cell]uint16

// Rasterize tessellates footprint at res and stores v for every covered
// cell, overwriting earlier values. It returns the number of cells written.
func (m FineMap) Rasterize(idx Indexer, footprint orb.Polygon, res int, v float64) (int, error) {
	cells, err := idx.PolygonToCells(footprint, res)
	if err != nil {
		return 0, &TessellationError{Op: "polygon to cells", Footprint: footprint, Err: err}
	}
	for _, c := range cells {
		m[c] = v
	}
	return len(cells), nil
}

// Aggregate rolls fine up into res.Coarse. The value of a coarse cell is the
// mean over all of its descendants at res.Fine, with missing descendants
// counted as zero, truncated toward zero.
func Aggregate(fine FineMap, idx Indexer, res Resolutions) (CoarseMap, error) {
	out := make(CoarseMap)
	for cell := range fine {
		parent, err := idx.Parent(cell, res.Coarse)
		if err != nil {
			return nil, &TessellationError{Op: "parent", Cell: cell, Err: err}
		}
		if _, done := out[parent]; done {
			continue
		}

		children, err := idx.Children(parent, res.Fine)
		if err != nil {
			return nil, &TessellationError{Op: "children", Cell: parent, Err: err}
		}
		if len(children) == 0 {
			return nil, &TessellationError{Op: "children", Cell: parent, Err: errors.New("no descendants")}
		}

		var sum float64
		for _, child := range children {
			sum += fine[child]
		}

		v, err := narrow(parent, sum/float64(len(children)))
		if err != nil {
			return nil, err
		}
		out[parent] = v
	}
	return out, nil
}

func narrow(cell h3.Cell, mean float64) (uint16, error) {
	t := math.Trunc(mean)
	if math.IsNaN(t) || t < 0 || t > math.MaxUint16 {
		return 0, &NarrowingError{Cell: cell, Value: mean}
	}
	return uint16(t), nil
}
