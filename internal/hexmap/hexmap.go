// Package hexmap holds the merged output of one or more grids and writes
// it to disk.
package hexmap

import (
	"fmt"
	"sort"

	"github.com/uber/h3-go/v4"

	"github.com/gruppe-adler/hexpop/internal/hexgrid"
)

// Map is a sparse set of H3 cells with a uint16 value each.
type Map map[h3.Cell]uint16

// Merge unions maps in order. On collision the later map wins.
func Merge(maps ...hexgrid.CoarseMap) Map {
	n := 0
	for _, m := range maps {
		n += len(m)
	}
	out := make(Map, n)
	for _, m := range maps {
		for c, v := range m {
			out[c] = v
		}
	}
	return out
}

// Cells returns the cells of m in ascending index order.
func (m Map) Cells() []h3.Cell {
	cells := make([]h3.Cell, 0, len(m))
	for c := range m {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
	return cells
}

// Compact replaces every complete set of siblings carrying the same value by
// their parent, repeatedly, as far as the hierarchy allows.
func Compact(m Map) (Map, error) {
	groups := make(map[uint16][]h3.Cell)
	for c, v := range m {
		groups[v] = append(groups[v], c)
	}

	out := make(Map, len(m))
	for v, cells := range groups {
		cells, err := sameResolution(cells)
		if err != nil {
			return nil, err
		}
		compacted, err := h3.CompactCells(cells)
		if err != nil {
			return nil, fmt.Errorf("hexmap: compact value %d: %w", v, err)
		}
		for _, c := range compacted {
			out[c] = v
		}
	}
	return out, nil
}

// sameResolution expands cells to the finest resolution among them, which
// CompactCells requires.
func sameResolution(cells []h3.Cell) ([]h3.Cell, error) {
	lo, hi := cells[0].Resolution(), cells[0].Resolution()
	for _, c := range cells[1:] {
		r := c.Resolution()
		if r < lo {
			lo = r
		}
		if r > hi {
			hi = r
		}
	}
	if lo == hi {
		return cells, nil
	}
	expanded, err := h3.UncompactCells(cells, hi)
	if err != nil {
		return nil, fmt.Errorf("hexmap: uncompact to resolution %d: %w", hi, err)
	}
	return expanded, nil
}

// Uncompact expands every cell coarser than res into its descendants at res.
func Uncompact(m Map, res int) (Map, error) {
	out := make(Map, len(m))
	for c, v := range m {
		switch r := c.Resolution(); {
		case r == res:
			out[c] = v
		case r < res:
			children, err := c.Children(res)
			if err != nil {
				return nil, fmt.Errorf("hexmap: children of %s: %w", c, err)
			}
			for _, child := range children {
				out[child] = v
			}
		default:
			return nil, fmt.Errorf("hexmap: %s is finer than resolution %d", c, res)
		}
	}
	return out, nil
}

// Stats summarizes a Map.
type Stats struct {
	Cells       int
	Min, Max    uint16
	Sum         uint64
	Resolutions map[int]int // cell count per resolution
}

// Summarize computes Stats for m.
func Summarize(m Map) Stats {
	s := Stats{Resolutions: make(map[int]int)}
	for c, v := range m {
		if s.Cells == 0 || v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		s.Cells++
		s.Sum += uint64(v)
		s.Resolutions[c.Resolution()]++
	}
	return s
}
