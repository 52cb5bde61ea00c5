package asc

import (
	"github.com/paulmach/orb"
)

// Cursor tracks the upper left corner of the grid cell being read.
type Cursor struct {
	Pos orb.Point
	Col uint64
	Row uint64

	origin   orb.Point
	columns  uint64
	cellSize float64
}

// NewCursor returns a cursor on the first cell of h.
func NewCursor(h Header) Cursor {
	return Cursor{
		Pos:      h.Origin(),
		origin:   h.Origin(),
		columns:  h.Columns,
		cellSize: h.CellSize,
	}
}

// Advance moves one cell to the right, wrapping to the start of the next
// row after every Columns values.
func (c *Cursor) Advance() {
	c.Col++
	c.Pos[0] += c.cellSize
	if c.Col >= c.columns {
		c.Col = 0
		c.Row++
		c.Pos = orb.Point{c.origin[0], c.Pos[1] - c.cellSize}
	}
}

// Footprint returns the current cell as a closed clockwise ring.
func (c Cursor) Footprint() orb.Polygon {
	return Footprint(c.Pos, c.cellSize)
}

// Footprint returns the square cell with upper left corner p and edge s.
func Footprint(p orb.Point, s float64) orb.Polygon {
	x, y := p[0], p[1]
	return orb.Polygon{orb.Ring{
		{x, y},
		{x + s, y},
		{x + s, y - s},
		{x, y - s},
		{x, y},
	}}
}
