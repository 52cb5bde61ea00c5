package asc

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestCursorWrapsEveryColumnsValues(t *testing.T) {
	h := Header{Columns: 3, Rows: 4, LowerLeftX: 5, LowerLeftY: -2, CellSize: 0.25}
	c := NewCursor(h)
	assert.Equal(t, orb.Point{5, -1}, c.Pos)

	for i := uint64(0); i < h.Cells(); i++ {
		assert.Less(t, c.Col, h.Columns)
		assert.Equal(t, i%h.Columns, c.Col)
		assert.Equal(t, i/h.Columns, c.Row)
		assert.InDelta(t, 5+0.25*float64(c.Col), c.Pos[0], 1e-9)
		assert.InDelta(t, -1-0.25*float64(c.Row), c.Pos[1], 1e-9)
		c.Advance()
	}
	assert.Equal(t, uint64(0), c.Col)
	assert.Equal(t, h.Rows, c.Row)
}

func TestFootprintIsClosedClockwise(t *testing.T) {
	fp := Footprint(orb.Point{1, 2}, 0.5)

	assert.Len(t, fp, 1)
	assert.Equal(t, orb.Ring{{1, 2}, {1.5, 2}, {1.5, 1.5}, {1, 1.5}, {1, 2}}, fp[0])
	assert.True(t, fp[0].Closed())
	assert.Equal(t, orb.CW, fp[0].Orientation())
}

func TestHeaderStateTransition(t *testing.T) {
	s := newHeaderState()

	body, err := s.consume(1, []string{"ncols", "4"})
	assert.NoError(t, err)
	assert.Nil(t, body)

	body, err = s.consume(2, nil)
	assert.NoError(t, err)
	assert.Nil(t, body)

	body, err = s.consume(3, []string{"NODATA_value", "-9999"})
	assert.NoError(t, err)
	if assert.NotNil(t, body) {
		assert.Equal(t, Header{Columns: 4, NoData: "-9999"}, body.header)
		assert.Equal(t, uint64(0), body.cursor.Col)
	}
}

func TestHeaderKeysAreCaseSensitive(t *testing.T) {
	s := newHeaderState()

	body, err := s.consume(1, []string{"NCOLS", "notanumber"})
	assert.NoError(t, err)
	assert.Nil(t, body)

	body, err = s.consume(2, []string{"nodata_value", "-9999"})
	assert.NoError(t, err)
	assert.Nil(t, body)
	assert.Equal(t, DefaultNoData, s.partial.NoData)
}
