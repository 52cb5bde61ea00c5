// Package hexgridtest provides a deterministic Indexer for tests.
package hexgridtest

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// Fake is an Indexer with a flat numeric hierarchy: the parent of cell c is
// c / Branch and the children of p are p*Branch .. p*Branch+Branch-1.
// Resolution arguments are ignored.
type Fake struct {
	Branch uint64

	// Footprints maps the first vertex of a footprint to the cells it covers.
	Footprints map[orb.Point][]h3.Cell

	// Fail makes PolygonToCells return an error for the footprint starting at the key.
	Fail map[orb.Point]error

	mu    sync.Mutex
	calls []orb.Polygon
}

// NewFake returns a Fake with the given branching factor.
func NewFake(branch uint64) *Fake {
	return &Fake{
		Branch:     branch,
		Footprints: make(map[orb.Point][]h3.Cell),
		Fail:       make(map[orb.Point]error),
	}
}

// PolygonToCells returns the cells registered for the first vertex of p.
func (f *Fake) PolygonToCells(p orb.Polygon, res int) ([]h3.Cell, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()

	if len(p) == 0 || len(p[0]) == 0 {
		return nil, fmt.Errorf("empty polygon")
	}
	origin := p[0][0]
	if err := f.Fail[origin]; err != nil {
		return nil, err
	}
	return f.Footprints[origin], nil
}

// Parent returns c / Branch.
func (f *Fake) Parent(c h3.Cell, res int) (h3.Cell, error) {
	return h3.Cell(uint64(c) / f.Branch), nil
}

// Children returns the Branch children of c.
func (f *Fake) Children(c h3.Cell, res int) ([]h3.Cell, error) {
	out := make([]h3.Cell, f.Branch)
	for i := range out {
		out[i] = h3.Cell(uint64(c)*f.Branch + uint64(i))
	}
	return out, nil
}

// Calls returns the footprints passed to PolygonToCells so far.
func (f *Fake) Calls() []orb.Polygon {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]orb.Polygon(nil), f.calls...)
}
