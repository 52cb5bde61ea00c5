// Package hexgrid maps planar lon/lat geometry onto H3 cells and rolls
// fine cells up into their coarse ancestors.
package hexgrid

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/uber/h3-go/v4"
)

// Tessellation happens at FineResolution so that grids which drift against each
// other by less than a fine cell still land in the same CoarseResolution parent.
const (
	FineResolution   = 10
	CoarseResolution = 8
)

// maxResolution is the finest resolution H3 supports.
const maxResolution = 15

// maxResolutionGap bounds the children enumerated per coarse cell to 7^4.
const maxResolutionGap = 4

// Resolutions is the pair of H3 resolutions used for tessellation and output.
type Resolutions struct {
	Fine   int
	Coarse int
}

// DefaultResolutions returns the fixed 10/8 pair.
func DefaultResolutions() Resolutions {
	return Resolutions{Fine: FineResolution, Coarse: CoarseResolution}
}

// Validate makes sure both resolutions exist, fine is finer than coarse and
// the two are at most maxResolutionGap apart.
func (r Resolutions) Validate() error {
	if r.Coarse < 0 || r.Fine > maxResolution {
		return fmt.Errorf("resolutions must be within 0 and %d, got fine=%d coarse=%d", maxResolution, r.Fine, r.Coarse)
	}
	if r.Fine <= r.Coarse {
		return fmt.Errorf("fine resolution %d must be larger than coarse resolution %d", r.Fine, r.Coarse)
	}
	if r.Fine-r.Coarse > maxResolutionGap {
		return fmt.Errorf("fine resolution %d must be at most %d levels finer than coarse resolution %d", r.Fine, maxResolutionGap, r.Coarse)
	}
	return nil
}

// Indexer is the spatial index used for tessellation and hierarchy lookups.
type Indexer interface {
	// PolygonToCells returns the cells at res whose centers lie in p.
	PolygonToCells(p orb.Polygon, res int) ([]h3.Cell, error)

	// Parent returns the ancestor of c at res.
	Parent(c h3.Cell, res int) (h3.Cell, error)

	// Children returns every descendant of c at res.
	Children(c h3.Cell, res int) ([]h3.Cell, error)
}

// H3 is the Indexer backed by the H3 library. Points are read as
// orb.Point{longitude, latitude} in degrees.
type H3 struct{}

var _ Indexer = H3{}

// PolygonToCells tessellates p at res.
func (H3) PolygonToCells(p orb.Polygon, res int) ([]h3.Cell, error) {
	if len(p) == 0 || len(p[0]) == 0 {
		return nil, fmt.Errorf("polygon has no outer ring")
	}
	return h3.PolygonToCells(GeoPolygon(p), res)
}

// Parent returns the ancestor of c at res.
func (H3) Parent(c h3.Cell, res int) (h3.Cell, error) {
	return c.Parent(res)
}

// Children returns all descendants of c at res.
func (H3) Children(c h3.Cell, res int) ([]h3.Cell, error) {
	return c.Children(res)
}

// GeoPolygon converts an orb polygon to the H3 representation. The closing
// point of each ring is dropped since H3 loops are implicitly closed.
func GeoPolygon(p orb.Polygon) h3.GeoPolygon {
	var gp h3.GeoPolygon
	for i, ring := range p {
		loop := geoLoop(ring)
		if i == 0 {
			gp.GeoLoop = loop
			continue
		}
		gp.Holes = append(gp.Holes, loop)
	}
	return gp
}

func geoLoop(ring orb.Ring) h3.GeoLoop {
	if ring.Closed() && len(ring) > 1 {
		ring = ring[:len(ring)-1]
	}
	loop := make(h3.GeoLoop, len(ring))
	for i, pt := range ring {
		loop[i] = h3.LatLng{Lat: pt.Lat(), Lng: pt.Lon()}
	}
	return loop
}

// Boundary returns the outline of c as a closed orb polygon.
func Boundary(c h3.Cell) (orb.Polygon, error) {
	b, err := c.Boundary()
	if err != nil {
		return nil, err
	}
	ring := make(orb.Ring, 0, len(b)+1)
	for _, ll := range b {
		ring = append(ring, orb.Point{ll.Lng, ll.Lat})
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}, nil
}
