package hexmap

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"github.com/gruppe-adler/hexpop/internal/hexgrid"
)

// WriteCSV writes one row per cell with the cell center and value.
func WriteCSV(w io.Writer, m Map) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"h3cell", "lat", "lng", "value"}); err != nil {
		return err
	}
	for _, c := range m.Cells() {
		ll, err := c.LatLng()
		if err != nil {
			return fmt.Errorf("hexmap: center of %s: %w", c, err)
		}
		record := []string{
			c.String(),
			strconv.FormatFloat(ll.Lat, 'f', 6, 64),
			strconv.FormatFloat(ll.Lng, 'f', 6, 64),
			strconv.FormatUint(uint64(m[c]), 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// FeatureCollection returns every cell as a hexagon feature with h3cell and
// value properties.
func FeatureCollection(m Map) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, c := range m.Cells() {
		poly, err := hexgrid.Boundary(c)
		if err != nil {
			return nil, fmt.Errorf("hexmap: boundary of %s: %w", c, err)
		}
		f := geojson.NewFeature(poly)
		f.Properties["h3cell"] = c.String()
		f.Properties["value"] = m[c]
		fc.Append(f)
	}
	return fc, nil
}

// WriteGeoJSON writes m as a GeoJSON FeatureCollection.
func WriteGeoJSON(w io.Writer, m Map) error {
	fc, err := FeatureCollection(m)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
