package hexmap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Output formats understood by Save.
const (
	FormatBinary  = "hexmap"
	FormatSQLite  = "sqlite"
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
)

var extensions = map[string]string{
	FormatBinary:  ".hexmap",
	FormatSQLite:  ".db",
	FormatCSV:     ".csv",
	FormatGeoJSON: ".geojson",
}

// Formats returns the names of all output formats.
func Formats() []string {
	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsFormat reports whether name is a known output format.
func IsFormat(name string) bool {
	_, ok := extensions[name]
	return ok
}

// Save writes m into dir as <name><ext> using format and returns the path
// of the written file. An existing file is replaced.
func Save(dir, name, format string, m Map) (string, error) {
	ext, ok := extensions[format]
	if !ok {
		return "", fmt.Errorf("hexmap: unknown format %q", format)
	}
	path := filepath.Join(dir, name+ext)

	var err error
	switch format {
	case FormatBinary:
		err = SaveBinary(path, m)
	case FormatSQLite:
		if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
			return "", err
		}
		err = WriteSQLite(path, name, m)
	case FormatCSV:
		err = writeFile(path, func(w io.Writer) error { return WriteCSV(w, m) })
	case FormatGeoJSON:
		err = writeFile(path, func(w io.Writer) error { return WriteGeoJSON(w, m) })
	}
	if err != nil {
		return "", fmt.Errorf("hexmap: write %s: %w", path, err)
	}
	return path, nil
}

// Load reads a map saved in the binary or SQLite format, chosen by the
// extension of path.
func Load(path string) (Map, error) {
	switch filepath.Ext(path) {
	case extensions[FormatBinary]:
		return LoadBinary(path)
	case extensions[FormatSQLite]:
		return ReadSQLite(path)
	}
	return nil, fmt.Errorf("hexmap: cannot load %s", path)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
