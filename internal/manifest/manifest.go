package manifest

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"
	"time"
)

// FileName is the name of the manifest inside the output directory
const FileName = "hexmap.json"

// Version of the manifest layout
const Version = "1.0.0"

// Source describes one input grid
type Source struct {
	Path     string `json:"path"`
	Cells    int    `json:"cells"`
	Values   uint64 `json:"values"`
	Retained uint64 `json:"retained"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// Manifest describes the hex map files written by one conversion
type Manifest struct {
	HexMapJSON         string      `json:"hexmapjson"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	Scheme             string      `json:"scheme"`
	FineResolution     int         `json:"fineResolution"`
	Resolution         int         `json:"resolution"`
	Compacted          bool        `json:"compacted"`
	Cells              int         `json:"cells"`
	CellsPerResolution map[int]int `json:"cellsPerResolution"`
	MinValue           uint16      `json:"minValue"`
	MaxValue           uint16      `json:"maxValue"`
	Files              []string    `json:"files"`
	Sources            []Source    `json:"sources"`
	Created            time.Time   `json:"created"`
}

// Write a hexmap.json into outputDirectory
func Write(outputDirectory string, m Manifest) error {
	if m.HexMapJSON == "" {
		m.HexMapJSON = Version
	}
	if m.Scheme == "" {
		m.Scheme = "h3"
	}

	// create file
	f, err := os.Create(path.Join(outputDirectory, FileName))
	if err != nil {
		return err
	}

	// marshal
	bytes, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		f.Close()
		return err
	}

	// write file
	_, err = f.Write(bytes)
	if err != nil {
		f.Close()
		return err
	}

	// close file
	return f.Close()
}

// Read hexmap.json from given path
func Read(manifestPath string) (Manifest, error) {
	var val Manifest

	jsonFile, err := os.Open(manifestPath)
	if err != nil {
		return val, err
	}
	defer jsonFile.Close()

	byteValue, err := ioutil.ReadAll(jsonFile)
	if err != nil {
		return val, err
	}

	err = json.Unmarshal(byteValue, &val)
	return val, err
}
