package validate

import (
	"fmt"

	"github.com/gruppe-adler/hexpop/internal/asc"
	"github.com/gruppe-adler/hexpop/internal/utils"
)

// OutputDirectory validates that given directory exists
func OutputDirectory(dirPath string) error {
	if !utils.IsDirectory(dirPath) {
		return fmt.Errorf("%s does not exists or is no directory", dirPath)
	}
	return nil
}

// Inputs validates that every path is a grid with a complete header
func Inputs(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("no input grids given")
	}

	for _, p := range paths {
		if err := Grid(p); err != nil {
			return err
		}
	}

	return nil
}

// Grid validates that given path is a grid with a complete header
func Grid(gridPath string) error {
	if !utils.IsFile(gridPath) {
		return fmt.Errorf("%s does not exists or is no file", gridPath)
	}

	rc, err := asc.Open(gridPath)
	if err != nil {
		return err
	}
	defer rc.Close()

	header, err := asc.ReadHeader(rc)
	if err != nil {
		return fmt.Errorf("%s: %w", gridPath, err)
	}

	if header.Columns == 0 || header.Rows == 0 {
		return fmt.Errorf("%s: grid has no cells (ncols %d, nrows %d)", gridPath, header.Columns, header.Rows)
	}
	if header.CellSize <= 0 {
		return fmt.Errorf("%s: cellsize must be greater than 0", gridPath)
	}

	return nil
}
