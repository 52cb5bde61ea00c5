package utils

import (
	"io/fs"
	"os"
)

// IsFile tests whether path exists and is a regular file
func IsFile(path string) bool {
	mode, ok := statMode(path)
	return ok && mode.IsRegular()
}

// IsDirectory tests whether path exists and is a directory
func IsDirectory(path string) bool {
	mode, ok := statMode(path)
	return ok && mode.IsDir()
}

// statMode follows symlinks. ok is false if path cannot be stat'ed.
func statMode(path string) (mode fs.FileMode, ok bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Mode(), true
}
