package utils

import (
	"fmt"
	"path/filepath"
)

// ExpandGlobs resolves glob patterns into file paths. A pattern without a
// match is an error. Paths keep the order of the patterns and duplicates
// are removed.
func ExpandGlobs(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s does not match any file", pattern)
		}

		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}

	return paths, nil
}
