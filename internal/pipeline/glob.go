package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FindInputFiles expands the pattern inside dir into a sorted list of
// regular files. Directories matching the pattern are skipped.
func FindInputFiles(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	seen := make(map[string]bool)
	var result []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		if !seen[match] {
			seen[match] = true
			result = append(result, match)
		}
	}

	// Sort for deterministic ordering
	sort.Strings(result)

	return result, nil
}
