package sources

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skippedDirs are never searched for sources
var skippedDirs = []string{"node_modules", "dist", "build"}

func skipDir(root, path string, d fs.DirEntry) bool {
	if path == root {
		return false
	}
	name := d.Name()
	return strings.HasPrefix(name, ".") || slices.Contains(skippedDirs, name)
}

// matchesAnyPattern reports whether relPath matches one of the glob patterns.
// Malformed patterns never match.
func matchesAnyPattern(relPath string, patterns []string) bool {
	// doublestar.Match expects forward slashes
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
	}
	return false
}

// ValidatePatterns reports the first malformed glob pattern
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return nil
}

// Expand walks root and returns the sorted paths of supported files whose
// path relative to root matches any of patterns. Hidden and dependency
// directories are skipped.
func Expand(root string, patterns []string) ([]string, error) {
	if err := ValidatePatterns(patterns); err != nil {
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(root, path, d) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if LanguageForPath(rel) != Unsupported && matchesAnyPattern(rel, patterns) {
			files = append(files, filepath.Join(root, rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}
