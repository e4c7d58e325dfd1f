// Package discover resolves schema file locations from glob patterns and
// command line arguments.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches the conventional Avro schema file layout.
const DefaultPattern = "**/*.avsc"

// Discover resolves a doublestar glob pattern under root to a sorted list of
// schema files. Directories matched by the pattern are ignored. Sorting keeps
// report order stable across filesystems.
func Discover(root, pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}

	sort.Strings(files)
	return files, nil
}

// Expand turns command line arguments into a concrete file list: files pass
// through untouched, directories are globbed with the pattern. Duplicates are
// dropped, first occurrence wins. An argument that does not exist is an
// error, not a silently empty batch.
func Expand(args []string, pattern string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			add(arg)
			continue
		}

		found, err := Discover(arg, pattern)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}
