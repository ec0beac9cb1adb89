package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// schemaExt is the file extension of zeroproto schema sources.
const schemaExt = ".zp"

// Filters selects schema files by glob patterns matched against paths
// relative to the input root. Include patterns narrow the set when present;
// exclude patterns always remove matches.
type Filters struct {
	Include []string
	Exclude []string
}

// Validate checks every pattern for glob syntax errors.
func (f Filters) Validate() error {
	for _, pattern := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: invalid glob pattern %q", ErrUsage, pattern)
		}
	}

	return nil
}

// Match reports whether the relative path passes the filters.
func (f Filters) Match(rel string) bool {
	rel = filepath.ToSlash(rel)

	if len(f.Include) > 0 {
		included := false
		for _, pattern := range f.Include {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				included = true

				break
			}
		}

		if !included {
			return false
		}
	}

	for _, pattern := range f.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}

	return true
}

// DiscoverSchemas finds schema files under input, which may be a single file
// or a directory walked recursively. It returns the files passing the
// filters and the schema files the filters skipped, both sorted.
func DiscoverSchemas(input string, filters Filters) (included, skipped []string, err error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(input, schemaExt) {
			return nil, nil, fmt.Errorf("%w: %s is not a %s schema file", ErrUsage, input, schemaExt)
		}

		if filters.Match(filepath.Base(input)) {
			return []string{input}, nil, nil
		}

		return nil, []string{input}, nil
	}

	walkErr := filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, schemaExt) {
			return nil
		}

		rel, err := filepath.Rel(input, path)
		if err != nil {
			rel = path
		}

		if filters.Match(rel) {
			included = append(included, path)
		} else {
			skipped = append(skipped, path)
		}

		return nil
	})
	if walkErr != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", input, walkErr)
	}

	sort.Strings(included)
	sort.Strings(skipped)

	return included, skipped, nil
}
