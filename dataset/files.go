package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openfleet/vrpkit/vrp"
)

// SaveProblem encodes p and writes it to path, creating parent
// directories as needed. Files are written with 0o644 permissions.
func SaveProblem(p *vrp.Problem, path string) error {
	data, err := vrp.EncodeProblem(p)
	if err != nil {
		return fmt.Errorf("dataset: encode %q: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("dataset: mkdir %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dataset: write %q: %w", path, err)
	}
	return nil
}

// LoadProblem reads and decodes a problem file previously produced by
// SaveProblem (or any file in the same schema). The problem label is
// set to the file's base name without extension when the file itself
// carries none.
func LoadProblem(path string) (*vrp.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read %q: %w", path, err)
	}
	p, err := vrp.DecodeProblem(data)
	if err != nil {
		return nil, fmt.Errorf("dataset: decode %q: %w", path, err)
	}
	if p.Label == "" {
		base := filepath.Base(path)
		p.Label = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return p, nil
}

// ListProblems returns the paths of all *.json files directly under
// dir, sorted lexicographically. Subdirectories are not descended.
func ListProblems(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset: list %q: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
