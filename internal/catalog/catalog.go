// Package catalog holds the fixed list of test cases a report is built around.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// TestCase is one documented test case
type TestCase struct {
	ID         int      `yaml:"id"`
	Title      string   `yaml:"title"`
	Steps      []string `yaml:"steps"`
	Expected   string   `yaml:"expected"`
	StartupLog bool     `yaml:"startup_log"`
}

// Catalog is an immutable, ID-ordered set of test cases
type Catalog struct {
	cases []TestCase
}

type catalogFile struct {
	Cases []TestCase `yaml:"cases"`
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the embedded catalog, parsed on first use
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(defaultCatalog)
	})
	return defaultCat, defaultErr
}

// Load reads a catalog from a YAML file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("catalog has no test cases")
	}

	seen := make(map[int]bool, len(f.Cases))
	startup := 0
	for _, tc := range f.Cases {
		if tc.ID <= 0 {
			return nil, fmt.Errorf("test case %q: id must be positive, got %d", tc.Title, tc.ID)
		}
		if seen[tc.ID] {
			return nil, fmt.Errorf("duplicate test case id %d", tc.ID)
		}
		seen[tc.ID] = true
		if strings.TrimSpace(tc.Title) == "" {
			return nil, fmt.Errorf("test case %d: title is empty", tc.ID)
		}
		if tc.StartupLog {
			startup++
		}
	}
	if startup > 1 {
		return nil, fmt.Errorf("at most one test case may set startup_log, found %d", startup)
	}

	cases := make([]TestCase, len(f.Cases))
	copy(cases, f.Cases)
	sort.SliceStable(cases, func(i, j int) bool { return cases[i].ID < cases[j].ID })

	return &Catalog{cases: cases}, nil
}

// Cases returns a copy of the test cases in ascending ID order
func (c *Catalog) Cases() []TestCase {
	out := make([]TestCase, len(c.cases))
	for i, tc := range c.cases {
		tc.Steps = append([]string(nil), tc.Steps...)
		out[i] = tc
	}
	return out
}

// Titles returns the test case titles in ID order
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.cases))
	for i, tc := range c.cases {
		titles[i] = tc.Title
	}
	return titles
}

// Len returns the number of test cases
func (c *Catalog) Len() int {
	return len(c.cases)
}
