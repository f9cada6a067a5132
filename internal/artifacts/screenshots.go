// Package artifacts locates the screenshots and logs a test run leaves on
// disk. Correlation is by file naming only: the result records are not
// consulted.
package artifacts

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	// ScreenshotExt is the extension of screenshot files
	ScreenshotExt = ".png"
	// FallbackBrowser labels screenshots whose name carries no browser segment
	FallbackBrowser = "browser"

	separator = "-"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into the lowercase, dash-separated form used in
// screenshot filenames. Punctuation splits words: "doesn't" becomes
// "doesn-t", so a file saved as "...-doesnt-..." does not match that title.
func Slugify(title string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(title), separator), separator)
}

// BrowserLabel infers the browser from a screenshot filename laid out as
// <slug>-<browser>-<name>.png.
func BrowserLabel(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(stem, separator)
	if len(parts) < 2 {
		return FallbackBrowser
	}
	return parts[len(parts)-2]
}

// Screenshot is a file correlated to a test case
type Screenshot struct {
	Name    string
	Path    string
	Browser string
}

// Correlator matches screenshot files in one directory to catalog titles
type Correlator struct {
	dir   string
	ext   string
	slugs []string
}

// NewCorrelator builds a correlator for dir. The titles are every catalog
// title; they are used to settle files whose name fits more than one slug.
func NewCorrelator(dir string, titles []string) *Correlator {
	slugs := make([]string, 0, len(titles))
	for _, t := range titles {
		slugs = append(slugs, Slugify(t))
	}
	return &Correlator{dir: dir, ext: ScreenshotExt, slugs: slugs}
}

// Dir returns the directory being searched
func (c *Correlator) Dir() string {
	return c.dir
}

// Screenshots returns the files named "<slug>-*<ext>" for title, sorted by
// name. A file that also fits a longer catalog slug belongs to that slug.
func (c *Correlator) Screenshots(title string) []Screenshot {
	slug := Slugify(title)
	if slug == "" {
		return nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, slug+separator) || !strings.HasSuffix(name, c.ext) {
			continue
		}
		if c.claimedByLonger(slug, name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	shots := make([]Screenshot, 0, len(names))
	for _, name := range names {
		shots = append(shots, Screenshot{
			Name:    name,
			Path:    filepath.Join(c.dir, name),
			Browser: BrowserLabel(name),
		})
	}
	return shots
}

func (c *Correlator) claimedByLonger(slug, name string) bool {
	for _, other := range c.slugs {
		if len(other) > len(slug) && strings.HasPrefix(name, other+separator) {
			return true
		}
	}
	return false
}
