// Package report composes the catalog, grouped results and run artifacts into
// a renderable document.
package report

import (
	"fmt"
	"time"

	"github.com/kamilpajak/qadoc/internal/artifacts"
	"github.com/kamilpajak/qadoc/internal/catalog"
	"github.com/kamilpajak/qadoc/pkg/models"
)

// DefaultTitle heads every generated document
const DefaultTitle = "Playwright Test Execution Report"

// Document is everything a renderer needs
type Document struct {
	ID          string
	Title       string
	RunID       string
	GeneratedAt time.Time
	Sections    []Section
	Summary     []models.SummaryRow
}

// Section documents a single catalog test case
type Section struct {
	Case      catalog.TestCase
	Results   []BrowserResult
	Snapshots []Snapshot
	StartStop *artifacts.StartStopLog
}

// BrowserResult is one recorded outcome shown in a section
type BrowserResult struct {
	Browser    string
	Status     models.TestStatus
	DurationMS int64
}

// Snapshot is an annotated screenshot, PNG encoded
type Snapshot struct {
	Name    string
	Browser string
	PNG     []byte
}

// Heading returns "<id>. <title>"
func (s Section) Heading() string {
	return fmt.Sprintf("%d. %s", s.Case.ID, s.Case.Title)
}

// Unknown reports whether no result matched the case
func (s Section) Unknown() bool {
	return len(s.Results) == 0
}

// Counts tallies summary rows by status
func (d *Document) Counts() map[models.TestStatus]int {
	return models.CountStatuses(d.Summary)
}

// HasFailures reports whether any summary row failed, timed out or was interrupted
func (d *Document) HasFailures() bool {
	for _, row := range d.Summary {
		if row.Status.IsFailure() {
			return true
		}
	}
	return false
}
