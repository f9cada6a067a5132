// Package results groups extracted result records by test case and flattens
// them into summary rows.
package results

import (
	"regexp"

	"github.com/kamilpajak/qadoc/pkg/models"
)

// ordinalPrefix matches the "3) " numbering the runner puts in front of
// titles. Repeated prefixes are consumed together so normalizing is idempotent.
var ordinalPrefix = regexp.MustCompile(`^(?:\d+\)\s*)+`)

// NormalizeTitle strips leading ordinal prefixes from a recorded title
func NormalizeTitle(title string) string {
	return ordinalPrefix.ReplaceAllString(title, "")
}

// NormalizeStatus maps a raw status to the vocabulary used in reports.
// Only "unexpected" is rewritten; everything else is shown as recorded.
func NormalizeStatus(status models.TestStatus) models.TestStatus {
	if status == models.StatusUnexpected {
		return models.StatusFailed
	}
	return status
}
