package results

import (
	"github.com/kamilpajak/qadoc/internal/catalog"
	"github.com/kamilpajak/qadoc/pkg/models"
)

// Summarize emits one row per recorded result of each catalog case, in
// catalog order. Cases without results contribute no rows.
func Summarize(cases []catalog.TestCase, groups *Groups) []models.SummaryRow {
	var rows []models.SummaryRow
	for _, tc := range cases {
		for _, r := range groups.Get(tc.Title) {
			rows = append(rows, summaryRow(tc, r))
		}
	}
	return rows
}

// summaryRow flattens a single record against its catalog case
func summaryRow(tc catalog.TestCase, r models.ResultRecord) models.SummaryRow {
	return models.SummaryRow{
		ID:         tc.ID,
		Title:      tc.Title,
		Browser:    r.Project,
		Status:     NormalizeStatus(r.Status),
		StartTime:  r.StartTime,
		DurationMS: r.DurationMS,
		Error:      models.FirstLine(r.Error),
	}
}
