package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/kamilpajak/qadoc/pkg/models"
)

// SummaryTable prints the summary rows as a terminal table. Failure reasons
// are wrapped so long assertion messages don't blow out the layout.
func SummaryTable(w io.Writer, rows []models.SummaryRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	t.AppendHeader(table.Row{"TC", "Test Name", "Browser", "Status", "Start Time", "Duration (ms)", "Failure Reason"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test Name", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration (ms)", Align: text.AlignRight},
		{Name: "Failure Reason", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, r := range rows {
		t.AppendRow(table.Row{r.ID, r.Title, r.Browser, colorStatus(r.Status), r.StartTime, r.DurationMS, r.Error})
	}

	t.AppendFooter(table.Row{"", fmt.Sprintf("%d results", len(rows)), "", StatusLine(models.CountStatuses(rows))})
	t.Render()
}

// StatusLine formats status counts as "failed=1 passed=2", sorted by status
func StatusLine(counts map[models.TestStatus]int) string {
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, fmt.Sprintf("%s=%d", s, counts[models.TestStatus(s)]))
	}
	return strings.Join(parts, " ")
}

func colorStatus(s models.TestStatus) string {
	switch {
	case s == models.StatusPassed:
		return color.GreenString(string(s))
	case s.IsFailure():
		return color.RedString(string(s))
	case s == models.StatusSkipped:
		return color.YellowString(string(s))
	default:
		return string(s)
	}
}
