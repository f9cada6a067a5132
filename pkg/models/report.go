package models

import "strings"

// TestStatus is an outcome as recorded by the test runner
type TestStatus string

const (
	StatusPassed      TestStatus = "passed"
	StatusFailed      TestStatus = "failed"
	StatusUnexpected  TestStatus = "unexpected"
	StatusSkipped     TestStatus = "skipped"
	StatusTimedOut    TestStatus = "timedOut"
	StatusInterrupted TestStatus = "interrupted"
	StatusUnknown     TestStatus = "unknown"
)

// IsFailure reports whether s is a failing outcome
func (s TestStatus) IsFailure() bool {
	switch s {
	case StatusFailed, StatusTimedOut, StatusInterrupted:
		return true
	}
	return false
}

// UnknownProject labels results whose test carries no project name
const UnknownProject = "unknown"

// ResultRecord is one attempt of one test under one project
type ResultRecord struct {
	Title      string     `json:"title"`
	Status     TestStatus `json:"status"`
	DurationMS int64      `json:"duration_ms"`
	Project    string     `json:"project"`
	StartTime  string     `json:"start_time,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// SummaryRow is one line of the cross-browser summary table
type SummaryRow struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Browser    string     `json:"browser"`
	Status     TestStatus `json:"status"`
	StartTime  string     `json:"start_time,omitempty"`
	DurationMS int64      `json:"duration_ms"`
	Error      string     `json:"error,omitempty"`
}

// CountStatuses tallies rows by status
func CountStatuses(rows []SummaryRow) map[TestStatus]int {
	counts := make(map[TestStatus]int)
	for _, r := range rows {
		counts[r.Status]++
	}
	return counts
}

// FirstLine returns the first line of a failure message. A lone \r also
// ends the line.
func FirstLine(msg string) string {
	if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
		return msg[:i]
	}
	return msg
}
