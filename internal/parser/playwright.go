package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kamilpajak/qadoc/pkg/models"
)

// Report is the raw Playwright JSON reporter tree
type Report struct {
	Suites []Suite `json:"suites"`
}

// Suite groups specs and may nest further suites
type Suite struct {
	Title  string  `json:"title"`
	File   string  `json:"file"`
	Specs  []Spec  `json:"specs"`
	Suites []Suite `json:"suites"`
}

// Spec is a single named test definition
type Spec struct {
	Title string `json:"title"`
	Tests []Test `json:"tests"`
}

// Test is one spec executed under one project
type Test struct {
	ProjectName string   `json:"projectName"`
	Results     []Result `json:"results"`
}

// Result is one execution attempt
type Result struct {
	Status    string        `json:"status"`
	Duration  millis        `json:"duration"`
	StartTime string        `json:"startTime"`
	Error     *ResultError  `json:"error"`
	Errors    []ResultError `json:"errors"`
}

// ResultError is a failure attached to a result
type ResultError struct {
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

// millis decodes a duration leniently: fractions are truncated, anything
// that is not a non-negative number becomes 0.
type millis int64

func (m *millis) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil || f < 0 {
		*m = 0
		return nil
	}
	*m = millis(f)
	return nil
}

// LoadResult is the outcome of loading one report file. Report is never nil:
// a file that cannot be read or decoded yields an empty report and Err says why.
type LoadResult struct {
	Path   string
	Report *Report
	Err    error
}

// OK reports whether the file was loaded successfully
func (r LoadResult) OK() bool {
	return r.Err == nil
}

// Load reads a Playwright JSON report, falling back to an empty report on failure
func Load(path string) LoadResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{Path: path, Report: &Report{}, Err: fmt.Errorf("failed to read report: %w", err)}
	}

	report, err := ParseBytes(data)
	if err != nil {
		return LoadResult{Path: path, Report: &Report{}, Err: err}
	}

	return LoadResult{Path: path, Report: report}
}

// LoadAll loads every report and concatenates their records in argument order
func LoadAll(paths []string) ([]LoadResult, []models.ResultRecord) {
	loaded := make([]LoadResult, 0, len(paths))
	var records []models.ResultRecord
	for _, path := range paths {
		res := Load(path)
		loaded = append(loaded, res)
		records = append(records, Extract(res.Report)...)
	}
	return loaded, records
}

// ParseBytes decodes Playwright JSON from raw bytes
func ParseBytes(data []byte) (*Report, error) {
	var raw Report
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &raw, nil
}

// Extract flattens the suite tree into one record per (spec, test, result),
// depth-first with a suite's specs ahead of its child suites.
func Extract(report *Report) []models.ResultRecord {
	if report == nil {
		return nil
	}

	var records []models.ResultRecord
	for _, suite := range report.Suites {
		records = walkSuite(suite, records)
	}
	return records
}

func walkSuite(suite Suite, records []models.ResultRecord) []models.ResultRecord {
	for _, spec := range suite.Specs {
		for _, test := range spec.Tests {
			for _, result := range test.Results {
				records = append(records, toRecord(spec, test, result))
			}
		}
	}

	for _, child := range suite.Suites {
		records = walkSuite(child, records)
	}

	return records
}

func toRecord(spec Spec, test Test, result Result) models.ResultRecord {
	status := models.TestStatus(result.Status)
	if status == "" {
		status = models.StatusUnknown
	}

	project := test.ProjectName
	if project == "" {
		project = models.UnknownProject
	}

	return models.ResultRecord{
		Title:      spec.Title,
		Status:     status,
		DurationMS: int64(result.Duration),
		Project:    project,
		StartTime:  result.StartTime,
		Error:      errorMessage(result),
	}
}

func errorMessage(result Result) string {
	if result.Error != nil && result.Error.Message != "" {
		return result.Error.Message
	}
	if len(result.Errors) > 0 {
		return result.Errors[0].Message
	}
	return ""
}
