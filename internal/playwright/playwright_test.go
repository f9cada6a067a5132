package playwright

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportPDF(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if !IsAvailable() {
		t.Skip(InstallHint)
	}

	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "TestReport.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html><body><h1>Report</h1></body></html>"), 0644))

	pdfPath := filepath.Join(dir, "out", "TestReport.pdf")
	require.NoError(t, ExportPDF(htmlPath, pdfPath))

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
