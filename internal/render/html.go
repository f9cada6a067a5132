// Package render writes built documents out as HTML and terminal tables.
package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kamilpajak/qadoc/internal/report"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const timeLayout = "2006-01-02 15:04:05"

var reportTemplate = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string { return t.Format(timeLayout) },
	"dataURI": func(png []byte) template.URL {
		return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	},
}).ParseFS(templateFS, "templates/report.html.tmpl"))

// HTML renders doc as a self-contained HTML page
func HTML(w io.Writer, doc *report.Document) error {
	if err := reportTemplate.Execute(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// WriteFile renders doc to path, creating parent directories as needed
func WriteFile(path string, doc *report.Document) error {
	var buf bytes.Buffer
	if err := HTML(&buf, doc); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
