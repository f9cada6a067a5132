package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kamilpajak/qadoc/internal/artifacts"
	"github.com/kamilpajak/qadoc/internal/catalog"
	"github.com/kamilpajak/qadoc/internal/results"
	"github.com/kamilpajak/qadoc/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnnotator struct {
	calls []string
}

func (f *fakeAnnotator) Annotate(path, title, browser string) ([]byte, error) {
	f.calls = append(f.calls, filepath.Base(path)+"|"+title+"|"+browser)
	if strings.Contains(path, "broken") {
		return nil, errors.New("failed to decode screenshot")
	}
	return []byte("png:" + browser), nil
}

var fixedNow = time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC)

func newBuilder(t *testing.T, dir string) (*Builder, *fakeAnnotator) {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	ann := &fakeAnnotator{}
	return &Builder{
		Catalog:     cat,
		Screenshots: artifacts.NewCorrelator(dir, cat.Titles()),
		Annotator:   ann,
		Logger:      zerolog.Nop(),
		Now:         func() time.Time { return fixedNow },
	}, ann
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"login-successfully-with-admin-admin123-firefox-1.png",
		"login-successfully-with-admin-admin123-chromium-1.png",
		"login-successfully-with-admin-admin123-webkit-broken.png",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, artifacts.StartStopLogName),
		[]byte(`{"startedAt":"s","stoppedAt":"e","logs":["listening"]}`), 0644))

	b, ann := newBuilder(t, dir)
	groups := results.Group([]models.ResultRecord{
		{Title: "2) Login successfully with admin/admin123", Project: "chromium", Status: models.StatusPassed, DurationMS: 120},
		{Title: "2) Login successfully with admin/admin123", Project: "firefox", Status: models.StatusUnexpected, DurationMS: 340, Error: "line one\nline two"},
		{Title: "Something else entirely", Project: "chromium", Status: models.StatusPassed},
	})

	doc := b.Build("2025-01-10T09-00-00-000Z", groups)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, DefaultTitle, doc.Title)
	assert.Equal(t, "2025-01-10T09-00-00-000Z", doc.RunID)
	assert.Equal(t, fixedNow, doc.GeneratedAt)
	require.Len(t, doc.Sections, 6)

	startup := doc.Sections[0]
	assert.True(t, startup.Unknown())
	require.NotNil(t, startup.StartStop)
	assert.Equal(t, []string{"listening"}, startup.StartStop.Logs)

	login := doc.Sections[1]
	assert.Equal(t, "2. Login successfully with admin/admin123", login.Heading())
	assert.Equal(t, []BrowserResult{
		{Browser: "chromium", Status: models.StatusPassed, DurationMS: 120},
		{Browser: "firefox", Status: models.StatusFailed, DurationMS: 340},
	}, login.Results)

	// broken screenshot is skipped, the rest stay sorted by name
	require.Len(t, login.Snapshots, 2)
	assert.Equal(t, "chromium", login.Snapshots[0].Browser)
	assert.Equal(t, []byte("png:chromium"), login.Snapshots[0].PNG)
	assert.Equal(t, "firefox", login.Snapshots[1].Browser)
	assert.Len(t, ann.calls, 3)
	assert.Equal(t, "login-successfully-with-admin-admin123-chromium-1.png|Login successfully with admin/admin123|chromium", ann.calls[0])

	for _, s := range doc.Sections[2:] {
		assert.True(t, s.Unknown(), s.Heading())
		assert.Empty(t, s.Snapshots)
		assert.Nil(t, s.StartStop)
	}

	require.Len(t, doc.Summary, 2)
	assert.Equal(t, results.Summarize(b.Catalog.Cases(), groups), doc.Summary)
	assert.Equal(t, "line one", doc.Summary[1].Error)

	assert.Equal(t, map[models.TestStatus]int{models.StatusPassed: 1, models.StatusFailed: 1}, doc.Counts())
	assert.True(t, doc.HasFailures())
}

func TestBuild_NoResultsNoArtifacts(t *testing.T) {
	b, ann := newBuilder(t, filepath.Join(t.TempDir(), "missing"))

	doc := b.Build("local", results.Group(nil))

	require.Len(t, doc.Sections, 6)
	for _, s := range doc.Sections {
		assert.True(t, s.Unknown())
		assert.Empty(t, s.Snapshots)
		assert.Nil(t, s.StartStop)
	}
	assert.Empty(t, doc.Summary)
	assert.Empty(t, ann.calls)
	assert.False(t, doc.HasFailures())
}

func TestBuild_UniqueIDs(t *testing.T) {
	b, _ := newBuilder(t, t.TempDir())
	a := b.Build("r", results.Group(nil))
	c := b.Build("r", results.Group(nil))
	assert.NotEqual(t, a.ID, c.ID)
}

func TestBuild_SectionsFollowSummary(t *testing.T) {
	b, _ := newBuilder(t, t.TempDir())
	groups := results.Group([]models.ResultRecord{
		{Title: "5) Edit user works (add, edit, save, verify)", Project: "webkit", Status: models.StatusInterrupted, DurationMS: 5},
		{Title: "1) Start and stop the application and verify", Project: "chromium", Status: models.StatusPassed, DurationMS: 10},
		{Title: "5) Edit user works (add, edit, save, verify)", Project: "chromium", Status: models.StatusSkipped},
	})

	doc := b.Build("r", groups)

	var fromSections []BrowserResult
	for _, s := range doc.Sections {
		fromSections = append(fromSections, s.Results...)
	}
	var fromSummary []BrowserResult
	for _, row := range doc.Summary {
		fromSummary = append(fromSummary, BrowserResult{Browser: row.Browser, Status: row.Status, DurationMS: row.DurationMS})
	}
	assert.Equal(t, fromSummary, fromSections)
	assert.True(t, doc.HasFailures())
}
