package report

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kamilpajak/qadoc/internal/artifacts"
	"github.com/kamilpajak/qadoc/internal/catalog"
	"github.com/kamilpajak/qadoc/internal/results"
	"github.com/rs/zerolog"
)

// ScreenshotSource finds the screenshots taken for a test case
type ScreenshotSource interface {
	Dir() string
	Screenshots(title string) []artifacts.Screenshot
}

// Annotator captions a screenshot and returns it PNG encoded
type Annotator interface {
	Annotate(path, title, browser string) ([]byte, error)
}

// Builder assembles documents
type Builder struct {
	Catalog     *catalog.Catalog
	Screenshots ScreenshotSource
	Annotator   Annotator
	Logger      zerolog.Logger
	Now         func() time.Time
}

// Build lays out one section per catalog case, in ID order. Results whose
// title matches no case are logged and left out.
func (b *Builder) Build(runID string, groups *results.Groups) *Document {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	doc := &Document{
		ID:          uuid.NewString(),
		Title:       DefaultTitle,
		RunID:       runID,
		GeneratedAt: now(),
	}

	for _, title := range groups.Unmatched(b.Catalog.Titles()) {
		b.Logger.Warn().Str("title", title).Int("results", len(groups.Get(title))).Msg("results match no catalog entry")
	}

	artifactDir := ""
	if b.Screenshots != nil {
		artifactDir = b.Screenshots.Dir()
		if _, err := os.Stat(artifactDir); err != nil {
			b.Logger.Debug().Str("dir", artifactDir).Err(err).Msg("no artifact directory for run")
			artifactDir = ""
		}
	}

	cases := b.Catalog.Cases()
	doc.Summary = results.Summarize(cases, groups)
	byCase := make(map[int][]BrowserResult)
	for _, row := range doc.Summary {
		byCase[row.ID] = append(byCase[row.ID], BrowserResult{
			Browser:    row.Browser,
			Status:     row.Status,
			DurationMS: row.DurationMS,
		})
	}

	for _, tc := range cases {
		section := Section{Case: tc, Results: byCase[tc.ID]}

		if artifactDir != "" {
			section.Snapshots = b.snapshots(tc)
			if tc.StartupLog {
				if log, ok := artifacts.ReadStartStopLog(artifactDir); ok {
					section.StartStop = log
				} else {
					b.Logger.Debug().Int("case", tc.ID).Msg("no start/stop log")
				}
			}
		}

		doc.Sections = append(doc.Sections, section)
	}

	return doc
}

func (b *Builder) snapshots(tc catalog.TestCase) []Snapshot {
	var out []Snapshot
	for _, shot := range b.Screenshots.Screenshots(tc.Title) {
		s := Snapshot{Name: shot.Name, Browser: shot.Browser}
		if b.Annotator != nil {
			data, err := b.Annotator.Annotate(shot.Path, tc.Title, shot.Browser)
			if err != nil {
				b.Logger.Warn().Err(err).Str("file", shot.Name).Msg("skipping screenshot")
				continue
			}
			s.PNG = data
		}
		out = append(out, s)
	}
	return out
}
