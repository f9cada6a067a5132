package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kamilpajak/qadoc/internal/annotate"
	"github.com/kamilpajak/qadoc/internal/artifacts"
	"github.com/kamilpajak/qadoc/internal/catalog"
	"github.com/kamilpajak/qadoc/internal/history"
	"github.com/kamilpajak/qadoc/internal/parser"
	"github.com/kamilpajak/qadoc/internal/playwright"
	"github.com/kamilpajak/qadoc/internal/render"
	"github.com/kamilpajak/qadoc/internal/report"
	"github.com/kamilpajak/qadoc/internal/results"
	"github.com/kamilpajak/qadoc/internal/server"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	reportPaths   []string
	runID         string
	outPath       string
	artifactsRoot string
	catalogPath   string
	showSummary   bool
	databaseURL   string
	verbose       bool
	port          int
	historyLimit  int
	historyRun    string
)

var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "qadoc --json <report.json> --run-id <id> --out <report.html>",
	Short: "Turn Playwright JSON results into a test execution report",
	Long: `Builds a test execution document from one or more Playwright JSON reports:
one section per catalog test case, annotated screenshots, and a summary table
across browsers. Unreadable reports are skipped, never fatal.

Examples:
  qadoc --json chromium.json --json firefox.json --run-id 2025-01-10T09-00-00-000Z --out docs/TestReport.html
  qadoc --json results.json --run-id local --out TestReport.pdf --summary`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupLogging,
	RunE:              generate,
	SilenceUsage:      true,
}

var serveCmd = &cobra.Command{
	Use:   "serve <report.html|dir>",
	Short: "Serve a generated report locally",
	Args:  cobra.ExactArgs(1),
	RunE:  serve,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived report runs, or the results of one run",
	RunE:  listHistory,
}

var installCmd = &cobra.Command{
	Use:   "install-browser",
	Short: "Install the headless browser used for PDF export",
	RunE: func(cmd *cobra.Command, args []string) error {
		return playwright.Install()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("qadoc %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL for the run archive (default $DATABASE_URL)")

	rootCmd.Flags().StringArrayVar(&reportPaths, "json", nil, "Playwright JSON report (repeatable)")
	rootCmd.Flags().StringVar(&runID, "run-id", "", "Run identifier; screenshots are read from <artifacts-root>/<run-id>")
	rootCmd.Flags().StringVar(&outPath, "out", "", "Output document (.html or .pdf)")
	rootCmd.Flags().StringVar(&artifactsRoot, "artifacts-root", filepath.Join("test-results", "screenshots"), "Directory holding per-run screenshot folders")
	rootCmd.Flags().StringVar(&catalogPath, "catalog", "", "Test case catalog YAML (default: built-in)")
	rootCmd.Flags().BoolVar(&showSummary, "summary", false, "Print the summary table to stderr")
	_ = rootCmd.MarkFlagRequired("json")
	_ = rootCmd.MarkFlagRequired("run-id")
	_ = rootCmd.MarkFlagRequired("out")

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Show the stored results of one archived run (archive ID)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logger = newLogger(os.Stderr, verbose)
	return nil
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    color.NoColor,
	}).Level(level).With().Timestamp().Logger()
}

type generateOptions struct {
	Reports       []string
	RunID         string
	Out           string
	ArtifactsRoot string
	CatalogPath   string
	Summary       bool
	DatabaseURL   string
}

func generate(cmd *cobra.Command, args []string) error {
	_, err := runGenerate(cmd.Context(), generateOptions{
		Reports:       reportPaths,
		RunID:         runID,
		Out:           outPath,
		ArtifactsRoot: artifactsRoot,
		CatalogPath:   catalogPath,
		Summary:       showSummary,
		DatabaseURL:   resolveDatabaseURL(),
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	return err
}

// runGenerate builds and writes the document. Only catalog and output
// errors are returned; unreadable reports and artifacts are logged and skipped.
func runGenerate(ctx context.Context, opts generateOptions, stdout, stderr io.Writer) (*report.Document, error) {
	cat, err := loadCatalog(opts.CatalogPath)
	if err != nil {
		return nil, err
	}

	loaded, records := parser.LoadAll(opts.Reports)
	ok := 0
	for _, l := range loaded {
		if !l.OK() {
			logger.Warn().Err(l.Err).Str("path", l.Path).Msg("report skipped")
			continue
		}
		ok++
	}
	fmt.Fprintf(stderr, "Loaded %d results from %d/%d reports\n", len(records), ok, len(loaded))

	shotsDir := filepath.Join(opts.ArtifactsRoot, opts.RunID)
	builder := &report.Builder{
		Catalog:     cat,
		Screenshots: artifacts.NewCorrelator(shotsDir, cat.Titles()),
		Annotator:   annotate.DefaultBanner(),
		Logger:      logger,
	}
	doc := builder.Build(opts.RunID, results.Group(records))

	if err := writeDocument(opts.Out, doc, stderr); err != nil {
		return nil, err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", opts.Out)
	fmt.Fprintln(stderr, resultLine(doc))

	if opts.Summary {
		render.SummaryTable(stderr, doc.Summary)
	}

	if opts.DatabaseURL != "" {
		archive(ctx, opts.DatabaseURL, opts.Out, doc)
	}

	return doc, nil
}

// resultLine summarizes the document's outcomes, in red when anything failed
func resultLine(doc *report.Document) string {
	line := fmt.Sprintf("%d results", len(doc.Summary))
	if counts := render.StatusLine(doc.Counts()); counts != "" {
		line += ": " + counts
	}
	if doc.HasFailures() {
		return color.RedString(line)
	}
	return line
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

func writeDocument(path string, doc *report.Document, stderr io.Writer) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return render.WriteFile(path, doc)
	}

	tmp, err := os.MkdirTemp("", "qadoc-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	htmlPath := filepath.Join(tmp, "report.html")
	if err := render.WriteFile(htmlPath, doc); err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(stderr))
	s.Suffix = " Rendering PDF..."
	if f, ok := stderr.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		s.Start()
		defer s.Stop()
	}

	return playwright.ExportPDF(htmlPath, path)
}

// archive stores the run summary. Failures are logged and never fail the run.
func archive(ctx context.Context, dbURL, out string, doc *report.Document) {
	if err := history.Migrate(dbURL); err != nil {
		logger.Warn().Err(err).Msg("run not archived")
		return
	}

	store, err := history.Open(ctx, dbURL)
	if err != nil {
		logger.Warn().Err(err).Msg("run not archived")
		return
	}
	defer store.Close()

	id, err := store.Record(ctx, history.Run{
		RunID:       doc.RunID,
		DocumentID:  doc.ID,
		OutputPath:  out,
		GeneratedAt: doc.GeneratedAt,
	}, doc.Summary)
	if err != nil {
		logger.Warn().Err(err).Msg("run not archived")
		return
	}
	logger.Info().Str("id", id.String()).Int("results", len(doc.Summary)).Msg("run archived")
}

func resolveDatabaseURL() string {
	if databaseURL != "" {
		return databaseURL
	}
	return os.Getenv("DATABASE_URL")
}

func listHistory(cmd *cobra.Command, args []string) error {
	dbURL := resolveDatabaseURL()
	if dbURL == "" {
		return fmt.Errorf("no database configured: set --database-url or DATABASE_URL")
	}

	ctx := cmd.Context()
	store, err := history.Open(ctx, dbURL)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyRun != "" {
		id, err := uuid.Parse(historyRun)
		if err != nil {
			return fmt.Errorf("invalid archive ID %q: %w", historyRun, err)
		}
		rows, err := store.Results(ctx, id)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No results archived for this run.")
			return nil
		}
		render.SummaryTable(cmd.OutOrStdout(), rows)
		return nil
	}

	runs, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}

	printHistory(cmd.OutOrStdout(), runs)
	return nil
}

func printHistory(w io.Writer, runs []history.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No archived runs.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Archive ID", "Run ID", "Generated", "Results", "Passed", "Failed", "Output"})
	for _, r := range runs {
		failed := fmt.Sprint(r.Failed)
		if r.Failed > 0 {
			failed = color.RedString(failed)
		}
		t.AppendRow(table.Row{r.ID.String(), r.RunID, r.GeneratedAt.Local().Format("2006-01-02 15:04:05"), r.Total, r.Passed, failed, r.OutputPath})
	}
	t.Render()
}

func serve(cmd *cobra.Command, args []string) error {
	dir, file := args[0], ""
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir, file = filepath.Dir(args[0]), filepath.Base(args[0])
	}

	srv, err := server.Start(dir, port)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Serving report: %s\n", srv.URL(file))
	<-ctx.Done()

	fmt.Fprintln(os.Stderr, "\nShutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
