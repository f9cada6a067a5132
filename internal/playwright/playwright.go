package playwright

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamilpajak/qadoc/internal/server"
	"github.com/playwright-community/playwright-go"
)

// InstallHint tells the user how to get a browser for PDF export
const InstallHint = "playwright not installed. Run: go run github.com/playwright-community/playwright-go/cmd/playwright install chromium"

// PrintPDF opens a URL in headless Chromium and prints it to an A4 PDF
func PrintPDF(url, pdfPath string) error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}

	if _, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("could not navigate: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(pdfPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if _, err := page.PDF(playwright.PagePdfOptions{
		Path:            playwright.String(pdfPath),
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("could not print pdf: %w", err)
	}

	return nil
}

// ExportPDF serves the HTML report locally and prints it to pdfPath
func ExportPDF(htmlPath, pdfPath string) error {
	if !IsAvailable() {
		return errors.New(InstallHint)
	}

	srv, err := server.Start(filepath.Dir(htmlPath), 0)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer srv.Stop(context.Background())

	if err := PrintPDF(srv.URL(filepath.Base(htmlPath)), pdfPath); err != nil {
		return fmt.Errorf("failed to export pdf: %w", err)
	}

	return nil
}

// Install installs playwright browsers
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// IsAvailable checks if playwright browsers are installed
func IsAvailable() bool {
	pw, err := playwright.Run()
	if err != nil {
		return false
	}
	pw.Stop()
	return true
}
