package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nouhlabs/price-scraper/analysis"
)

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")

	data := ReportData{
		GeneratedAt: time.Date(2026, 8, 29, 13, 9, 13, 0, time.UTC),
		Total:       60,
		Stats: &analysis.Stats{
			PriceMean:  35.07,
			PriceMin:   10.00,
			PriceMax:   59.99,
			RatingMean: 2.9,
		},
		Charts: ChartPaths{
			Distribution: "charts/price_distribution.png",
			ByRating:     "charts/price_by_rating.png",
			TopExpensive: "charts/top_expensive.png",
		},
	}

	if err := WriteReport(path, data); err != nil {
		t.Fatalf("write report: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(raw)

	for _, want := range []string{
		"Total Products Analyzed: 60",
		"$35.07",
		"$10.00",
		"$59.99",
		"2.9",
		`src="charts/price_distribution.png"`,
		`src="charts/price_by_rating.png"`,
		`src="charts/top_expensive.png"`,
		"Generated on 2026-08-29 at 13:09:13",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWriteReportBadPath(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should go forces a create failure.
	blocked := filepath.Join(dir, "report.html")
	if err := os.Mkdir(blocked, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := WriteReport(blocked, ReportData{Stats: &analysis.Stats{}}); err == nil {
		t.Fatal("expected error writing report over a directory")
	}
}
