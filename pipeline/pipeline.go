// Package pipeline drives one scrape-aggregate-export run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/nouhlabs/price-scraper/analysis"
	"github.com/nouhlabs/price-scraper/catalog"
	"github.com/nouhlabs/price-scraper/config"
	"github.com/nouhlabs/price-scraper/export"
	"github.com/nouhlabs/price-scraper/models"
	"github.com/nouhlabs/price-scraper/scraper"
)

// ErrNoData signals that every page failed or yielded zero products, so no
// artifacts were produced.
var ErrNoData = errors.New("pipeline: no data scraped")

// Artifacts lists the files produced by a successful run.
type Artifacts struct {
	DataFile  string
	JSONLFile string
	Charts    export.ChartPaths
	Report    string
}

// Outcome is the final state of one run: the per-page scrape result, the
// computed statistics, and the artifact paths. Stats and Artifacts are zero
// when the run ended with ErrNoData.
type Outcome struct {
	Result    *models.RunResult
	Stats     *analysis.Stats
	Artifacts Artifacts
}

// Pipeline wires the scraper, catalog, aggregator, and exporters together.
// It is one-shot: Run is expected to be called once per instance.
type Pipeline struct {
	cfg *config.Config
	s   *scraper.Scraper
}

// New builds a pipeline around an already-configured scraper.
func New(cfg *config.Config, s *scraper.Scraper) *Pipeline {
	return &Pipeline{cfg: cfg, s: s}
}

// Run scrapes all configured pages, aggregates the catalog, and writes the
// tabular export, charts, and report. An empty catalog returns ErrNoData
// together with the scrape result; artifact write failures propagate.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	cat := catalog.New()
	result, err := p.s.Run(ctx, cat)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Result: result}
	if cat.IsEmpty() {
		return outcome, ErrNoData
	}

	records := cat.All()
	stats, err := analysis.Compute(records)
	if err != nil {
		return outcome, err
	}
	outcome.Stats = stats

	slog.Info("catalog aggregated",
		slog.Int("records", cat.Len()),
		slog.Float64("price_mean", stats.PriceMean),
		slog.Float64("price_median", stats.PriceMedian),
		slog.Float64("price_min", stats.PriceMin),
		slog.Float64("price_max", stats.PriceMax),
		slog.Float64("rating_mean", stats.RatingMean),
	)

	artifacts, err := p.runExporters(records, stats)
	if err != nil {
		return outcome, err
	}
	outcome.Artifacts = artifacts
	return outcome, nil
}

func (p *Pipeline) runExporters(records []models.Product, stats *analysis.Stats) (Artifacts, error) {
	var artifacts Artifacts

	dataFile, jsonlFile := p.dataFileNames(time.Now())
	writer, err := newWriter(p.cfg.OutputFormat, dataFile, jsonlFile)
	if err != nil {
		return artifacts, err
	}
	if err := writer.Write(records); err != nil {
		writer.Close()
		return artifacts, fmt.Errorf("tabular export: %w", err)
	}
	if err := writer.Validate(); err != nil {
		writer.Close()
		return artifacts, fmt.Errorf("tabular export: %w", err)
	}
	if err := writer.Close(); err != nil {
		return artifacts, fmt.Errorf("tabular export: %w", err)
	}
	artifacts.DataFile = dataFile
	if p.cfg.OutputFormat == "dual" {
		artifacts.JSONLFile = jsonlFile
	} else if p.cfg.OutputFormat == "json" {
		artifacts.DataFile = jsonlFile
		artifacts.JSONLFile = jsonlFile
	}
	slog.Info("tabular export written", slog.String("path", artifacts.DataFile))

	charts, err := export.RenderCharts(p.cfg.ChartDir, records, stats, p.cfg.HistogramBuckets)
	if err != nil {
		return artifacts, fmt.Errorf("chart export: %w", err)
	}
	artifacts.Charts = charts
	slog.Info("charts written", slog.String("dir", p.cfg.ChartDir))

	reportData := export.ReportData{
		GeneratedAt: time.Now(),
		Total:       len(records),
		Stats:       stats,
		Charts:      relativeCharts(p.cfg.ReportFile, charts),
	}
	if err := export.WriteReport(p.cfg.ReportFile, reportData); err != nil {
		return artifacts, fmt.Errorf("report export: %w", err)
	}
	artifacts.Report = p.cfg.ReportFile
	slog.Info("report written", slog.String("path", p.cfg.ReportFile))

	return artifacts, nil
}

// dataFileNames resolves the tabular output paths, generating the
// timestamped default when no explicit file was configured.
func (p *Pipeline) dataFileNames(now time.Time) (csvFile, jsonlFile string) {
	csvFile = p.cfg.OutputFile
	if csvFile == "" {
		csvFile = export.DefaultCSVName(now)
	}
	jsonlFile = strings.TrimSuffix(csvFile, ".csv") + ".jsonl"
	return csvFile, jsonlFile
}

func newWriter(format, csvFile, jsonlFile string) (export.Writer, error) {
	switch format {
	case "csv":
		return export.NewCSVWriter(csvFile)
	case "json":
		return export.NewJSONLWriter(jsonlFile)
	case "dual":
		return export.NewDualWriter(csvFile, jsonlFile)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// relativeCharts rewrites chart paths relative to the report's directory so
// the img references resolve when the report is opened in place.
func relativeCharts(reportFile string, charts export.ChartPaths) export.ChartPaths {
	base := filepath.Dir(reportFile)
	return export.ChartPaths{
		Distribution: relativeTo(base, charts.Distribution),
		ByRating:     relativeTo(base, charts.ByRating),
		TopExpensive: relativeTo(base, charts.TopExpensive),
	}
}

func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
