package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nouhlabs/price-scraper/config"
	"github.com/nouhlabs/price-scraper/pipeline"
	"github.com/nouhlabs/price-scraper/scraper"
)

func main() {
	defaultCfg := config.DefaultConfig()
	pagesDefault := defaultCfg.MaxPages
	if value, ok, err := config.EnvInt("SCRAPER_PAGES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid SCRAPER_PAGES: %v\n", err)
		os.Exit(1)
	} else if ok {
		pagesDefault = value
	}
	baseURLDefault := defaultCfg.BaseURL
	if value, ok := config.EnvString("SCRAPER_BASE_URL"); ok {
		baseURLDefault = value
	}
	outputDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("SCRAPER_OUTPUT"); ok {
		outputDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("SCRAPER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("base-url", baseURLDefault, "Base URL of the catalog site")
	maxPages := flag.Int("pages", pagesDefault, "Number of catalog pages to scrape")
	timeoutSec := flag.Int("timeout", 10, "Per-request timeout (seconds)")
	outputFile := flag.String("output", outputDefault, "Tabular output path (empty for timestamped default)")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Output format: csv, json, or dual")
	chartDir := flag.String("chart-dir", defaultCfg.ChartDir, "Directory for chart images")
	reportFile := flag.String("report", defaultCfg.ReportFile, "HTML report path")
	histogramBuckets := flag.Int("buckets", defaultCfg.HistogramBuckets, "Price histogram bucket count")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.BaseURL = *baseURL
	cfg.MaxPages = *maxPages
	cfg.Timeout = time.Duration(*timeoutSec) * time.Second
	cfg.OutputFile = *outputFile
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.ChartDir = *chartDir
	cfg.ReportFile = *reportFile
	cfg.HistogramBuckets = *histogramBuckets
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting scrape",
		slog.String("base_url", cfg.BaseURL),
		slog.Int("pages", cfg.MaxPages),
	)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && s.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	outcome, err := pipeline.New(cfg, s).Run(ctx)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if shutdownErr := metricsServer.Shutdown(shutdownCtx); shutdownErr != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", shutdownErr))
		}
		cancel()
	}

	if errors.Is(err, pipeline.ErrNoData) {
		printPageErrors(outcome)
		fmt.Println("\nNo data scraped.")
		os.Exit(1)
	}
	if err != nil {
		slog.Error("pipeline failed", slog.Any("error", err))
		os.Exit(1)
	}

	printSummary(outcome)
}

func printSummary(outcome *pipeline.Outcome) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Scrape complete")
	fmt.Printf("  Total products:  %d\n", outcome.Result.TotalCount)
	fmt.Printf("  Dropped records: %d\n", outcome.Result.DroppedCount)
	fmt.Printf("  Failed pages:    %d\n", outcome.Result.ErrorCount)
	if len(outcome.Result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:     %v\n", outcome.Result.ErrorsByType)
	}
	fmt.Printf("  Duration:        %v\n", outcome.Result.EndTime.Sub(outcome.Result.StartTime))
	fmt.Println(separator)
	fmt.Println("Files created:")
	fmt.Printf("  Data:   %s\n", outcome.Artifacts.DataFile)
	if outcome.Artifacts.JSONLFile != "" && outcome.Artifacts.JSONLFile != outcome.Artifacts.DataFile {
		fmt.Printf("  JSONL:  %s\n", outcome.Artifacts.JSONLFile)
	}
	fmt.Printf("  Charts: %s, %s, %s\n",
		outcome.Artifacts.Charts.Distribution,
		outcome.Artifacts.Charts.ByRating,
		outcome.Artifacts.Charts.TopExpensive,
	)
	fmt.Printf("  Report: %s\n", outcome.Artifacts.Report)
	fmt.Printf("\nOpen %q in your browser to view results.\n", outcome.Artifacts.Report)
}

func printPageErrors(outcome *pipeline.Outcome) {
	if outcome == nil || outcome.Result == nil {
		return
	}
	for _, page := range outcome.Result.Pages {
		if page.Err != nil {
			fmt.Printf("  page %d: %v\n", page.Page, page.Err)
		}
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
