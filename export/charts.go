package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/nouhlabs/price-scraper/analysis"
	"github.com/nouhlabs/price-scraper/models"
)

// ChartPaths lists the rendered chart files in report embedding order.
type ChartPaths struct {
	Distribution string
	ByRating     string
	TopExpensive string
}

// RenderCharts writes the three chart PNGs under dir and returns their
// paths. A write failure propagates to the caller.
func RenderCharts(dir string, records []models.Product, stats *analysis.Stats, histogramBuckets int) (ChartPaths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ChartPaths{}, fmt.Errorf("create chart directory %q: %w", dir, err)
	}

	paths := ChartPaths{
		Distribution: filepath.Join(dir, DistributionChart),
		ByRating:     filepath.Join(dir, ByRatingChart),
		TopExpensive: filepath.Join(dir, TopExpensiveChart),
	}

	charts := []struct {
		path  string
		title string
		data  []BarDatum
	}{
		{paths.Distribution, "Price Distribution", HistogramData(records, histogramBuckets)},
		{paths.ByRating, "Average Price by Rating", RatingBarData(stats)},
		{paths.TopExpensive, "Top 10 Most Expensive Products", TopPricedData(records, 10)},
	}

	for _, c := range charts {
		if err := renderBarChart(c.path, c.title, c.data); err != nil {
			return ChartPaths{}, err
		}
	}
	return paths, nil
}

func renderBarChart(path, title string, data []BarDatum) error {
	bars := make([]chart.Value, 0, len(data))
	for _, d := range data {
		bars = append(bars, chart.Value{Label: d.Label, Value: d.Value})
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    1024,
		Height:   512,
		BarWidth: 30,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Bars: bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file %q: %w", path, err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart %q: %w", path, err)
	}
	return nil
}
