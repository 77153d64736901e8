package export

import (
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/nouhlabs/price-scraper/analysis"
)

// ReportData is everything the HTML summary embeds.
type ReportData struct {
	GeneratedAt time.Time
	Total       int
	Stats       *analysis.Stats
	Charts      ChartPaths
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Price Scraping Report</title>
    <style>
        body {
            font-family: 'Segoe UI', Arial, sans-serif;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 30px;
            border-radius: 10px;
            margin-bottom: 30px;
        }
        h1 { margin: 0; }
        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }
        .stat-card {
            background: white;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .stat-value {
            font-size: 2em;
            font-weight: bold;
            color: #667eea;
        }
        .chart {
            background: white;
            padding: 20px;
            border-radius: 8px;
            margin-bottom: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .chart img { width: 100%; height: auto; }
        .footer { text-align: center; margin-top: 40px; color: #666; }
    </style>
</head>
<body>
    <div class="header">
        <h1>&#128202; Price Scraping Report</h1>
        <p>Generated on {{.GeneratedAt.Format "2006-01-02 at 15:04:05"}}</p>
        <p>Total Products Analyzed: {{.Total}}</p>
    </div>

    <div class="stats">
        <div class="stat-card">
            <div>Average Price</div>
            <div class="stat-value">${{printf "%.2f" .Stats.PriceMean}}</div>
        </div>
        <div class="stat-card">
            <div>Lowest Price</div>
            <div class="stat-value">${{printf "%.2f" .Stats.PriceMin}}</div>
        </div>
        <div class="stat-card">
            <div>Highest Price</div>
            <div class="stat-value">${{printf "%.2f" .Stats.PriceMax}}</div>
        </div>
        <div class="stat-card">
            <div>Average Rating</div>
            <div class="stat-value">{{printf "%.1f" .Stats.RatingMean}} &#9733;</div>
        </div>
    </div>

    <div class="chart">
        <h2>Price Distribution</h2>
        <img src="{{.Charts.Distribution}}" alt="Price Distribution">
    </div>

    <div class="chart">
        <h2>Average Price by Rating</h2>
        <img src="{{.Charts.ByRating}}" alt="Price by Rating">
    </div>

    <div class="chart">
        <h2>Top 10 Most Expensive Products</h2>
        <img src="{{.Charts.TopExpensive}}" alt="Top Expensive">
    </div>

    <div class="footer">
        <p>Report generated by the price scraper</p>
    </div>
</body>
</html>
`))

// WriteReport renders the HTML summary to path. Chart paths in data should
// be relative to the report location so the img tags resolve.
func WriteReport(path string, data ReportData) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}
