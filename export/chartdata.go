package export

import (
	"fmt"

	"github.com/nouhlabs/price-scraper/analysis"
	"github.com/nouhlabs/price-scraper/models"
	"github.com/nouhlabs/price-scraper/parser"
)

// Chart filenames are fixed; only the directory is configurable.
const (
	DistributionChart = "price_distribution.png"
	ByRatingChart     = "price_by_rating.png"
	TopExpensiveChart = "top_expensive.png"
)

// titleDisplayLimit caps product titles on the top-expensive chart.
const titleDisplayLimit = 40

// BarDatum is one labelled value in a chart dataset.
type BarDatum struct {
	Label string
	Value float64
}

// HistogramData buckets prices into equal-width buckets spanning min..max.
// Each bucket is labelled with its lower bound.
func HistogramData(records []models.Product, buckets int) []BarDatum {
	if len(records) == 0 || buckets <= 0 {
		return nil
	}

	min, max := records[0].Price, records[0].Price
	for _, r := range records[1:] {
		if r.Price < min {
			min = r.Price
		}
		if r.Price > max {
			max = r.Price
		}
	}

	width := (max - min) / float64(buckets)
	if width == 0 {
		// All prices identical: one bucket holds everything.
		return []BarDatum{{Label: fmt.Sprintf("%.2f", min), Value: float64(len(records))}}
	}

	counts := make([]int, buckets)
	for _, r := range records {
		idx := int((r.Price - min) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		counts[idx]++
	}

	data := make([]BarDatum, buckets)
	for i, count := range counts {
		data[i] = BarDatum{
			Label: fmt.Sprintf("%.2f", min+float64(i)*width),
			Value: float64(count),
		}
	}
	return data
}

// RatingBarData converts the grouped rating breakdown into categorical bars.
func RatingBarData(stats *analysis.Stats) []BarDatum {
	data := make([]BarDatum, 0, len(stats.PriceByRating))
	for _, group := range stats.PriceByRating {
		data = append(data, BarDatum{
			Label: fmt.Sprintf("%d stars", group.Rating),
			Value: group.MeanPrice,
		})
	}
	return data
}

// TopPricedData returns up to n records by descending price, ties broken by
// catalog order, with display-truncated titles.
func TopPricedData(records []models.Product, n int) []BarDatum {
	top := analysis.TopByPrice(records, n)
	data := make([]BarDatum, 0, len(top))
	for _, r := range top {
		data = append(data, BarDatum{
			Label: parser.TruncateTitle(r.Title, titleDisplayLimit),
			Value: r.Price,
		})
	}
	return data
}
