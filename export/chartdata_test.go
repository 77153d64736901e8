package export

import (
	"testing"

	"github.com/nouhlabs/price-scraper/analysis"
	"github.com/nouhlabs/price-scraper/models"
)

func pricedRecords(prices ...float64) []models.Product {
	records := make([]models.Product, len(prices))
	for i, p := range prices {
		records[i] = models.Product{Title: "P", Price: p}
	}
	return records
}

func TestHistogramData(t *testing.T) {
	data := HistogramData(pricedRecords(0, 1, 2, 3, 4, 5, 6, 7, 8, 10), 5)
	if len(data) != 5 {
		t.Fatalf("buckets = %d, want 5", len(data))
	}

	var total float64
	for _, d := range data {
		total += d.Value
	}
	if total != 10 {
		t.Errorf("bucket counts sum to %v, want 10 (every record bucketed)", total)
	}

	// Max value lands in the last bucket, not out of range.
	if data[4].Value == 0 {
		t.Error("last bucket should contain the maximum price")
	}
}

func TestHistogramDataUniformPrices(t *testing.T) {
	data := HistogramData(pricedRecords(9.99, 9.99, 9.99), 20)
	if len(data) != 1 {
		t.Fatalf("uniform prices should collapse to one bucket, got %d", len(data))
	}
	if data[0].Value != 3 {
		t.Errorf("bucket count = %v, want 3", data[0].Value)
	}
}

func TestHistogramDataEmpty(t *testing.T) {
	if data := HistogramData(nil, 20); data != nil {
		t.Fatalf("HistogramData(nil) = %v, want nil", data)
	}
}

func TestRatingBarData(t *testing.T) {
	stats := &analysis.Stats{
		PriceByRating: []analysis.RatingGroup{
			{Rating: 0, MeanPrice: 5},
			{Rating: 3, MeanPrice: 17.5},
		},
	}

	data := RatingBarData(stats)
	if len(data) != 2 {
		t.Fatalf("bars = %d, want 2", len(data))
	}
	if data[0].Label != "0 stars" || data[0].Value != 5 {
		t.Errorf("data[0] = %+v", data[0])
	}
	if data[1].Label != "3 stars" || data[1].Value != 17.5 {
		t.Errorf("data[1] = %+v", data[1])
	}
}

func TestTopPricedDataTruncatesTitles(t *testing.T) {
	long := "An Exceptionally Long Product Title That Goes On And On"
	records := []models.Product{
		{Title: long, Price: 99},
		{Title: "Short", Price: 1},
	}

	data := TopPricedData(records, 10)
	if len(data) != 2 {
		t.Fatalf("bars = %d, want 2 (fewer than 10 records returns all)", len(data))
	}
	if data[0].Value != 99 {
		t.Errorf("first bar should be the most expensive, got %v", data[0].Value)
	}
	want := long[:40] + "..."
	if data[0].Label != want {
		t.Errorf("label = %q, want %q", data[0].Label, want)
	}
	if data[1].Label != "Short" {
		t.Errorf("short title should be untouched, got %q", data[1].Label)
	}
}
