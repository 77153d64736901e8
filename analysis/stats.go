// Package analysis computes summary statistics over a completed catalog.
package analysis

import (
	"errors"
	"sort"

	"github.com/nouhlabs/price-scraper/models"
)

// ErrEmptyCatalog is returned when aggregation is attempted with no records.
var ErrEmptyCatalog = errors.New("analysis: empty catalog")

// RatingGroup is the mean price of all records sharing one rating value.
type RatingGroup struct {
	Rating    int
	MeanPrice float64
}

// Stats holds the scalar and grouped statistics derived from a catalog.
type Stats struct {
	PriceMean   float64
	PriceMedian float64
	PriceMin    float64
	PriceMax    float64
	RatingMean  float64

	// PriceByRating covers exactly the distinct rating values present,
	// ascending by rating. The 0 sentinel for unrecognized ratings is
	// included, not filtered.
	PriceByRating []RatingGroup
}

// Compute derives Stats from the given records. It is a pure function of
// its input; calling it twice on the same records yields identical results.
func Compute(records []models.Product) (*Stats, error) {
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}

	prices := make([]float64, len(records))
	var priceSum, ratingSum float64
	for i, r := range records {
		prices[i] = r.Price
		priceSum += r.Price
		ratingSum += float64(r.Rating)
	}
	sort.Float64s(prices)

	return &Stats{
		PriceMean:     priceSum / float64(len(records)),
		PriceMedian:   median(prices),
		PriceMin:      prices[0],
		PriceMax:      prices[len(prices)-1],
		RatingMean:    ratingSum / float64(len(records)),
		PriceByRating: groupByRating(records),
	}, nil
}

// median expects sorted input and interpolates between the two middle
// values for even-length sequences.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func groupByRating(records []models.Product) []RatingGroup {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range records {
		sums[r.Rating] += r.Price
		counts[r.Rating]++
	}

	ratings := make([]int, 0, len(sums))
	for rating := range sums {
		ratings = append(ratings, rating)
	}
	sort.Ints(ratings)

	groups := make([]RatingGroup, 0, len(ratings))
	for _, rating := range ratings {
		groups = append(groups, RatingGroup{
			Rating:    rating,
			MeanPrice: sums[rating] / float64(counts[rating]),
		})
	}
	return groups
}

// TopByPrice returns up to n records sorted by descending price, ties
// broken by catalog order. The input slice is not modified.
func TopByPrice(records []models.Product, n int) []models.Product {
	sorted := make([]models.Product, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price > sorted[j].Price
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
