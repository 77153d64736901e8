// Package models defines data structures for the scraper.
package models

import "time"

// Product represents one normalized catalog entry.
type Product struct {
	Title        string    `csv:"title" json:"title"`
	Price        float64   `csv:"price" json:"price"`
	Rating       int       `csv:"rating" json:"rating"`
	Availability string    `csv:"availability" json:"availability"`
	Page         int       `csv:"page" json:"page"`
	ScrapedAt    time.Time `csv:"scraped_at" json:"scraped_at"`
}

// PageOutcome records what happened for a single page index.
type PageOutcome struct {
	Page  int
	Found int
	Err   error
}

// RunResult holds the overall result of a scraping run.
type RunResult struct {
	Pages        []PageOutcome
	StartTime    time.Time
	EndTime      time.Time
	TotalCount   int
	ErrorCount   int
	DroppedCount int
	ErrorsByType map[string]int
}

// FailedPages returns the indices of pages that could not be fetched.
func (r *RunResult) FailedPages() []int {
	var failed []int
	for _, p := range r.Pages {
		if p.Err != nil {
			failed = append(failed, p.Page)
		}
	}
	return failed
}
