// Package scraper fetches catalog pages and extracts product records.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/nouhlabs/price-scraper/config"
	"github.com/nouhlabs/price-scraper/models"
	"github.com/nouhlabs/price-scraper/parser"
)

const pageKey = "page"

var errMissingStructure = errors.New("missing required element")

// Sink receives extracted records in page-then-in-page order.
type Sink interface {
	Append(records ...models.Product)
}

// Scraper wraps a synchronous colly collector. Pages are fetched one at a
// time in ascending index order; a failed page is skipped, never retried.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	Metrics   *Metrics

	// Per-page scratch state. The collector is synchronous, so these are
	// only touched between a Request call and its return.
	pending    []models.Product
	lastStatus int
	lastErr    error
	dropped    int
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	s := &Scraper{
		cfg:       cfg,
		collector: collector,
		Metrics:   NewMetrics(),
	}
	s.configureHandlers()
	return s, nil
}

// WithTransport replaces the collector's HTTP transport. Tests use this to
// install mock responders.
func (s *Scraper) WithTransport(rt http.RoundTripper) {
	s.collector.WithTransport(rt)
}

// Run fetches pages 1..MaxPages in order, appending extracted records to
// sink. A fetch failure skips the page; the loop always completes unless
// ctx is cancelled. The returned result reports per-page outcomes.
func (s *Scraper) Run(ctx context.Context, sink Sink) (*models.RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result := &models.RunResult{
		StartTime:    time.Now(),
		ErrorsByType: make(map[string]int),
	}

	base := strings.TrimRight(s.cfg.BaseURL, "/")
	for page := 1; page <= s.cfg.MaxPages; page++ {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("run cancelled: %w", ctx.Err())
		}

		outcome := s.fetchPage(base, page, sink)
		result.Pages = append(result.Pages, outcome)

		if outcome.Err != nil {
			result.ErrorCount++
			var fe *FetchError
			kind := KindOther
			if errors.As(outcome.Err, &fe) {
				kind = fe.Kind
			}
			result.ErrorsByType[kind]++
			s.Metrics.IncPage("error")
			s.Metrics.IncError(kind)
			slog.Error("page fetch failed",
				slog.Int("page", page),
				slog.String("kind", kind),
				slog.Any("error", outcome.Err),
			)
			continue
		}

		result.TotalCount += outcome.Found
		s.Metrics.IncPage("ok")
		s.Metrics.IncProducts(outcome.Found)
		slog.Info("page scraped",
			slog.Int("page", page),
			slog.Int("found", outcome.Found),
		)
	}

	result.EndTime = time.Now()
	result.DroppedCount = s.dropped
	return result, nil
}

// fetchPage issues a single blocking request and drains the scratch state
// filled in by the collector callbacks.
func (s *Scraper) fetchPage(base string, page int, sink Sink) models.PageOutcome {
	s.pending = s.pending[:0]
	s.lastStatus = 0
	s.lastErr = nil

	pageURL := fmt.Sprintf("%s/catalogue/page-%d.html", base, page)
	rctx := colly.NewContext()
	rctx.Put(pageKey, strconv.Itoa(page))

	err := s.collector.Request(http.MethodGet, pageURL, nil, rctx, nil)
	if err == nil {
		err = s.lastErr
	}
	if err != nil {
		return models.PageOutcome{Page: page, Err: classifyFetch(page, err, s.lastStatus)}
	}

	sink.Append(s.pending...)
	return models.PageOutcome{Page: page, Found: len(s.pending)}
}

func (s *Scraper) configureHandlers() {
	s.collector.OnRequest(func(r *colly.Request) {
		r.Ctx.Put("start", time.Now())
	})

	s.collector.OnResponse(func(r *colly.Response) {
		if start, ok := r.Ctx.GetAny("start").(time.Time); ok {
			s.Metrics.ObserveDuration(time.Since(start))
		}
	})

	s.collector.OnError(func(r *colly.Response, err error) {
		s.lastErr = err
		if r != nil {
			s.lastStatus = r.StatusCode
		}
	})

	s.collector.OnHTML("article.product_pod", func(e *colly.HTMLElement) {
		page, _ := strconv.Atoi(e.Request.Ctx.Get(pageKey))
		product, err := extractProduct(e, page)
		if err != nil {
			s.dropped++
			reason := "price_parse"
			if errors.Is(err, errMissingStructure) {
				reason = "missing_structure"
			}
			s.Metrics.IncDropped(reason)
			slog.Debug("record dropped",
				slog.Int("page", page),
				slog.String("reason", reason),
				slog.Any("error", err),
			)
			return
		}
		s.pending = append(s.pending, product)
	})
}

// extractProduct reads one product container. A missing required element or
// an unparsable price drops this record only; the rest of the page is
// unaffected.
func extractProduct(e *colly.HTMLElement, page int) (models.Product, error) {
	title := strings.TrimSpace(e.ChildAttr("h3 a", "title"))
	if title == "" {
		return models.Product{}, fmt.Errorf("%w: title link", errMissingStructure)
	}

	priceText := e.ChildText("p.price_color")
	if strings.TrimSpace(priceText) == "" {
		return models.Product{}, fmt.Errorf("%w: price for %q", errMissingStructure, title)
	}

	ratingClass := e.ChildAttr("p.star-rating", "class")
	if ratingClass == "" {
		return models.Product{}, fmt.Errorf("%w: rating for %q", errMissingStructure, title)
	}
	rating := 0
	if parts := strings.Fields(ratingClass); len(parts) > 1 {
		rating = parser.RatingToNumeric(parts[1])
	}

	availability := parser.NormalizeAvailability(e.ChildText("p.instock.availability"))
	if availability == "" {
		availability = parser.NormalizeAvailability(e.ChildText("p.availability"))
	}
	if availability == "" {
		return models.Product{}, fmt.Errorf("%w: availability for %q", errMissingStructure, title)
	}

	price, err := parser.ParsePrice(priceText)
	if err != nil {
		return models.Product{}, err
	}

	return models.Product{
		Title:        title,
		Price:        price,
		Rating:       rating,
		Availability: availability,
		Page:         page,
		ScrapedAt:    time.Now(),
	}, nil
}
