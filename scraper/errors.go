package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Fetch error kinds, used as metric labels and in per-page reporting.
const (
	KindTimeout     = "timeout"
	KindConnection  = "connection"
	KindForbidden   = "forbidden"
	KindNotFound    = "not_found"
	KindRateLimited = "rate_limited"
	KindOther       = "other"
)

// FetchError describes a failed page fetch. It is recoverable: the run
// skips the page and continues.
type FetchError struct {
	Page int
	Kind string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch page %d (%s): %v", e.Page, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyFetch wraps a transport or status failure into a FetchError with
// the matching kind label.
func classifyFetch(page int, err error, statusCode int) *FetchError {
	kind := KindOther

	var netErr net.Error
	var opErr *net.OpError
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	} else if errors.As(err, &netErr) && netErr.Timeout() {
		kind = KindTimeout
	} else if errors.As(err, &opErr) {
		kind = KindConnection
	} else {
		switch statusCode {
		case http.StatusForbidden:
			kind = KindForbidden
		case http.StatusNotFound:
			kind = KindNotFound
		case http.StatusTooManyRequests:
			kind = KindRateLimited
		}
	}

	if err == nil {
		err = fmt.Errorf("http status %d", statusCode)
	}
	return &FetchError{Page: page, Kind: kind, Err: err}
}
