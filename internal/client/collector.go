package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ErrMarkupNotFound means the page loaded but the expected element was absent
var ErrMarkupNotFound = errors.New("expected markup not found")

// FetchError wraps a failed page fetch or extraction
type FetchError struct {
	Source     string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: fetch %s: status %d: %v", e.Source, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: fetch %s: %v", e.Source, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Transient reports whether the same fetch could succeed later: network
// failures, timeouts, 429 and 5xx. Missing markup and other 4xx are permanent.
func (e *FetchError) Transient() bool {
	if errors.Is(e.Err, ErrMarkupNotFound) {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return true
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// IsTransient reports whether err carries a transient FetchError
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Transient()
}

// NewCollector instantiates the base collector shared by every scraper.
// Scrapers clone it per request so callbacks never leak between requests.
func NewCollector(userAgent string, timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)
	c.WithTransport(otelhttp.NewTransport(http.DefaultTransport))
	return c
}

// visit clones base, lets setup register the extraction callbacks and
// fetches url synchronously. The HTTP request is bound to ctx.
func visit(ctx context.Context, base *colly.Collector, source, url string, setup func(c *colly.Collector)) error {
	c := base.Clone()
	c.Context = ctx

	var status int
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})
	setup(c)

	err := c.Visit(url)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &FetchError{Source: source, URL: url, Err: ctxErr}
	}
	if err != nil {
		return &FetchError{Source: source, URL: url, StatusCode: status, Err: err}
	}
	return nil
}
