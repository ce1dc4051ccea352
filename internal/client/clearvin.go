package client

import (
	"context"
	"strings"

	"github.com/gocolly/colly/v2"
)

const clearVinSource = "clearvin"

// LotReport holds the fields of a ClearVIN lot page
type LotReport struct {
	Title  string
	Trim   string
	Engine string
	Style  string
	MSRP   string
}

// Masked reports whether the title is redacted ("***") and must not be parsed
func (r LotReport) Masked() bool {
	return strings.Contains(r.Title, "***")
}

// ClearVinClient scrapes the lot history page
type ClearVinClient struct {
	baseURL   string
	collector *colly.Collector
}

func NewClearVinClient(baseURL string, collector *colly.Collector) *ClearVinClient {
	return &ClearVinClient{baseURL: baseURL, collector: collector}
}

// LookupLot fetches the vehicle card for an auction lot. The details are
// only filled when the card lists all four of trim, engine, style and MSRP.
func (c *ClearVinClient) LookupLot(ctx context.Context, lotID string) (*LotReport, error) {
	url := c.baseURL + lotID

	var (
		report  LotReport
		found   bool
		details []string
	)
	err := visit(ctx, c.collector, clearVinSource, url, func(col *colly.Collector) {
		col.OnHTML("div#vehicle-card", func(e *colly.HTMLElement) {
			if found {
				return
			}
			found = true
			report.Title = strings.TrimSpace(e.DOM.Find("h3").First().Text())
			e.ForEach("strong.details-card__stat-value", func(_ int, el *colly.HTMLElement) {
				details = append(details, strings.TrimSpace(el.Text))
			})
		})
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &FetchError{Source: clearVinSource, URL: url, Err: ErrMarkupNotFound}
	}

	if len(details) >= 4 {
		report.Trim = details[0]
		report.Engine = details[1]
		report.Style = details[2]
		report.MSRP = details[3]
	}

	return &report, nil
}
