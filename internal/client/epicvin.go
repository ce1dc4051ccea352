package client

import (
	"context"
	"regexp"
	"strings"

	"github.com/gocolly/colly/v2"
)

const epicVinSource = "epicvin"

var (
	leadingNonDigits = regexp.MustCompile(`^\D*`)
	hashSuffix       = regexp.MustCompile(`\s*#.*$`)
)

// VINReport holds the vehicle title from the EpicVIN pre-check page
type VINReport struct {
	Heading string // raw h1 text
	Title   string // heading reduced to "year make model trim"
}

// EpicVinClient scrapes the VIN pre-check page
type EpicVinClient struct {
	baseURL   string
	collector *colly.Collector
}

func NewEpicVinClient(baseURL string, collector *colly.Collector) *EpicVinClient {
	return &EpicVinClient{baseURL: baseURL, collector: collector}
}

// LookupVIN fetches the pre-check heading for a VIN
func (c *EpicVinClient) LookupVIN(ctx context.Context, vin string) (*VINReport, error) {
	url := c.baseURL + vin

	var (
		report VINReport
		found  bool
	)
	err := visit(ctx, c.collector, epicVinSource, url, func(col *colly.Collector) {
		col.OnHTML("div#precheck", func(e *colly.HTMLElement) {
			h1 := e.DOM.Find("h1").First()
			if found || h1.Length() == 0 {
				return
			}
			found = true
			report.Heading = h1.Text()
		})
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &FetchError{Source: epicVinSource, URL: url, Err: ErrMarkupNotFound}
	}

	report.Title = CleanHeading(report.Heading)
	return &report, nil
}

// CleanHeading strips everything before the model year and any "#..." suffix,
// e.g. "VIN check: 2019 Ford Explorer XLT #1FM5K8D8" -> "2019 Ford Explorer XLT".
func CleanHeading(heading string) string {
	s := leadingNonDigits.ReplaceAllString(heading, "")
	s = hashSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
