package client

import (
	"context"

	"github.com/gocolly/colly/v2"

	"vehicle-price-api/internal/marketplace"
	"vehicle-price-api/internal/model"
)

const carsComSource = "carscom"

// CarsComClient scrapes the cars.com search results page
type CarsComClient struct {
	baseURL   string
	collector *colly.Collector
}

func NewCarsComClient(baseURL string, collector *colly.Collector) *CarsComClient {
	return &CarsComClient{baseURL: baseURL, collector: collector}
}

// SearchURL returns the results page address for params
func (c *CarsComClient) SearchURL(params marketplace.Params) string {
	return params.URL(c.baseURL)
}

// Search returns the listing cards in page order. A page without cards is
// an empty result, not an error.
func (c *CarsComClient) Search(ctx context.Context, params marketplace.Params) ([]model.ComparableListing, error) {
	listings := []model.ComparableListing{}

	err := visit(ctx, c.collector, carsComSource, c.SearchURL(params), func(col *colly.Collector) {
		col.OnHTML("div.vehicle-card", func(e *colly.HTMLElement) {
			listings = append(listings, model.ComparableListing{
				Title: e.ChildText("h2.title"),
				Price: e.ChildText("span.primary-price"),
			})
		})
	})
	if err != nil {
		return nil, err
	}

	return listings, nil
}
