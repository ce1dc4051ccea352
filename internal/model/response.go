package model

import "time"

// ComparableListing is one marketplace result card
type ComparableListing struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

// VehicleDetails are the attributes recovered from the history sources
type VehicleDetails struct {
	Trim   string `json:"trim,omitempty"`
	Engine string `json:"engine,omitempty"`
	Style  string `json:"style,omitempty"`
}

// SearchDetails describes the marketplace query that produced the listings
type SearchDetails struct {
	URL           string   `json:"url"`
	Slugs         []string `json:"slugs"`
	Models        []string `json:"models"`
	Trim          string   `json:"trim"`
	ResolvedModel string   `json:"resolved_model,omitempty"`
}

// EstimateResponse is the price estimation result
type EstimateResponse struct {
	MSRP     string              `json:"msrp"`
	Carscom  []ComparableListing `json:"carscom"`
	Vehicle  VehicleDetails      `json:"vehicle"`
	Search   SearchDetails       `json:"search"`
	Warnings []string            `json:"warnings,omitempty"`
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status      string           `json:"status"`
	Database    string           `json:"database"`
	CatalogSize int              `json:"catalog_size"`
	Stats       *EstimationStats `json:"stats,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

// EstimationStats counts estimation outcomes since startup
type EstimationStats struct {
	StartedAt       time.Time `json:"started_at"`
	Uptime          string    `json:"uptime"`
	Estimates       int       `json:"estimates"`
	Succeeded       int       `json:"succeeded"`
	Failed          int       `json:"failed"`
	LastError       string    `json:"last_error,omitempty"`
	HistoryWarnings int       `json:"history_warnings"`
	CatalogMatched  int       `json:"catalog_matched"`
	NoCatalogMatch  int       `json:"no_catalog_match"`
	AvgDurationMs   float64   `json:"avg_duration_ms"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
