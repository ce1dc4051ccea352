// Package marketplace assembles the search parameters sent to the cars.com
// used-vehicle results page.
package marketplace

import (
	"net/url"
	"strconv"

	"vehicle-price-api/internal/matching"
)

const (
	mileageBucket   = 10000
	slugsPerSource  = 3
	defaultPageSize = 20
	defaultSort     = "listed_at_desc"
)

// Filters are the optional narrowing parameters supplied by the caller.
// Absent filters are omitted from the query entirely.
type Filters struct {
	CylinderCounts []string
	Transmission   *string
	Drivetrain     *string
}

// Input is everything BuildParams needs for one search
type Input struct {
	Make           string
	Slugs          []string         // own slugs, most specific first
	CatalogMatches []matching.Match // ranked catalog slugs
	Year           int
	Mileage        int
	Zip            string
	Filters        Filters
}

// Params is the structured marketplace search query
type Params struct {
	StockType         string   `json:"stock_type"`
	Makes             []string `json:"makes"`
	Models            []string `json:"models"`
	YearMin           int      `json:"year_min"`
	YearMax           int      `json:"year_max"`
	MileageMax        int      `json:"mileage_max"`
	PageSize          int      `json:"page_size"`
	Sort              string   `json:"sort"`
	MaximumDistance   string   `json:"maximum_distance"`
	Zip               string   `json:"zip,omitempty"`
	CylinderCounts    []string `json:"cylinder_counts,omitempty"`
	TransmissionSlugs []string `json:"transmission_slugs,omitempty"`
	DrivetrainSlugs   []string `json:"drivetrain_slugs,omitempty"`
}

// RoundMileage rounds mileage up to the next multiple of 10,000. Exact
// multiples, including zero, are returned unchanged.
func RoundMileage(mileage int) int {
	if mileage <= 0 {
		return 0
	}
	buckets := mileage / mileageBucket
	if mileage%mileageBucket != 0 {
		buckets++
	}
	return buckets * mileageBucket
}

// BuildParams assembles the search for one vehicle. The model filter is
// the first three own slugs followed by the first three catalog matches.
func BuildParams(in Input) Params {
	models := make([]string, 0, 2*slugsPerSource)
	models = append(models, firstN(in.Slugs, slugsPerSource)...)
	for i, m := range in.CatalogMatches {
		if i == slugsPerSource {
			break
		}
		models = append(models, m.Candidate)
	}

	p := Params{
		StockType:       "used",
		Makes:           []string{matching.MakeSlug(in.Make)},
		Models:          models,
		YearMin:         in.Year,
		YearMax:         in.Year,
		MileageMax:      RoundMileage(in.Mileage),
		PageSize:        defaultPageSize,
		Sort:            defaultSort,
		MaximumDistance: "all",
		Zip:             in.Zip,
	}

	if len(in.Filters.CylinderCounts) > 0 {
		p.CylinderCounts = append([]string(nil), in.Filters.CylinderCounts...)
	}
	if t := in.Filters.Transmission; t != nil && *t != "" {
		p.TransmissionSlugs = []string{*t}
	}
	if d := in.Filters.Drivetrain; d != nil && *d != "" {
		p.DrivetrainSlugs = []string{*d}
	}

	return p
}

// Values encodes the params with the marketplace's repeated "key[]" names
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("stock_type", p.StockType)
	for _, m := range p.Makes {
		v.Add("makes[]", m)
	}
	for _, m := range p.Models {
		v.Add("models[]", m)
	}
	v.Set("year_min", strconv.Itoa(p.YearMin))
	v.Set("year_max", strconv.Itoa(p.YearMax))
	v.Set("mileage_max", strconv.Itoa(p.MileageMax))
	v.Set("page_size", strconv.Itoa(p.PageSize))
	v.Set("sort", p.Sort)
	if p.MaximumDistance != "" {
		v.Set("maximum_distance", p.MaximumDistance)
	}
	if p.Zip != "" {
		v.Set("zip", p.Zip)
	}
	for _, c := range p.CylinderCounts {
		v.Add("cylinder_counts[]", c)
	}
	for _, t := range p.TransmissionSlugs {
		v.Add("transmission_slugs[]", t)
	}
	for _, d := range p.DrivetrainSlugs {
		v.Add("drivetrain_slugs[]", d)
	}
	return v
}

// URL returns base with the encoded params as its query string
func (p Params) URL(base string) string {
	return base + "?" + p.Values().Encode()
}

func firstN(values []string, n int) []string {
	if len(values) < n {
		return values
	}
	return values[:n]
}
