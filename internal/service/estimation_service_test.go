package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"vehicle-price-api/internal/client"
	"vehicle-price-api/internal/marketplace"
	"vehicle-price-api/internal/model"
)

type fakeLots struct {
	report *client.LotReport
	err    error
	calls  atomic.Int32
}

func (f *fakeLots) LookupLot(ctx context.Context, lotID string) (*client.LotReport, error) {
	f.calls.Add(1)
	return f.report, f.err
}

type fakeVINs struct {
	report *client.VINReport
	err    error
}

func (f *fakeVINs) LookupVIN(ctx context.Context, vin string) (*client.VINReport, error) {
	return f.report, f.err
}

type fakeMarket struct {
	listings []model.ComparableListing
	err      error
	params   marketplace.Params
}

func (f *fakeMarket) SearchURL(params marketplace.Params) string {
	return params.URL("https://cars.test/results")
}

func (f *fakeMarket) Search(ctx context.Context, params marketplace.Params) ([]model.ComparableListing, error) {
	f.params = params
	return f.listings, f.err
}

type fakeCatalog map[string][]string

func (f fakeCatalog) ModelSlugs(makeName string) []string {
	return append([]string(nil), f[makeName]...)
}

var fordCatalog = fakeCatalog{
	"ford": {"ford-escape", "ford-explorer", "ford-explorer_sport_trac", "ford-f_150", "ford-mustang"},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func explorerQuery() model.VehicleQuery {
	return model.VehicleQuery{
		VIN:     "1FM5K8F84KGA00001",
		LotID:   "45123456",
		Year:    2019,
		Make:    "Ford",
		Model:   "Explorer",
		Mileage: 62000,
	}
}

func TestEstimate_FordExplorer(t *testing.T) {
	lots := &fakeLots{report: &client.LotReport{
		Title:  "2019 Ford Explorer Limited",
		Trim:   "Limited",
		Engine: "3.5L V6",
		Style:  "SUV",
		MSRP:   "$43,140",
	}}
	vins := &fakeVINs{report: &client.VINReport{Title: "2019 Ford Explorer XLT"}}
	market := &fakeMarket{listings: []model.ComparableListing{{Title: "2019 Ford Explorer Limited", Price: "$31,500"}}}

	svc := NewEstimationService(lots, vins, market, fordCatalog, "92620", discardLogger())
	resp, err := svc.Estimate(context.Background(), explorerQuery())
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	wantSlugs := []string{"ford-explorer_limited", "ford-explorer", "ford-limited"}
	if !reflect.DeepEqual(resp.Search.Slugs, wantSlugs) {
		t.Errorf("Slugs = %v, want %v", resp.Search.Slugs, wantSlugs)
	}
	if resp.Search.Trim != "limited xlt" {
		t.Errorf("Trim = %q, want %q", resp.Search.Trim, "limited xlt")
	}
	if resp.MSRP != "$43,140" {
		t.Errorf("MSRP = %q", resp.MSRP)
	}
	if resp.Vehicle != (model.VehicleDetails{Trim: "limited", Engine: "3.5L V6", Style: "SUV"}) {
		t.Errorf("Vehicle = %+v", resp.Vehicle)
	}
	if len(resp.Carscom) != 1 || len(resp.Warnings) != 0 {
		t.Errorf("unexpected response %+v", resp)
	}

	p := market.params
	if p.MileageMax != 70000 || p.YearMin != 2019 || p.YearMax != 2019 {
		t.Errorf("unexpected params %+v", p)
	}
	if !reflect.DeepEqual(p.Makes, []string{"ford"}) {
		t.Errorf("Makes = %v", p.Makes)
	}
	if p.Zip != "92620" {
		t.Errorf("Zip = %q", p.Zip)
	}
	if len(p.Models) != 6 || !reflect.DeepEqual(p.Models[:3], wantSlugs) {
		t.Errorf("Models = %v", p.Models)
	}
	if !reflect.DeepEqual(resp.Search.Models, p.Models) {
		t.Errorf("Search.Models = %v, want %v", resp.Search.Models, p.Models)
	}
	if !strings.Contains(resp.Search.URL, "mileage_max=70000") {
		t.Errorf("URL = %s", resp.Search.URL)
	}
	if !contains(p.Models[3:], resp.Search.ResolvedModel) {
		t.Errorf("ResolvedModel %q not among catalog matches %v", resp.Search.ResolvedModel, p.Models[3:])
	}
}

func TestEstimate_UserTrimWins(t *testing.T) {
	lots := &fakeLots{report: &client.LotReport{Title: "2019 Ford Explorer Limited"}}
	vins := &fakeVINs{report: &client.VINReport{Title: "2019 Ford Explorer XLT"}}
	market := &fakeMarket{}

	q := explorerQuery()
	trim := "Platinum"
	q.Trim = &trim

	svc := NewEstimationService(lots, vins, market, fordCatalog, "", discardLogger())
	resp, err := svc.Estimate(context.Background(), q)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if resp.Search.Slugs[0] != "ford-explorer_platinum" {
		t.Errorf("Slugs = %v", resp.Search.Slugs)
	}
	if resp.Search.Trim != "Platinum limited xlt" {
		t.Errorf("Trim = %q", resp.Search.Trim)
	}
}

func TestEstimate_HistorySoftFail(t *testing.T) {
	lots := &fakeLots{err: &client.FetchError{Source: "clearvin", StatusCode: 503, Err: errors.New("unavailable")}}
	vins := &fakeVINs{err: &client.FetchError{Source: "epicvin", Err: client.ErrMarkupNotFound}}
	market := &fakeMarket{listings: []model.ComparableListing{}}

	svc := NewEstimationService(lots, vins, market, fordCatalog, "92620", discardLogger())
	resp, err := svc.Estimate(context.Background(), explorerQuery())
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	if resp.MSRP != "" || resp.Vehicle != (model.VehicleDetails{}) {
		t.Errorf("expected empty history fields, got %+v", resp)
	}
	if len(resp.Warnings) != 2 {
		t.Errorf("Warnings = %v, want 2", resp.Warnings)
	}
	if !reflect.DeepEqual(resp.Search.Slugs, []string{"ford-explorer"}) {
		t.Errorf("Slugs = %v", resp.Search.Slugs)
	}
	if resp.Search.Trim != "" {
		t.Errorf("Trim = %q, want empty", resp.Search.Trim)
	}
	if lots.calls.Load() != 1 {
		t.Errorf("LookupLot called %d times", lots.calls.Load())
	}
}

func TestEstimate_MaskedTitleKeepsDetails(t *testing.T) {
	lots := &fakeLots{report: &client.LotReport{
		Title:  "2019 Ford *** ***",
		Trim:   "Limited",
		Engine: "3.5L V6",
		Style:  "SUV",
		MSRP:   "$43,140",
	}}
	vins := &fakeVINs{report: &client.VINReport{Title: "2019 Ford Explorer XLT"}}
	market := &fakeMarket{}

	svc := NewEstimationService(lots, vins, market, fordCatalog, "", discardLogger())
	resp, err := svc.Estimate(context.Background(), explorerQuery())
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if resp.MSRP != "$43,140" {
		t.Errorf("MSRP = %q", resp.MSRP)
	}
	if resp.Search.Trim != "Limited xlt" {
		t.Errorf("Trim = %q", resp.Search.Trim)
	}
	if len(resp.Warnings) != 1 {
		t.Errorf("Warnings = %v", resp.Warnings)
	}
}

func TestEstimate_MarketplaceFailure(t *testing.T) {
	lots := &fakeLots{report: &client.LotReport{Title: "2019 Ford Explorer Limited"}}
	vins := &fakeVINs{report: &client.VINReport{Title: "2019 Ford Explorer XLT"}}
	upstream := &client.FetchError{Source: "carscom", StatusCode: 502, Err: errors.New("bad gateway")}
	market := &fakeMarket{err: upstream}

	svc := NewEstimationService(lots, vins, market, fordCatalog, "", discardLogger())
	_, err := svc.Estimate(context.Background(), explorerQuery())
	if !errors.Is(err, upstream) {
		t.Fatalf("Estimate() error = %v, want wrapped marketplace error", err)
	}
	if !client.IsTransient(err) {
		t.Error("wrapped 502 should stay transient")
	}
}

func TestPlan_Stages(t *testing.T) {
	svc := NewEstimationService(nil, nil, nil, fordCatalog, "", discardLogger())
	slugs := []string{"ford-explorer_limited", "ford-explorer", "ford-limited"}

	plan := svc.plan(context.Background(), explorerQuery(), slugs, "limited", "limited xlt")

	if plan.SlugMatch == nil || plan.SlugMatch.Candidate != "ford-explorer_limited" {
		t.Errorf("SlugMatch = %+v", plan.SlugMatch)
	}
	if len(plan.CatalogMatches) != catalogMatchLimit {
		t.Fatalf("CatalogMatches = %+v", plan.CatalogMatches)
	}
	for i := 1; i < len(plan.CatalogMatches); i++ {
		if plan.CatalogMatches[i].Score > plan.CatalogMatches[i-1].Score {
			t.Errorf("CatalogMatches not sorted: %+v", plan.CatalogMatches)
		}
	}
	if plan.ResolvedModel == nil {
		t.Fatal("ResolvedModel is nil")
	}
}

func TestPlan_NoCandidates(t *testing.T) {
	svc := NewEstimationService(nil, nil, nil, fakeCatalog{}, "", discardLogger())
	q := model.VehicleQuery{Make: "Ford"}

	plan := svc.plan(context.Background(), q, []string{}, "", "")
	if plan.SlugMatch != nil || plan.CatalogMatches != nil || plan.ResolvedModel != nil {
		t.Errorf("expected empty plan, got %+v", plan)
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func TestStats_RecordsOutcomes(t *testing.T) {
	lots := &fakeLots{err: errors.New("timeout")}
	vins := &fakeVINs{report: &client.VINReport{Title: "2019 Ford Explorer XLT"}}
	market := &fakeMarket{}

	svc := NewEstimationService(lots, vins, market, fordCatalog, "", discardLogger())
	if _, err := svc.Estimate(context.Background(), explorerQuery()); err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}

	market.err = errors.New("blocked")
	if _, err := svc.Estimate(context.Background(), explorerQuery()); err == nil {
		t.Fatal("expected marketplace error")
	}

	snap := svc.Stats().Snapshot()
	if snap.Estimates != 2 || snap.Succeeded != 1 || snap.Failed != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.HistoryWarnings != 2 || snap.CatalogMatched != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.LastError != "blocked" {
		t.Errorf("LastError = %q", snap.LastError)
	}
}
