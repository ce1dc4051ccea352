package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"vehicle-price-api/internal/client"
	"vehicle-price-api/internal/marketplace"
	"vehicle-price-api/internal/matching"
	"vehicle-price-api/internal/model"
)

const catalogMatchLimit = 3

// LotHistory looks up an auction lot
type LotHistory interface {
	LookupLot(ctx context.Context, lotID string) (*client.LotReport, error)
}

// VINHistory looks up a VIN pre-check title
type VINHistory interface {
	LookupVIN(ctx context.Context, vin string) (*client.VINReport, error)
}

// Marketplace runs the comparable listings search
type Marketplace interface {
	SearchURL(params marketplace.Params) string
	Search(ctx context.Context, params marketplace.Params) ([]model.ComparableListing, error)
}

// CatalogLookup returns the known marketplace model slugs of a make
type CatalogLookup interface {
	ModelSlugs(makeName string) []string
}

// MatchPlan is the outcome of the three matching stages
type MatchPlan struct {
	SlugMatch      *matching.Match  // stage 1: best own slug
	CatalogMatches []matching.Match // stage 2: top catalog candidates
	ResolvedModel  *matching.Match  // stage 3: best of stage 2 against everything known
}

// history collects what the two history sources returned. Fields stay empty
// when a source failed or its title could not be used.
type history struct {
	lot      *client.LotReport
	lotTitle matching.ParsedTitle
	vinTitle matching.ParsedTitle
	lotTrim  string
	warnings []string
}

// EstimationService turns a vehicle query into a marketplace price estimate
type EstimationService struct {
	lots    LotHistory
	vins    VINHistory
	market  Marketplace
	catalog CatalogLookup
	zip     string
	stats   *Stats
	logger  *slog.Logger
}

// NewEstimationService wires the history sources, marketplace and catalog
func NewEstimationService(
	lots LotHistory,
	vins VINHistory,
	market Marketplace,
	catalog CatalogLookup,
	zip string,
	logger *slog.Logger,
) *EstimationService {
	return &EstimationService{
		lots:    lots,
		vins:    vins,
		market:  market,
		catalog: catalog,
		zip:     zip,
		stats:   NewStats(),
		logger:  logger,
	}
}

// Estimate gathers the vehicle history, resolves the marketplace model slugs
// and returns the comparable listings. History failures only add warnings;
// a marketplace failure fails the whole estimate.
func (s *EstimationService) Estimate(ctx context.Context, q model.VehicleQuery) (*model.EstimateResponse, error) {
	start := time.Now()
	h := s.fetchHistory(ctx, q)

	userTrim := q.TrimValue()
	effectiveTrim := firstNonEmpty(userTrim, h.lotTrim, h.vinTitle.Trim)
	trim := matching.NormalizeTrim(userTrim, h.lotTrim, h.vinTitle.Trim)
	s.logger.DebugContext(ctx, "trim resolved", "effective", effectiveTrim, "normalized", trim)

	slugs := matching.GenerateSlugs(q.Make, q.Model, effectiveTrim)
	s.logger.DebugContext(ctx, "slugs generated", "slugs", slugs)

	plan := s.plan(ctx, q, slugs, effectiveTrim, trim)

	params := marketplace.BuildParams(marketplace.Input{
		Make:           q.Make,
		Slugs:          slugs,
		CatalogMatches: plan.CatalogMatches,
		Year:           q.Year,
		Mileage:        q.Mileage,
		Zip:            s.zip,
		Filters: marketplace.Filters{
			CylinderCounts: q.CylinderCounts,
			Transmission:   q.Transmission,
			Drivetrain:     q.Drivetrain,
		},
	})
	searchURL := s.market.SearchURL(params)
	s.logger.DebugContext(ctx, "searching marketplace", "url", searchURL)

	listings, err := s.market.Search(ctx, params)
	s.stats.record(time.Since(start), len(h.warnings), plan, err)
	if err != nil {
		return nil, fmt.Errorf("marketplace search: %w", err)
	}
	s.logger.InfoContext(ctx, "estimate complete", "lot_id", q.LotID, "listings", len(listings), "warnings", len(h.warnings))

	resp := &model.EstimateResponse{
		Carscom: listings,
		Vehicle: model.VehicleDetails{Trim: effectiveTrim},
		Search: model.SearchDetails{
			URL:    searchURL,
			Slugs:  slugs,
			Models: params.Models,
			Trim:   trim,
		},
		Warnings: h.warnings,
	}
	if h.lot != nil {
		resp.MSRP = h.lot.MSRP
		resp.Vehicle.Engine = h.lot.Engine
		resp.Vehicle.Style = h.lot.Style
	}
	if plan.ResolvedModel != nil {
		resp.Search.ResolvedModel = plan.ResolvedModel.Candidate
	}

	return resp, nil
}

// Stats returns the outcome counters of this service
func (s *EstimationService) Stats() *Stats {
	return s.stats
}

// fetchHistory queries both history sources concurrently and soft-fails
// each of them independently.
func (s *EstimationService) fetchHistory(ctx context.Context, q model.VehicleQuery) history {
	var (
		h      history
		lotErr error
		vin    *client.VINReport
		vinErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		h.lot, lotErr = s.lots.LookupLot(ctx, q.LotID)
		return nil
	})
	g.Go(func() error {
		vin, vinErr = s.vins.LookupVIN(ctx, q.VIN)
		return nil
	})
	_ = g.Wait()

	if lotErr != nil {
		h.warn(ctx, s.logger, "clearvin lookup failed", lotErr)
	} else if h.lot.Masked() {
		s.logger.WarnContext(ctx, "clearvin title masked", "lot_id", q.LotID)
		h.warnings = append(h.warnings, "clearvin title masked")
	} else if parsed, err := matching.ParseTitle(h.lot.Title); err != nil {
		h.warn(ctx, s.logger, "clearvin title unusable", err)
	} else {
		h.lotTitle = parsed
	}
	if h.lot != nil {
		h.lotTrim = firstNonEmpty(h.lotTitle.Trim, h.lot.Trim)
		s.logger.DebugContext(ctx, "clearvin", "title", h.lot.Title, "trim", h.lotTrim, "msrp", h.lot.MSRP)
	}

	if vinErr != nil {
		h.warn(ctx, s.logger, "epicvin lookup failed", vinErr)
	} else if parsed, err := matching.ParseTitle(vin.Title); err != nil {
		h.warn(ctx, s.logger, "epicvin title unusable", err)
	} else {
		h.vinTitle = parsed
		s.logger.DebugContext(ctx, "epicvin", "title", vin.Title, "parsed", parsed)
	}

	return h
}

func (h *history) warn(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logger.WarnContext(ctx, msg, "error", err, "transient", client.IsTransient(err))
	h.warnings = append(h.warnings, msg+": "+err.Error())
}

// plan runs the matching stages. A stage with nothing to match leaves its
// result empty and the later stages work with what is left.
func (s *EstimationService) plan(ctx context.Context, q model.VehicleQuery, slugs []string, effectiveTrim, trim string) MatchPlan {
	var plan MatchPlan

	if m, err := matching.BestMatch(joinWords(q.Model, effectiveTrim), slugs); err == nil {
		plan.SlugMatch = &m
		s.logger.DebugContext(ctx, "slug match", "candidate", m.Candidate, "score", m.Score)
	} else if !errors.Is(err, matching.ErrEmptyCandidates) {
		s.logger.WarnContext(ctx, "slug match failed", "error", err)
	}

	choices := append(s.catalog.ModelSlugs(strings.ToLower(q.Make)), slugs...)
	matches, err := matching.TopMatches(joinWords(q.Model, trim), choices, catalogMatchLimit)
	if err != nil {
		s.logger.DebugContext(ctx, "no catalog candidates", "make", q.Make)
		return plan
	}
	plan.CatalogMatches = matches
	s.logger.DebugContext(ctx, "catalog matches", "model", q.Model, "matches", matches)

	candidates := make([]string, len(matches))
	for i, m := range matches {
		candidates[i] = m.Candidate
	}
	query := joinWords(strings.Join(slugs, " "), q.Model, trim)
	if m, err := matching.BestMatch(query, candidates); err == nil {
		plan.ResolvedModel = &m
		s.logger.DebugContext(ctx, "resolved model", "trim", trim, "candidate", m.Candidate, "score", m.Score)
	}

	return plan
}

func joinWords(parts ...string) string {
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			words = append(words, p)
		}
	}
	return strings.Join(words, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
