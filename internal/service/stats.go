package service

import (
	"sync"
	"time"

	"vehicle-price-api/internal/model"
)

// Stats counts estimation outcomes since startup
type Stats struct {
	mu sync.RWMutex

	startedAt time.Time
	total     int
	succeeded int
	failed    int
	lastError string

	// Matching
	historyWarnings int
	catalogMatched  int
	noCatalogMatch  int

	busy time.Duration
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) record(elapsed time.Duration, warnings int, plan MatchPlan, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.busy += elapsed
	s.historyWarnings += warnings
	if len(plan.CatalogMatches) > 0 {
		s.catalogMatched++
	} else {
		s.noCatalogMatch++
	}

	if err != nil {
		s.failed++
		s.lastError = err.Error()
		return
	}
	s.succeeded++
}

// Snapshot returns the current counters
func (s *Stats) Snapshot() model.EstimationStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	avg := 0.0
	if s.total > 0 {
		avg = float64(s.busy.Milliseconds()) / float64(s.total)
	}

	return model.EstimationStats{
		StartedAt:       s.startedAt,
		Uptime:          time.Since(s.startedAt).Round(time.Second).String(),
		Estimates:       s.total,
		Succeeded:       s.succeeded,
		Failed:          s.failed,
		LastError:       s.lastError,
		HistoryWarnings: s.historyWarnings,
		CatalogMatched:  s.catalogMatched,
		NoCatalogMatch:  s.noCatalogMatch,
		AvgDurationMs:   avg,
	}
}
