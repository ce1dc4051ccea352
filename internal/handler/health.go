package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"vehicle-price-api/internal/model"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsSource reports estimation counters
type StatsSource interface {
	Snapshot() model.EstimationStats
}

type HealthHandler struct {
	db          Pinger
	catalogSize int
	stats       StatsSource
}

// NewHealthHandler builds the health check. db may be nil when the catalog
// is served from the mapping file, stats may be nil too.
func NewHealthHandler(db Pinger, catalogSize int, stats StatsSource) *HealthHandler {
	return &HealthHandler{db: db, catalogSize: catalogSize, stats: stats}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	response := model.HealthResponse{
		Status:      "ok",
		Database:    "disabled",
		CatalogSize: h.catalogSize,
		Timestamp:   time.Now(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		response.Database = "connected"
		if err := h.db.Ping(ctx); err != nil {
			response.Database = "disconnected"
			response.Status = "degraded"
		}
	}

	if h.stats != nil {
		snapshot := h.stats.Snapshot()
		response.Stats = &snapshot
	}

	if h.catalogSize == 0 {
		response.Status = "degraded"
	}

	render.JSON(w, r, response)
}
