package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"vehicle-price-api/internal/client"
	"vehicle-price-api/internal/model"
)

// Estimator produces a price estimate for a validated query
type Estimator interface {
	Estimate(ctx context.Context, q model.VehicleQuery) (*model.EstimateResponse, error)
}

type EstimationHandler struct {
	svc    Estimator
	logger *slog.Logger
}

func NewEstimationHandler(svc Estimator, logger *slog.Logger) *EstimationHandler {
	return &EstimationHandler{svc: svc, logger: logger}
}

// Estimate handles POST /api/price-estimation
func (h *EstimationHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req model.PriceEstimationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		msg := "request body is not valid JSON"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		writeError(w, r, http.StatusBadRequest, "invalid_request", msg)
		return
	}

	q, err := req.Validate()
	if err != nil {
		code := "invalid_request"
		var missing *model.MissingFieldError
		if errors.As(err, &missing) {
			code = "missing_fields"
		}
		writeError(w, r, http.StatusBadRequest, code, err.Error())
		return
	}

	resp, err := h.svc.Estimate(r.Context(), q)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "price estimation failed", "lot_id", q.LotID, "error", err)
		if client.IsTransient(err) {
			writeError(w, r, http.StatusBadGateway, "upstream_unavailable", "marketplace is temporarily unavailable")
			return
		}
		writeError(w, r, http.StatusBadGateway, "upstream_error", "marketplace search failed")
		return
	}

	render.JSON(w, r, resp)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, model.ErrorResponse{Error: code, Message: message})
}
