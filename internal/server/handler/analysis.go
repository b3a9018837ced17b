package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pairdesk/pairtrader/internal/chart"
	"github.com/pairdesk/pairtrader/internal/domain"
	"github.com/pairdesk/pairtrader/internal/service"
)

// AnalysisHandler serves the advisory endpoints.
type AnalysisHandler struct {
	pairs      *service.PairService
	zScoreHigh float64
	zScoreLow  float64
	logger     *slog.Logger
}

// NewAnalysisHandler creates an AnalysisHandler. high and low are the
// configured advice thresholds, used as chart guide lines when a request
// does not override them.
func NewAnalysisHandler(pairs *service.PairService, high, low float64, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		pairs:      pairs,
		zScoreHigh: high,
		zScoreLow:  low,
		logger:     logHandler(logger, "analysis"),
	}
}

// Analyze runs the full pipeline for a submitted request body.
// POST /api/analysis
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req service.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.pairs.Analyze(r.Context(), req)
	if err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// Chart renders the rolling Z-score as a PNG. Holdings are irrelevant here;
// pair parameters can be overridden by query string (days, window, high,
// low).
// GET /api/analysis/chart
func (h *AnalysisHandler) Chart(w http.ResponseWriter, r *http.Request) {
	req := service.AnalyzeRequest{
		HistoryDays:   queryInt(r, "days", 0),
		RollingWindow: queryInt(r, "window", 0),
	}
	high := queryFloat(r, "high", h.zScoreHigh)
	low := queryFloat(r, "low", h.zScoreLow)

	res, err := h.pairs.Analyze(r.Context(), req)
	if err != nil {
		h.writeAnalysisError(w, r, err)
		return
	}

	img, err := chart.RenderZScore(res.Series, high, low)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientHistory) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "chart render failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "chart render failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// writeAnalysisError maps pipeline failures onto HTTP status codes: a bad
// formula is the caller's fault, an empty series is a 404, and an
// unreachable feed is a bad gateway.
func (h *AnalysisHandler) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidFormula):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoData):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrFeedUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "analysis failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}
