package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pairdesk/pairtrader/internal/domain"
	"github.com/pairdesk/pairtrader/internal/service"
)

// LedgerAdminHandler serves the archive and legacy-import endpoints.
type LedgerAdminHandler struct {
	ledger *service.LedgerService
	logger *slog.Logger
}

// NewLedgerAdminHandler creates a LedgerAdminHandler.
func NewLedgerAdminHandler(ledger *service.LedgerService, logger *slog.Logger) *LedgerAdminHandler {
	return &LedgerAdminHandler{
		ledger: ledger,
		logger: logHandler(logger, "ledger_admin"),
	}
}

// Archive snapshots the full log to object storage.
// POST /api/ledger/archive
func (h *LedgerAdminHandler) Archive(w http.ResponseWriter, r *http.Request) {
	count, path, err := h.ledger.Archive(r.Context())
	if err != nil {
		if strings.Contains(err.Error(), "not configured") {
			writeError(w, http.StatusNotImplemented, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "archive failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "archive failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": count,
		"path":  path,
	})
}

// Import loads a legacy CSV export from object storage into the log.
// POST /api/ledger/import
func (h *LedgerAdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	res, err := h.ledger.ImportLegacy(r.Context(), req.Path)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "not configured"):
			writeError(w, http.StatusNotImplemented, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.ErrorContext(r.Context(), "legacy import failed", slog.String("error", err.Error()))
			writeError(w, http.StatusBadGateway, "legacy import failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}
