package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pairdesk/pairtrader/internal/domain"
	"github.com/pairdesk/pairtrader/internal/service"
)

// TransactionsHandler serves the transaction log and holdings endpoints.
type TransactionsHandler struct {
	ledger *service.LedgerService
	logger *slog.Logger
}

// NewTransactionsHandler creates a TransactionsHandler.
func NewTransactionsHandler(ledger *service.LedgerService, logger *slog.Logger) *TransactionsHandler {
	return &TransactionsHandler{
		ledger: ledger,
		logger: logHandler(logger, "transactions"),
	}
}

// List returns the full transaction log in insertion order.
// GET /api/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.ledger.List(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"count":        len(txs),
	})
}

// Record appends one transaction to the log.
// POST /api/transactions
func (h *TransactionsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var tx domain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	recorded, err := h.ledger.Record(r.Context(), tx)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			h.writeStoreError(w, r, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, recorded)
}

// Holdings reconstructs current quantities by replaying the log. The
// deployable cash is supplied via the ?cash= query parameter. Skipped rows
// are included so data problems surface in the dashboard.
// GET /api/holdings
func (h *TransactionsHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	cash := queryFloat(r, "cash", 0)

	holdings, replay, err := h.ledger.Holdings(r.Context(), cash)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"holdings": holdings,
		"replay":   replay,
	})
}

func (h *TransactionsHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "transaction store error", slog.String("error", err.Error()))
	writeError(w, http.StatusServiceUnavailable, "transaction log unavailable")
}
