package domain

// Holdings is the current portfolio state used as input to the rebalance
// calculation. Quantities entered by the user are non-negative; quantities
// reconstructed from an inconsistent ledger may be negative and are surfaced
// as-is.
type Holdings struct {
	Asset1Qty float64 `json:"asset1_qty"`
	Asset2Qty float64 `json:"asset2_qty"`
	Cash      float64 `json:"cash"`
}

// SkippedRow records a transaction row (or one of its action fields) that the
// replay could not parse and skipped.
type SkippedRow struct {
	TransactionID int64  `json:"transaction_id"`
	Field         string `json:"field"`
	Value         string `json:"value"`
	Reason        string `json:"reason"`
}

// ImportResult summarizes one legacy ledger import run.
type ImportResult struct {
	Imported int          `json:"imported"`
	Skipped  []SkippedRow `json:"skipped,omitempty"`
}

// ReplayResult is the outcome of replaying the full transaction log.
// Quantities are not clamped: a negative value means the log is inconsistent
// and the caller must surface it.
type ReplayResult struct {
	Asset1Qty float64      `json:"asset1_qty"`
	Asset2Qty float64      `json:"asset2_qty"`
	Rows      int          `json:"rows"`
	Skipped   []SkippedRow `json:"skipped,omitempty"`
}
