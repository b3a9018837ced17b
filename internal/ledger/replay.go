package ledger

import "github.com/pairdesk/pairtrader/internal/domain"

// Replay folds the full transaction log into current holdings. It is a pure
// function of the log: replaying the same records always yields the same
// result, and no incremental state is kept between calls.
//
// Malformed action fields are skipped rather than aborting the replay, but
// every skip is counted and reported in the result so callers can surface
// data-entry problems instead of hiding them. Resulting quantities are not
// clamped; a negative quantity means the log is inconsistent and is returned
// as-is.
func Replay(txs []domain.Transaction) domain.ReplayResult {
	res := domain.ReplayResult{Rows: len(txs)}

	for _, tx := range txs {
		res.Asset1Qty += applyAction(tx.ID, "asset1_action", tx.Asset1Action, &res)
		res.Asset2Qty += applyAction(tx.ID, "asset2_action", tx.Asset2Action, &res)
	}
	return res
}

// applyAction parses one action column and returns the signed quantity delta.
// Parse failures are recorded in the result's skip list and contribute zero.
func applyAction(txID int64, field, value string, res *domain.ReplayResult) float64 {
	act, ok, err := ParseAction(value)
	if err != nil {
		res.Skipped = append(res.Skipped, domain.SkippedRow{
			TransactionID: txID,
			Field:         field,
			Value:         value,
			Reason:        err.Error(),
		})
		return 0
	}
	if !ok {
		return 0
	}
	if act.Side == SideSell {
		return -act.Amount
	}
	return act.Amount
}
