package domain

import "time"

// ActionType classifies why a transaction was recorded.
type ActionType string

const (
	ActionTypeDCA       ActionType = "DCA Injection"
	ActionTypeRebalance ActionType = "Rebalance"
	ActionTypeCashOut   ActionType = "Cash Out"
)

// NoAction is the sentinel value stored in an action column when no trade was
// made on that asset.
const NoAction = "-"

// Transaction is one append-only ledger row. The asset action columns carry
// the textual wire format ("BUY:1.2345", "SELL 0.5" or the NoAction
// sentinel); parsing into a typed Action happens in the ledger package at the
// serialization boundary.
type Transaction struct {
	ID           int64      `json:"id"`
	Date         time.Time  `json:"date"`
	ActionType   ActionType `json:"action_type"`
	ZScore       float64    `json:"z_score"`
	Asset1Action string     `json:"asset1_action"`
	Asset2Action string     `json:"asset2_action"`
	Note         string     `json:"note"`
	CreatedAt    time.Time  `json:"created_at"`
}
