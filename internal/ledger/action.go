// Package ledger reconstructs holdings from the append-only transaction log
// and owns the textual action wire format used by the log's asset columns.
package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// Side is the direction of a recorded trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Action is the typed form of one asset column in a transaction row. The log
// itself stores the legacy textual format ("BUY:1.2345", "SELL 0.5"); this
// type confines parsing and formatting to the serialization boundary.
type Action struct {
	Side   Side
	Amount float64
}

// ParseAction parses an action column value. The second return is false for
// the no-action sentinel ("-" or blank). Recognized forms are
// "<SIDE>:<amount>" and "<SIDE> <amount>" with a case-insensitive side.
func ParseAction(s string) (Action, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == domain.NoAction {
		return Action{}, false, nil
	}

	if !strings.ContainsAny(s, ": \t") {
		return Action{}, false, fmt.Errorf("ledger: action %q has no separator", s)
	}

	parts := strings.Fields(strings.ReplaceAll(s, ":", " "))
	if len(parts) < 2 {
		return Action{}, false, fmt.Errorf("ledger: action %q is missing an amount", s)
	}

	var side Side
	switch strings.ToUpper(parts[0]) {
	case "BUY":
		side = SideBuy
	case "SELL":
		side = SideSell
	default:
		return Action{}, false, fmt.Errorf("ledger: action %q has unrecognized side %q", s, parts[0])
	}

	amount, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Action{}, false, fmt.Errorf("ledger: action %q has unparseable amount: %w", s, err)
	}

	return Action{Side: side, Amount: amount}, true, nil
}

// FormatAction renders an action in the canonical "SIDE:amount" wire format
// with four decimal places, matching what the recorder writes.
func FormatAction(a Action) string {
	return fmt.Sprintf("%s:%.4f", a.Side, a.Amount)
}
