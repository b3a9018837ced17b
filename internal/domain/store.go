package domain

import "context"

// TransactionStore persists the append-only transaction log. ListAll returns
// every record in insertion order; holdings reconstruction replays the full
// log on every read rather than keeping incremental state.
type TransactionStore interface {
	Append(ctx context.Context, tx Transaction) (int64, error)
	ListAll(ctx context.Context) ([]Transaction, error)
	Count(ctx context.Context) (int64, error)
}
