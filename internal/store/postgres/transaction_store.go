package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// TransactionStore implements domain.TransactionStore using PostgreSQL. The
// table is append-only; there is deliberately no update or delete path.
type TransactionStore struct {
	pool *pgxpool.Pool
}

// NewTransactionStore creates a TransactionStore backed by the given pool.
func NewTransactionStore(pool *pgxpool.Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

const txSelectCols = `id, date, action_type, z_score, asset1_action, asset2_action, note, created_at`

func scanTransactionRows(rows pgx.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID, &t.Date, &t.ActionType, &t.ZScore,
			&t.Asset1Action, &t.Asset2Action, &t.Note, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// Append inserts one transaction and returns its assigned id.
func (s *TransactionStore) Append(ctx context.Context, tx domain.Transaction) (int64, error) {
	const query = `
		INSERT INTO transactions (date, action_type, z_score, asset1_action, asset2_action, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, query,
		tx.Date, tx.ActionType, tx.ZScore,
		tx.Asset1Action, tx.Asset2Action, tx.Note,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: append transaction: %w", err)
	}
	return id, nil
}

// ListAll returns every transaction in insertion order.
func (s *TransactionStore) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + txSelectCols + ` FROM transactions ORDER BY id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list transactions: %w", err)
	}
	defer rows.Close()

	txs, err := scanTransactionRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan transactions: %w", err)
	}
	return txs, nil
}

// Count returns the number of logged transactions.
func (s *TransactionStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count transactions: %w", err)
	}
	return n, nil
}

// Compile-time interface check.
var _ domain.TransactionStore = (*TransactionStore)(nil)
