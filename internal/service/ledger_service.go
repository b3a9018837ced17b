package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pairdesk/pairtrader/internal/domain"
	"github.com/pairdesk/pairtrader/internal/ledger"
)

// Archiver snapshots the transaction log to object storage.
type Archiver interface {
	Archive(ctx context.Context, asOf time.Time) (int64, string, error)
}

// Importer loads a legacy CSV export into the transaction store.
type Importer interface {
	Import(ctx context.Context, path string) (domain.ImportResult, error)
}

// LedgerService owns the append-only transaction log: recording new entries,
// reconstructing holdings by replay, and the archive/import round trip.
// archiver and importer are nil when object storage is disabled.
type LedgerService struct {
	store    domain.TransactionStore
	archiver Archiver
	importer Importer
	logger   *slog.Logger
}

// NewLedgerService creates a LedgerService.
func NewLedgerService(store domain.TransactionStore, archiver Archiver, importer Importer, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:    store,
		archiver: archiver,
		importer: importer,
		logger:   logger,
	}
}

// validActionTypes enumerates the accepted transaction classifications.
var validActionTypes = map[domain.ActionType]bool{
	domain.ActionTypeDCA:       true,
	domain.ActionTypeRebalance: true,
	domain.ActionTypeCashOut:   true,
}

// Record validates and appends one transaction. Both action columns must be
// parseable (or the no-action sentinel); an entry that cannot be replayed
// later is rejected now. The returned transaction carries its assigned id.
func (s *LedgerService) Record(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if !validActionTypes[tx.ActionType] {
		return tx, fmt.Errorf("ledger_service: unknown action type %q", tx.ActionType)
	}

	if tx.Asset1Action == "" {
		tx.Asset1Action = domain.NoAction
	}
	if tx.Asset2Action == "" {
		tx.Asset2Action = domain.NoAction
	}
	if _, _, err := ledger.ParseAction(tx.Asset1Action); err != nil {
		return tx, fmt.Errorf("ledger_service: asset1_action: %w", err)
	}
	if _, _, err := ledger.ParseAction(tx.Asset2Action); err != nil {
		return tx, fmt.Errorf("ledger_service: asset2_action: %w", err)
	}

	if tx.Date.IsZero() {
		tx.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}

	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return tx, fmt.Errorf("ledger_service: %w: append: %v", domain.ErrStoreUnavailable, err)
	}
	tx.ID = id

	s.logger.InfoContext(ctx, "ledger_service: transaction recorded",
		slog.Int64("id", id),
		slog.String("action_type", string(tx.ActionType)),
	)
	return tx, nil
}

// List returns the full transaction log in insertion order.
func (s *LedgerService) List(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger_service: %w: list: %v", domain.ErrStoreUnavailable, err)
	}
	return txs, nil
}

// Holdings reconstructs current asset quantities by replaying the full log,
// then attaches the caller-supplied deployable cash. Skipped rows are
// surfaced in the replay result, not hidden.
func (s *LedgerService) Holdings(ctx context.Context, cash float64) (domain.Holdings, domain.ReplayResult, error) {
	txs, err := s.store.ListAll(ctx)
	if err != nil {
		return domain.Holdings{}, domain.ReplayResult{},
			fmt.Errorf("ledger_service: %w: list for replay: %v", domain.ErrStoreUnavailable, err)
	}

	res := ledger.Replay(txs)
	if len(res.Skipped) > 0 {
		s.logger.WarnContext(ctx, "ledger_service: replay skipped malformed rows",
			slog.Int("skipped", len(res.Skipped)),
			slog.Int("rows", res.Rows),
		)
	}

	return domain.Holdings{
		Asset1Qty: res.Asset1Qty,
		Asset2Qty: res.Asset2Qty,
		Cash:      cash,
	}, res, nil
}

// Archive snapshots the full log to object storage, keyed by today's date.
func (s *LedgerService) Archive(ctx context.Context) (int64, string, error) {
	if s.archiver == nil {
		return 0, "", fmt.Errorf("ledger_service: archiving is not configured")
	}
	count, path, err := s.archiver.Archive(ctx, time.Now().UTC())
	if err != nil {
		return 0, "", fmt.Errorf("ledger_service: archive: %w", err)
	}
	s.logger.InfoContext(ctx, "ledger_service: ledger archived",
		slog.Int64("count", count),
		slog.String("path", path),
	)
	return count, path, nil
}

// ImportLegacy loads a legacy CSV export from object storage into the log.
func (s *LedgerService) ImportLegacy(ctx context.Context, path string) (domain.ImportResult, error) {
	if s.importer == nil {
		return domain.ImportResult{}, fmt.Errorf("ledger_service: legacy import is not configured")
	}
	res, err := s.importer.Import(ctx, path)
	if err != nil {
		return res, fmt.Errorf("ledger_service: import legacy: %w", err)
	}
	s.logger.InfoContext(ctx, "ledger_service: legacy ledger imported",
		slog.String("path", path),
		slog.Int("imported", res.Imported),
		slog.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}
