package s3blob

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// memWriter captures uploads in memory.
type memWriter struct {
	path        string
	contentType string
	data        []byte
}

func (w *memWriter) Put(_ context.Context, path string, data io.Reader, contentType string) error {
	w.path = path
	w.contentType = contentType
	b, err := io.ReadAll(data)
	w.data = b
	return err
}

func (w *memWriter) PutMultipart(ctx context.Context, path string, data io.Reader, _ int64) error {
	return w.Put(ctx, path, data, "")
}

// memStore is an in-memory TransactionStore.
type memStore struct {
	txs []domain.Transaction
}

func (s *memStore) Append(_ context.Context, tx domain.Transaction) (int64, error) {
	tx.ID = int64(len(s.txs) + 1)
	s.txs = append(s.txs, tx)
	return tx.ID, nil
}

func (s *memStore) ListAll(_ context.Context) ([]domain.Transaction, error) {
	return s.txs, nil
}

func (s *memStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.txs)), nil
}

func TestLedgerArchiver(t *testing.T) {
	store := &memStore{txs: []domain.Transaction{
		{ID: 1, ActionType: domain.ActionTypeDCA, Asset1Action: "BUY:1.0", Asset2Action: "-"},
		{ID: 2, ActionType: domain.ActionTypeRebalance, Asset1Action: "SELL:0.5", Asset2Action: "BUY:20.0"},
	}}
	writer := &memWriter{}

	asOf := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	count, path, err := NewLedgerArchiver(writer, store).Archive(context.Background(), asOf)
	require.NoError(t, err)

	assert.Equal(t, int64(2), count)
	assert.Equal(t, "archive/ledger/2026-08-30.jsonl", path)
	assert.Equal(t, path, writer.path)
	assert.Equal(t, "application/x-ndjson", writer.contentType)

	lines := bytes.Split(bytes.TrimSpace(writer.data), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"asset1_action":"BUY:1.0"`)
	assert.Contains(t, string(lines[1]), `"action_type":"Rebalance"`)
}

func TestLedgerArchiverEmptyLog(t *testing.T) {
	writer := &memWriter{}
	count, path, err := NewLedgerArchiver(writer, &memStore{}).Archive(context.Background(), time.Now())
	require.NoError(t, err)

	// An empty snapshot is still written so restores are unambiguous.
	assert.Zero(t, count)
	assert.Equal(t, path, writer.path)
	assert.Empty(t, strings.TrimSpace(string(writer.data)))
}
