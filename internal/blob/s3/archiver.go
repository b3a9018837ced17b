package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// LedgerArchiver snapshots the full transaction log to object storage as
// newline-delimited JSON. The primary store is never modified; the archive is
// a backup, not a compaction.
type LedgerArchiver struct {
	writer domain.BlobWriter
	store  domain.TransactionStore
}

// NewLedgerArchiver creates a LedgerArchiver.
func NewLedgerArchiver(writer domain.BlobWriter, store domain.TransactionStore) *LedgerArchiver {
	return &LedgerArchiver{writer: writer, store: store}
}

// Archive serializes every logged transaction to JSONL and uploads the file
// at archive/ledger/YYYY-MM-DD.jsonl, keyed by asOf. Archiving the same day
// twice overwrites the earlier snapshot. It returns the archived record count
// and the object path.
func (a *LedgerArchiver) Archive(ctx context.Context, asOf time.Time) (int64, string, error) {
	txs, err := a.store.ListAll(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("s3blob: archive ledger query: %w", err)
	}

	buf, err := marshalJSONL(txs)
	if err != nil {
		return 0, "", fmt.Errorf("s3blob: archive ledger marshal: %w", err)
	}

	path := archivePath(asOf)
	if int64(len(buf)) >= multipartThreshold {
		err = a.writer.PutMultipart(ctx, path, bytes.NewReader(buf), 0)
	} else {
		err = a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson")
	}
	if err != nil {
		return 0, "", fmt.Errorf("s3blob: archive ledger upload: %w", err)
	}

	return int64(len(txs)), path, nil
}

// multipartThreshold is the snapshot size above which the archiver switches
// to a multipart upload.
const multipartThreshold int64 = 8 * 1024 * 1024

// archivePath builds the object key for a ledger snapshot, partitioned by
// calendar day.
//
//	archive/ledger/2026-08-30.jsonl
func archivePath(asOf time.Time) string {
	return fmt.Sprintf("archive/ledger/%s.jsonl", asOf.UTC().Format("2006-01-02"))
}

// marshalJSONL serialises records as newline-delimited JSON, one compact
// line per record.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
