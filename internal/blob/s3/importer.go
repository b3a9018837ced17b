package s3blob

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pairdesk/pairtrader/internal/domain"
)

// LegacyImporter loads a transaction log exported as CSV by the old
// spreadsheet-style dashboard and appends its rows to the primary store.
// Header names are normalized through an alias table so exports that predate
// the asset-neutral column names still import cleanly.
type LegacyImporter struct {
	reader domain.BlobReader
	store  domain.TransactionStore
}

// NewLegacyImporter creates a LegacyImporter.
func NewLegacyImporter(reader domain.BlobReader, store domain.TransactionStore) *LegacyImporter {
	return &LegacyImporter{reader: reader, store: store}
}

// columnAliases maps legacy CSV header names to the canonical column names.
// Lookups happen after lowercasing and trimming the header cell.
var columnAliases = map[string]string{
	"gold action":   "asset1_action",
	"silver action": "asset2_action",
	"asset1_act":    "asset1_action",
	"asset2_act":    "asset2_action",
	"action type":   "action_type",
	"z-score":       "z_score",
	"notes":         "note",
}

// dateLayouts are the accepted date formats for the legacy date column.
var dateLayouts = []string{"2006-01-02", "01/02/2006", time.RFC3339}

// Import reads the CSV object at path and appends each parseable row to the
// transaction store. Rows that cannot be parsed are skipped with a recorded
// diagnostic rather than aborting the import. The first record must be a
// header row.
func (li *LegacyImporter) Import(ctx context.Context, path string) (domain.ImportResult, error) {
	var res domain.ImportResult

	body, err := li.reader.Get(ctx, path)
	if err != nil {
		return res, fmt.Errorf("s3blob: import legacy ledger %s: %w", path, err)
	}
	defer body.Close()

	cr := csv.NewReader(body)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return res, fmt.Errorf("s3blob: read legacy header %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[canonicalColumn(name)] = i
	}
	if _, ok := cols["date"]; !ok {
		return res, fmt.Errorf("s3blob: legacy ledger %s has no date column", path)
	}

	for rowNum := int64(2); ; rowNum++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped = append(res.Skipped, domain.SkippedRow{
				TransactionID: rowNum,
				Field:         "row",
				Reason:        err.Error(),
			})
			continue
		}

		tx, perr := parseLegacyRow(cols, record)
		if perr != nil {
			res.Skipped = append(res.Skipped, domain.SkippedRow{
				TransactionID: rowNum,
				Field:         perr.field,
				Value:         perr.value,
				Reason:        perr.reason,
			})
			continue
		}

		if _, err := li.store.Append(ctx, tx); err != nil {
			return res, fmt.Errorf("s3blob: import legacy row %d: %w", rowNum, err)
		}
		res.Imported++
	}

	return res, nil
}

// canonicalColumn normalizes one header cell through the alias table.
func canonicalColumn(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := columnAliases[key]; ok {
		return canonical
	}
	return strings.ReplaceAll(key, " ", "_")
}

type rowError struct {
	field  string
	value  string
	reason string
}

func (e *rowError) Error() string { return e.reason }

func parseLegacyRow(cols map[string]int, record []string) (domain.Transaction, *rowError) {
	cell := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var tx domain.Transaction

	dateStr := cell("date")
	date, ok := parseLegacyDate(dateStr)
	if !ok {
		return tx, &rowError{field: "date", value: dateStr, reason: "unparseable date"}
	}
	tx.Date = date

	tx.ActionType = domain.ActionType(cell("action_type"))
	if tx.ActionType == "" {
		tx.ActionType = domain.ActionTypeRebalance
	}

	if zStr := cell("z_score"); zStr != "" {
		z, err := strconv.ParseFloat(zStr, 64)
		if err != nil {
			return tx, &rowError{field: "z_score", value: zStr, reason: "unparseable z-score"}
		}
		tx.ZScore = z
	}

	tx.Asset1Action = orNoAction(cell("asset1_action"))
	tx.Asset2Action = orNoAction(cell("asset2_action"))
	tx.Note = cell("note")

	return tx, nil
}

func parseLegacyDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func orNoAction(s string) string {
	if s == "" {
		return domain.NoAction
	}
	return s
}
