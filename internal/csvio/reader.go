// Package csvio adapts the delimited input stream to typed records and
// renders the final account report.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/acch-2/toy-pay/internal/common"
	"github.com/acch-2/toy-pay/internal/models"
)

// Reader decodes input rows into models.Record values. Rows that cannot be
// decoded (unknown kind, out-of-range ids, unparseable or negative amount)
// are dropped, matching the tolerant posture of the ledger itself: bad
// input degrades observability, not the run.
type Reader struct {
	csv     *csv.Reader
	logger  *common.Logger
	skipped int
}

// NewReader wraps r and consumes the mandatory header row.
func NewReader(r io.Reader, logger *common.Logger) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // dispute/resolve/chargeback rows may omit the amount column
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return &Reader{csv: cr, logger: logger}, nil
}

// Next returns the next well-formed record, or io.EOF when the stream is
// exhausted. Malformed rows are skipped and counted.
func (r *Reader) Next() (models.Record, error) {
	for {
		row, err := r.csv.Read()
		if err == io.EOF {
			return models.Record{}, io.EOF
		}
		if err != nil {
			return models.Record{}, fmt.Errorf("failed to read row: %w", err)
		}

		rec, ok := r.parse(row)
		if !ok {
			r.skipped++
			r.logger.Debug().Strs("row", row).Msg("Skipping malformed row")
			continue
		}
		return rec, nil
	}
}

// Skipped returns the number of rows dropped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

func (r *Reader) parse(row []string) (models.Record, bool) {
	if len(row) < 3 {
		return models.Record{}, false
	}

	kind := models.RecordKind(strings.ToLower(strings.TrimSpace(row[0])))
	if !models.ValidRecordKind(kind) {
		return models.Record{}, false
	}

	client, err := strconv.ParseUint(strings.TrimSpace(row[1]), 10, 16)
	if err != nil {
		return models.Record{}, false
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(row[2]), 10, 32)
	if err != nil {
		return models.Record{}, false
	}

	rec := models.Record{
		Kind:   kind,
		Client: uint16(client),
		Tx:     uint32(tx),
	}

	if len(row) >= 4 {
		if field := strings.TrimSpace(row[3]); field != "" {
			amount, err := decimal.NewFromString(field)
			if err != nil || amount.IsNegative() {
				return models.Record{}, false
			}
			rec.Amount = &amount
		}
	}

	return rec, true
}
