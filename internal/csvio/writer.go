package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/acch-2/toy-pay/internal/interfaces"
)

// scale is the fixed fractional precision of rendered balances.
const scale = 4

// Write renders every account as one CSV row, sorted by client id.
func Write(w io.Writer, src interfaces.AccountSource) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, snap := range src.Snapshots() {
		row := []string{
			strconv.FormatUint(uint64(snap.Client), 10),
			snap.Available.StringFixed(scale),
			snap.Held.StringFixed(scale),
			snap.Total.StringFixed(scale),
			strconv.FormatBool(snap.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for client %d: %w", snap.Client, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
