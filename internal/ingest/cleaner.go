package ingest

import (
	"strings"
	"time"
)

// CleanResult summarizes one cleaning pass over a record set.
type CleanResult struct {
	Records  []TransactionRecord `json:"records"`
	Modified int                 `json:"modified"` // rows changed by at least one fix
}

// Clean normalizes records that arrived through less strict paths (snapshot
// adoption, hand-edited exports). It strips a trailing time component off
// dates, substitutes referenceNow for dates that still fail to parse, and
// backfills the Unknown placeholder for empty categorical fields. Already
// clean records pass through unchanged, so the pass is idempotent.
func Clean(records []TransactionRecord, referenceNow time.Time) CleanResult {
	fallbackDate := referenceNow.Format(DateLayout)

	out := make([]TransactionRecord, len(records))
	modified := 0
	for i, rec := range records {
		fixed := rec

		// "2024-01-15 10:32:00" -> "2024-01-15"
		if idx := strings.IndexByte(fixed.Date, ' '); idx >= 0 {
			fixed.Date = fixed.Date[:idx]
		}
		if !validDate(fixed.Date) {
			fixed.Date = fallbackDate
		}

		if fixed.Amount < 0 {
			fixed.Amount = 0
		}
		if fixed.CustomerAge < 0 {
			fixed.CustomerAge = 0
		}
		fixed.Category = orUnknown(fixed.Category)
		fixed.PaymentMethod = orUnknown(fixed.PaymentMethod)
		fixed.Location = orUnknown(fixed.Location)

		if fixed != rec {
			modified++
		}
		out[i] = fixed
	}

	return CleanResult{Records: out, Modified: modified}
}
