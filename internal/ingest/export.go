package ingest

import (
	"strconv"
	"strings"
)

// Export renders records back to delimited text using the canonical snake_case
// header names. The three passthrough columns are emitted only when at least
// one record carries a value for them, so re-exports of sparse inputs stay
// compact.
//
// Values are written verbatim with no quoting, matching the parser's embedded
// comma limitation: Parse(Export(records)) reproduces the records as long as
// no field contains a comma. encoding/csv is deliberately not used here, since
// its quoting would produce output the parser cannot read back.
func Export(records []TransactionRecord) string {
	hasName, hasEmail, hasPhone := false, false, false
	for _, r := range records {
		hasName = hasName || r.Name != ""
		hasEmail = hasEmail || r.Email != ""
		hasPhone = hasPhone || r.Phone != ""
	}

	headers := []string{colCustomerID, colDate, colAmount, colCategory, colPayment, colAge, colLocation}
	if hasName {
		headers = append(headers, colName)
	}
	if hasEmail {
		headers = append(headers, colEmail)
	}
	if hasPhone {
		headers = append(headers, colPhone)
	}

	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteByte('\n')

	for _, r := range records {
		row := []string{
			r.CustomerID,
			r.Date,
			strconv.FormatFloat(r.Amount, 'f', -1, 64),
			r.Category,
			r.PaymentMethod,
			strconv.Itoa(r.CustomerAge),
			r.Location,
		}
		if hasName {
			row = append(row, r.Name)
		}
		if hasEmail {
			row = append(row, r.Email)
		}
		if hasPhone {
			row = append(row, r.Phone)
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}

	return b.String()
}
