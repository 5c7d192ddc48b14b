package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse turns raw delimited text into normalized transaction records.
//
// The first line is the header row; field names are matched exactly after
// trimming, with both supported header dialects resolved through the alias
// table. Data rows with fewer values than headers are dropped silently. Rows
// never fail the whole parse: missing or unparsable fields coerce to their
// documented defaults instead.
//
// Quoted fields containing embedded commas are NOT supported. This is a known
// simplification carried over from the source format; the exporter mirrors it.
//
// referenceNow supplies the date substituted for absent or unparsable
// transaction dates, keeping repeated parses of the same text reproducible.
func Parse(text string, referenceNow time.Time) []TransactionRecord {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	headers := strings.Split(lines[0], ",")
	columns := make(map[string]int, len(headers))
	for idx, h := range headers {
		if canonical, ok := headerAliases[strings.TrimSpace(h)]; ok {
			columns[canonical] = idx
		}
	}

	fallbackDate := referenceNow.Format(DateLayout)

	var records []TransactionRecord
	for i := 1; i < len(lines); i++ {
		values := strings.Split(lines[i], ",")
		if len(values) < len(headers) {
			continue // malformed row: drop, keep going
		}
		for j, v := range values {
			values[j] = strings.TrimSpace(v)
		}

		field := func(col string) string {
			if idx, ok := columns[col]; ok && idx < len(values) {
				return values[idx]
			}
			return ""
		}

		rec := TransactionRecord{
			CustomerID:    field(colCustomerID),
			Date:          field(colDate),
			Amount:        parseAmount(field(colAmount)),
			Category:      orUnknown(field(colCategory)),
			PaymentMethod: orUnknown(field(colPayment)),
			CustomerAge:   parseAge(field(colAge)),
			Location:      orUnknown(field(colLocation)),
			Name:          field(colName),
			Email:         field(colEmail),
			Phone:         field(colPhone),
		}

		if rec.CustomerID == "" {
			rec.CustomerID = fmt.Sprintf("CUST%d", i)
		}
		if !validDate(rec.Date) {
			rec.Date = fallbackDate
		}

		records = append(records, rec)
	}

	return records
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseAge(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}
