package analytics

import (
	"math"
	"time"

	"rfm-dash/internal/ingest"
)

// Aggregate groups transactions by customer in first-seen order and computes
// each customer's recency/frequency/monetary metrics.
//
// Recency is the minimum day-delta between referenceNow and any of the
// customer's transactions. referenceNow is caller-supplied rather than
// wall-clock so that repeated runs over the same data stay reproducible.
//
// Normalized frequency and monetary are each value divided by the dataset-wide
// maximum of that metric; a zero maximum yields 0 instead of dividing.
func Aggregate(records []ingest.TransactionRecord, referenceNow time.Time) []CustomerMetrics {
	index := make(map[string]int, len(records))
	var customers []CustomerMetrics

	for _, rec := range records {
		days := daysBetween(referenceNow, rec.Date)

		if i, ok := index[rec.CustomerID]; ok {
			c := &customers[i]
			c.Frequency++
			c.Monetary += rec.Amount
			if days < c.Recency {
				c.Recency = days
			}
			c.Transactions = append(c.Transactions, rec)
			continue
		}

		index[rec.CustomerID] = len(customers)
		customers = append(customers, CustomerMetrics{
			CustomerID:   rec.CustomerID,
			Recency:      days,
			Frequency:    1,
			Monetary:     rec.Amount,
			Transactions: []ingest.TransactionRecord{rec},
		})
	}

	maxFrequency, maxMonetary := 0, 0.0
	for _, c := range customers {
		if c.Frequency > maxFrequency {
			maxFrequency = c.Frequency
		}
		if c.Monetary > maxMonetary {
			maxMonetary = c.Monetary
		}
	}

	for i := range customers {
		if maxFrequency > 0 {
			customers[i].NormalizedFrequency = float64(customers[i].Frequency) / float64(maxFrequency)
		}
		if maxMonetary > 0 {
			customers[i].NormalizedMonetary = customers[i].Monetary / maxMonetary
		}
	}

	return customers
}

// daysBetween floors the calendar-day distance from date up to referenceNow.
// A transaction dated after referenceNow comes out negative.
func daysBetween(referenceNow time.Time, date string) int {
	t, err := time.Parse(ingest.DateLayout, date)
	if err != nil {
		return 0
	}
	return int(math.Floor(referenceNow.Sub(t).Hours() / 24))
}
