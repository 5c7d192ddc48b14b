package analytics

import (
	"time"

	"github.com/rs/zerolog/log"

	"rfm-dash/internal/ingest"
)

// Process runs the full aggregation pipeline over a set of transaction records
// and assembles the dashboard view-model: per-customer rollup, segmentation,
// and every derived analytics series. The run is synchronous and total: it
// never fails partway, and an empty input produces a dataset of defined zeros.
//
// referenceNow anchors every recency and day-delta computation so that
// processing the same records twice yields identical datasets.
func Process(records []ingest.TransactionRecord, referenceNow time.Time) *ProcessedDataset {
	customers := Aggregate(records, referenceNow)
	segments := SegmentCustomers(customers)

	ds := &ProcessedDataset{
		Transactions:      records,
		Metrics:           Totals(records, customers),
		Segments:          segments,
		ClusterPoints:     ClusterPoints(customers, segments),
		TimeSeries:        TimeSeries(records),
		CategoryBreakdown: CategoryBreakdown(records),
		CohortRetention:   CohortRetention(records),
		CLVDistribution:   CLVDistribution(customers),
		RFMBySegment:      RFMBySegment(segments, customers),
	}

	log.Debug().
		Int("transactions", ds.Metrics.TotalTransactions).
		Int("customers", ds.Metrics.TotalCustomers).
		Float64("revenue", ds.Metrics.TotalRevenue).
		Time("referenceNow", referenceNow).
		Msg("Processed dataset")

	return ds
}
