package analytics

import (
	"rfm-dash/internal/ingest"
)

// CustomerMetrics aggregates one customer's transaction history into the three
// canonical value metrics (recency, frequency, monetary) plus their
// dataset-normalized counterparts.
type CustomerMetrics struct {
	CustomerID          string                     `json:"customer_id"`
	Recency             int                        `json:"recency"` // days since the most recent transaction
	Frequency           int                        `json:"frequency"`
	Monetary            float64                    `json:"monetary"`
	Transactions        []ingest.TransactionRecord `json:"transactions"`
	NormalizedFrequency float64                    `json:"normalized_frequency"` // [0,1]
	NormalizedMonetary  float64                    `json:"normalized_monetary"`  // [0,1]
}

// Segment is one of the four fixed customer-value buckets.
type Segment struct {
	Name         string                     `json:"name"`
	Count        int                        `json:"count"`
	Percentage   float64                    `json:"percentage"` // of total customers
	AvgValue     float64                    `json:"avg_value"`  // mean monetary of members
	Members      []CustomerMetrics          `json:"members"`
	Transactions []ingest.TransactionRecord `json:"transactions"` // flattened member transactions
}

// Metrics holds the portfolio-level totals.
type Metrics struct {
	TotalCustomers    int     `json:"total_customers"`
	TotalTransactions int     `json:"total_transactions"`
	TotalRevenue      float64 `json:"total_revenue"`
	// ConversionRate is a historical misnomer: it is the distinct-customer to
	// transaction concentration ratio, kept under its original name.
	ConversionRate      float64 `json:"conversion_rate"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`
}

// ClusterPoint is one customer positioned for the segmentation scatter chart.
type ClusterPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Segment    string  `json:"segment"`
	CustomerID string  `json:"customer_id"`
}

// TimeSeriesPoint is the per-date revenue and volume rollup.
type TimeSeriesPoint struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// CategoryShare is one category's slice of total revenue.
type CategoryShare struct {
	Name    string  `json:"name"`
	Value   int     `json:"value"` // rounded integer % of total category revenue
	Revenue float64 `json:"revenue"`
}

// CohortPoint is one calendar month in the retention view.
type CohortPoint struct {
	Month     string `json:"month"`
	Retention int    `json:"retention"` // % of the first included month's distinct customers
	Revenue   int    `json:"revenue"`   // in millions, rounded
}

// CLVBucket is one fixed monetary range in the customer-value distribution.
type CLVBucket struct {
	Range      string `json:"range"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// RFMScore holds one segment's normalized 0-100 recency/frequency/monetary scores.
type RFMScore struct {
	Segment   string `json:"segment"`
	Recency   int    `json:"recency"`
	Frequency int    `json:"frequency"`
	Monetary  int    `json:"monetary"`
	Count     int    `json:"count"`
}

// ProcessedDataset is the complete dashboard view-model produced by one
// processing run. It is constructed atomically and never mutated in place:
// any recomputation produces a wholly new dataset.
type ProcessedDataset struct {
	Transactions      []ingest.TransactionRecord `json:"transactions"`
	Metrics           Metrics                    `json:"metrics"`
	Segments          []Segment                  `json:"segments"`
	ClusterPoints     []ClusterPoint             `json:"cluster_points"`
	TimeSeries        []TimeSeriesPoint          `json:"time_series"`
	CategoryBreakdown []CategoryShare            `json:"category_breakdown"`
	CohortRetention   []CohortPoint              `json:"cohort_retention"`
	CLVDistribution   []CLVBucket                `json:"clv_distribution"`
	RFMBySegment      []RFMScore                 `json:"rfm_by_segment"`
}
