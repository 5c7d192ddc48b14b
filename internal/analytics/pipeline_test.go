package analytics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"rfm-dash/internal/analytics"
	"rfm-dash/internal/ingest"
)

// End-to-end run over the bundled sample dataset: 20 transactions across 10
// customers, January through May 2024, in the Indonesian header dialect.
func TestProcessSampleDataset(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "sample_transactions.csv"))
	if err != nil {
		t.Fatalf("Failed to read sample dataset: %v", err)
	}

	referenceNow := time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)
	records := ingest.Parse(string(raw), referenceNow)
	if len(records) != 20 {
		t.Fatalf("Expected 20 records, got %d", len(records))
	}

	ds := analytics.Process(records, referenceNow)

	// Portfolio totals
	m := ds.Metrics
	if m.TotalCustomers != 10 || m.TotalTransactions != 20 {
		t.Errorf("Totals = %d customers / %d transactions, want 10/20", m.TotalCustomers, m.TotalTransactions)
	}
	if m.TotalRevenue != 4_385_000 {
		t.Errorf("TotalRevenue = %v, want 4385000", m.TotalRevenue)
	}
	if m.ConversionRate != 50 {
		t.Errorf("ConversionRate = %v, want 50", m.ConversionRate)
	}
	if m.AvgTransactionValue != 219_250 {
		t.Errorf("AvgTransactionValue = %v, want 219250", m.AvgTransactionValue)
	}

	// Segmentation: size = ceil(10/4) = 3, so the remainder segment gets 1.
	wantCounts := []int{3, 3, 3, 1}
	sum := 0
	for i, seg := range ds.Segments {
		if seg.Count != wantCounts[i] {
			t.Errorf("%s count = %d, want %d", seg.Name, seg.Count, wantCounts[i])
		}
		sum += seg.Count
	}
	if sum != m.TotalCustomers {
		t.Errorf("Segment counts sum to %d, want %d", sum, m.TotalCustomers)
	}
	if got := analytics.SegmentOf(ds.Segments, "CUST007"); got != analytics.SegmentHighValue {
		t.Errorf("CUST007 (top spender) in %q, want High Value", got)
	}
	if got := analytics.SegmentOf(ds.Segments, "CUST010"); got != analytics.SegmentPotential {
		t.Errorf("CUST010 (bottom spender) in %q, want Potential", got)
	}

	// Category shares: Elektronik 2.73M, Pakaian 1.02M, Makanan 0.635M.
	if len(ds.CategoryBreakdown) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(ds.CategoryBreakdown))
	}
	if ds.CategoryBreakdown[0].Name != "Elektronik" || ds.CategoryBreakdown[0].Value != 62 {
		t.Errorf("Top category = %+v", ds.CategoryBreakdown[0])
	}

	// Cohorts: Jan baseline of 2 distinct customers.
	wantMonths := []string{"Jan", "Feb", "Mar", "Apr", "Mei"}
	wantRetention := []int{100, 200, 300, 300, 100}
	if len(ds.CohortRetention) != len(wantMonths) {
		t.Fatalf("Expected %d cohort months, got %d", len(wantMonths), len(ds.CohortRetention))
	}
	for i, p := range ds.CohortRetention {
		if p.Month != wantMonths[i] || p.Retention != wantRetention[i] {
			t.Errorf("Cohort %d = %+v, want %s/%d", i, p, wantMonths[i], wantRetention[i])
		}
	}

	// CLV: every customer is below 1M total spend.
	if ds.CLVDistribution[0].Count != 10 || ds.CLVDistribution[0].Percentage != 100 {
		t.Errorf("CLV <1M bucket = %+v", ds.CLVDistribution[0])
	}

	// One scatter point per customer, each tagged with a real segment.
	if len(ds.ClusterPoints) != 10 {
		t.Errorf("Expected 10 cluster points, got %d", len(ds.ClusterPoints))
	}
	for _, p := range ds.ClusterPoints {
		if p.Segment == analytics.SegmentUnknown {
			t.Errorf("Cluster point %s tagged Unknown", p.CustomerID)
		}
	}

	// 20 transactions on 20 distinct dates.
	if len(ds.TimeSeries) != 20 {
		t.Errorf("Expected 20 time-series points, got %d", len(ds.TimeSeries))
	}

	// RFM scores stay on the 0-100 scale with all members accounted for.
	memberSum := 0
	for _, s := range ds.RFMBySegment {
		memberSum += s.Count
		if s.Recency < 0 || s.Recency > 100 || s.Frequency < 0 || s.Frequency > 100 || s.Monetary < 0 || s.Monetary > 100 {
			t.Errorf("RFM score out of range: %+v", s)
		}
	}
	if memberSum != m.TotalCustomers {
		t.Errorf("RFM member counts sum to %d, want %d", memberSum, m.TotalCustomers)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	referenceNow := time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)
	ds := analytics.Process(nil, referenceNow)

	if ds.Metrics.TotalCustomers != 0 || ds.Metrics.TotalTransactions != 0 {
		t.Errorf("Empty run totals = %+v", ds.Metrics)
	}
	if len(ds.Segments) != 4 {
		t.Errorf("Expected 4 (empty) segments, got %d", len(ds.Segments))
	}
	for _, seg := range ds.Segments {
		if seg.Count != 0 || seg.AvgValue != 0 || seg.Percentage != 0 {
			t.Errorf("Empty segment has values: %+v", seg)
		}
	}
}
