package store

import (
	"testing"
	"time"

	"rfm-dash/internal/analytics"
	"rfm-dash/internal/ingest"
)

var testNow = time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)

func datasetWithDates(dates ...string) *analytics.ProcessedDataset {
	records := make([]ingest.TransactionRecord, len(dates))
	for i, d := range dates {
		records[i] = ingest.TransactionRecord{
			CustomerID:    "C1",
			Date:          d,
			Amount:        100,
			Category:      "Unknown",
			PaymentMethod: "Unknown",
			Location:      "Unknown",
		}
	}
	return analytics.Process(records, testNow)
}

func TestStoreStateMachine(t *testing.T) {
	s := New(testNow)

	if s.HasData() || s.GetData() != nil || s.GetFilteredData() != nil {
		t.Fatal("New store must be empty")
	}
	if s.TimeRange() != DefaultRange {
		t.Errorf("Default range = %q, want %q", s.TimeRange(), DefaultRange)
	}

	first := datasetWithDates("2025-10-01")
	s.SetData(first)
	if !s.HasData() || s.GetData() != first {
		t.Error("SetData must transition to Loaded")
	}

	second := datasetWithDates("2025-10-02")
	s.SetData(second)
	if s.GetData() != second {
		t.Error("SetData on Loaded must replace the dataset")
	}

	s.ClearData()
	if s.HasData() || s.GetData() != nil {
		t.Error("ClearData must transition to Empty")
	}
}

func TestSubscribersNotifiedInOrder(t *testing.T) {
	s := New(testNow)

	var order []string
	s.Subscribe(func() { order = append(order, "first") })
	unsub := s.Subscribe(func() { order = append(order, "second") })
	s.Subscribe(func() { order = append(order, "third") })

	s.SetData(datasetWithDates("2025-10-01"))
	want := []string{"first", "second", "third"}
	if len(order) != 3 || order[0] != want[0] || order[1] != want[1] || order[2] != want[2] {
		t.Fatalf("Notification order = %v, want %v", order, want)
	}

	// Every mutating call notifies; unsubscribed listeners drop out.
	unsub()
	order = nil
	s.SetTimeRange(RangeWeek)
	s.ClearData()
	if len(order) != 4 {
		t.Fatalf("Expected 2 mutations x 2 listeners, got %d calls", len(order))
	}
	for _, name := range order {
		if name == "second" {
			t.Error("Unsubscribed listener was notified")
		}
	}
}

func TestListenersCanRepullState(t *testing.T) {
	s := New(testNow)

	var seen bool
	s.Subscribe(func() {
		// Listeners receive no payload and re-pull through the getters.
		seen = s.HasData()
	})

	s.SetData(datasetWithDates("2025-10-01"))
	if !seen {
		t.Error("Listener could not observe the new state")
	}
}

func TestGetFilteredDataRecomputes(t *testing.T) {
	s := New(testNow)
	// Two recent transactions, one far outside every window.
	ds := datasetWithDates("2025-10-04", "2025-09-30", "2024-01-01")
	s.SetData(ds)

	s.SetTimeRange(RangeMonth)
	filtered := s.GetFilteredData()
	if filtered == ds {
		t.Fatal("Expected a recomputed dataset, got the original")
	}
	if filtered.Metrics.TotalTransactions != 2 {
		t.Errorf("Filtered transactions = %d, want 2", filtered.Metrics.TotalTransactions)
	}

	s.SetTimeRange(RangeDay)
	if got := s.GetFilteredData().Metrics.TotalTransactions; got != 1 {
		t.Errorf("24h window kept %d transactions, want 1", got)
	}
}

func TestGetFilteredDataFallsBackWhenEmpty(t *testing.T) {
	s := New(testNow)
	// Everything is older than the widest window.
	ds := datasetWithDates("2024-01-01", "2024-02-01")
	s.SetData(ds)
	s.SetTimeRange(RangeQuarter)

	if got := s.GetFilteredData(); got != ds {
		t.Error("Zero-match filter must fall back to the unfiltered dataset")
	}
}

func TestRangeDays(t *testing.T) {
	tests := []struct {
		timeRange string
		want      int
	}{
		{RangeDay, 1},
		{RangeWeek, 7},
		{RangeMonth, 30},
		{RangeQuarter, 90},
		{"nonsense", 30},
		{"", 30},
	}

	for _, tt := range tests {
		if got := rangeDays(tt.timeRange); got != tt.want {
			t.Errorf("rangeDays(%q) = %d, want %d", tt.timeRange, got, tt.want)
		}
	}
}
