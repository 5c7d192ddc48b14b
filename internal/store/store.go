package store

import (
	"sync"
	"time"

	"rfm-dash/internal/analytics"
	"rfm-dash/internal/ingest"
)

// Valid time-range filters and the day spans they map to. Unknown ranges fall
// back to 30 days.
const (
	RangeDay     = "24h"
	RangeWeek    = "7d"
	RangeMonth   = "30d"
	RangeQuarter = "90d"

	DefaultRange = RangeMonth
)

func rangeDays(timeRange string) int {
	switch timeRange {
	case RangeDay:
		return 1
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	case RangeQuarter:
		return 90
	default:
		return 30
	}
}

// Store holds at most one processed dataset plus the selected time-range
// filter, and broadcasts every mutation to subscribers synchronously in
// subscription order.
//
// The core pipeline is single-threaded, but the store also backs the HTTP
// surface, so set/clear/range changes run as a read-modify-notify critical
// section under the mutex. Listeners are invoked after the lock is released
// with no payload; they re-pull state through the getters.
type Store struct {
	mu           sync.RWMutex
	data         *analytics.ProcessedDataset
	timeRange    string
	referenceNow time.Time

	nextListenerID int
	listeners      []storeListener
}

type storeListener struct {
	id int
	fn func()
}

// New creates an empty store. referenceNow is the fixed instant used for
// recency and time-range filtering instead of the wall clock, so filtered
// views stay reproducible.
func New(referenceNow time.Time) *Store {
	return &Store{
		timeRange:    DefaultRange,
		referenceNow: referenceNow,
	}
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners = append(s.listeners, storeListener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	snapshot := make([]func(), len(s.listeners))
	for i, l := range s.listeners {
		snapshot[i] = l.fn
	}
	s.mu.RUnlock()

	for _, fn := range snapshot {
		fn()
	}
}

// SetData replaces any held dataset, transitioning the store to Loaded.
func (s *Store) SetData(data *analytics.ProcessedDataset) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	s.notify()
}

// GetData returns the held dataset, or nil when the store is empty.
func (s *Store) GetData() *analytics.ProcessedDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// HasData reports whether a dataset is loaded.
func (s *Store) HasData() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// ClearData drops the held dataset, transitioning the store to Empty.
func (s *Store) ClearData() {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	s.notify()
}

// SetTimeRange changes the filter selection. It does not recompute anything
// itself; recomputation is pull-based through GetFilteredData.
func (s *Store) SetTimeRange(timeRange string) {
	s.mu.Lock()
	s.timeRange = timeRange
	s.mu.Unlock()
	s.notify()
}

// TimeRange returns the selected filter.
func (s *Store) TimeRange() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeRange
}

// ReferenceNow returns the store's fixed reference instant.
func (s *Store) ReferenceNow() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.referenceNow
}

// GetFilteredData filters the held raw transactions to those dated within
// [referenceNow - rangeDays, referenceNow] and re-runs the full pipeline on
// the subset. A filter that matches zero transactions falls back to the
// original unfiltered dataset rather than presenting a blank dashboard.
// Returns nil when the store is empty.
func (s *Store) GetFilteredData() *analytics.ProcessedDataset {
	s.mu.RLock()
	data := s.data
	timeRange := s.timeRange
	referenceNow := s.referenceNow
	s.mu.RUnlock()

	if data == nil {
		return nil
	}

	cutoff := referenceNow.AddDate(0, 0, -rangeDays(timeRange))
	cutoffDate := cutoff.Format(ingest.DateLayout)
	nowDate := referenceNow.Format(ingest.DateLayout)

	subset := data.Transactions[:0:0]
	for _, rec := range data.Transactions {
		if rec.Date >= cutoffDate && rec.Date <= nowDate {
			subset = append(subset, rec)
		}
	}

	if len(subset) == 0 {
		return data
	}
	return analytics.Process(subset, referenceNow)
}
