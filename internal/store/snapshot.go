package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"rfm-dash/internal/analytics"
)

// SnapshotFile is the fixed key the processed dataset persists under, so the
// dataset survives navigation between the cleaning and analytics surfaces.
const SnapshotFile = "dataset.json"

// ErrNoDataset signals an operation that needs a loaded dataset on an empty store.
var ErrNoDataset = errors.New("no dataset loaded")

// Snapshot is the on-disk shape of a persisted store state.
type Snapshot struct {
	SavedAt   time.Time                   `json:"saved_at"`
	TimeRange string                      `json:"time_range"`
	Dataset   *analytics.ProcessedDataset `json:"dataset"`
}

// SaveSnapshot persists the current dataset and time range to dir as JSON.
// Writes go through a temp file and an atomic rename so a crash mid-write
// never leaves a torn snapshot. Saving an empty store is a no-op.
func (s *Store) SaveSnapshot(dir string) error {
	s.mu.RLock()
	snap := Snapshot{
		SavedAt:   time.Now(),
		TimeRange: s.timeRange,
		Dataset:   s.data,
	}
	s.mu.RUnlock()

	if snap.Dataset == nil {
		return nil
	}

	path := filepath.Join(dir, SnapshotFile)
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(snap); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	log.Info().Str("path", path).Int("transactions", snap.Dataset.Metrics.TotalTransactions).Msg("Snapshot saved")
	return nil
}

// LoadSnapshot reads a previously saved snapshot from dir and adopts it as the
// current dataset without re-validation, notifying subscribers. A missing
// snapshot file is not an error and leaves the store untouched.
func (s *Store) LoadSnapshot(dir string) error {
	path := filepath.Join(dir, SnapshotFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if snap.Dataset == nil {
		return nil
	}

	s.mu.Lock()
	s.data = snap.Dataset
	if snap.TimeRange != "" {
		s.timeRange = snap.TimeRange
	}
	s.mu.Unlock()
	s.notify()

	log.Info().Str("path", path).Int("transactions", snap.Dataset.Metrics.TotalTransactions).Msg("Snapshot loaded")
	return nil
}
