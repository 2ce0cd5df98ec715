// Package store provides durable backends for the observation history.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/JZhaGuo/trafico/core/history"
	"github.com/JZhaGuo/trafico/core/model"
	"github.com/JZhaGuo/trafico/infra/logger"
)

// CSVStore persists the history as two columns, timestamp then state, in the
// layout the upstream feed archives use. Appends write no header; Load skips
// a non-numeric header row if one is present and accepts both the "estado"
// and "state" column spellings.
type CSVStore struct {
	path string
	mu   sync.Mutex
	log  logger.Logger
}

// NewCSVStore creates a store backed by the file at path. The file is created
// lazily on the first append.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path, log: logger.New("csv_store")}
}

// Load reads the full history. A missing file yields an empty history.
func (s *CSVStore) Load() (*history.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return history.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}

	h := history.New()
	for i, rec := range records {
		obs, err := parseRecord(rec)
		if err != nil {
			if i == 0 {
				// Header-tolerant: a non-parsable first row is skipped.
				s.log.Debugf("skipping header row in %s", s.path)
				continue
			}
			return nil, fmt.Errorf("store: %s row %d: %w", s.path, i+1, err)
		}
		h.Append(obs)
	}
	return h, nil
}

// Append durably adds observations to the end of the file, creating it if
// needed. No header is written in append mode.
func (s *CSVStore) Append(obs []model.Observation) error {
	if len(obs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("store: open %s for append: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, o := range obs {
		if err := w.Write(record(o)); err != nil {
			return fmt.Errorf("store: append to %s: %w", s.path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// Persist rewrites the whole file from the history, atomically via a
// temporary file and rename.
func (s *CSVStore) Persist(h *history.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".trafico-*.csv")
	if err != nil {
		return fmt.Errorf("store: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	for _, o := range h.Snapshot() {
		if err := w.Write(record(o)); err != nil {
			tmp.Close()
			return fmt.Errorf("store: write temp: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: flush temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("store: replace %s: %w", s.path, err)
	}
	return nil
}

func record(o model.Observation) []string {
	return []string{o.Timestamp.UTC().Format(time.RFC3339), strconv.Itoa(int(o.State))}
}

func parseRecord(rec []string) (model.Observation, error) {
	if len(rec) < 2 {
		return model.Observation{}, model.SchemaError{Field: "estado"}
	}
	ts, err := model.ParseTimestamp(rec[0])
	if err != nil {
		return model.Observation{}, model.SchemaError{Field: "timestamp"}
	}
	code, err := strconv.Atoi(rec[1])
	if err != nil {
		return model.Observation{}, model.SchemaError{Field: "estado"}
	}
	return model.NewObservation(ts, code)
}
