package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store persists telemetry records. Implementations must treat records as
// append-only; nothing in this subsystem updates or deletes them.
type Store interface {
	Append(ctx context.Context, rec Record) error
}

// MemoryStore keeps records in memory. Used by tests and the CLI summary.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

// Append adds a record.
func (s *MemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of all stored records.
func (s *MemoryStore) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// FileStore appends records as JSON lines to a local file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a JSONL-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Append writes one record as a JSON line.
func (s *FileStore) Append(_ context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write telemetry record: %w", err)
	}
	return nil
}

// Verify interfaces
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
)
