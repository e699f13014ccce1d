// Package storage defines the document store collaborator the pipeline
// writes status and results to, plus an in-memory implementation for the
// CLI and tests.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Status is a document's position in the processing lifecycle.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusExtracting Status = "extracting"
	StatusFiltering  Status = "filtering"
	StatusAnalyzing  Status = "analyzing"
	StatusFinalizing Status = "finalizing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Failure names what broke and at which stage.
type Failure struct {
	Message string `json:"error_message"`
	Stage   string `json:"error_stage"`
}

// Store is the pipeline's persistence collaborator.
type Store interface {
	UpdateStatus(ctx context.Context, documentID string, status Status) error
	MarkFailed(ctx context.Context, documentID string, failure Failure) error
	SaveResult(ctx context.Context, documentID string, result json.RawMessage) error
}

// DocumentState is one document's stored state.
type DocumentState struct {
	DocumentID string
	Status     Status
	Failure    *Failure
	Result     json.RawMessage
	UpdatedAt  time.Time
}

// MemoryStore keeps document state in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]*DocumentState
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*DocumentState)}
}

func (s *MemoryStore) state(documentID string) *DocumentState {
	st, ok := s.docs[documentID]
	if !ok {
		st = &DocumentState{DocumentID: documentID}
		s.docs[documentID] = st
	}
	return st
}

// UpdateStatus records a lifecycle transition.
func (s *MemoryStore) UpdateStatus(_ context.Context, documentID string, status Status) error {
	if documentID == "" {
		return fmt.Errorf("empty document id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(documentID)
	st.Status = status
	st.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed records a terminal failure with its stage.
func (s *MemoryStore) MarkFailed(_ context.Context, documentID string, failure Failure) error {
	if documentID == "" {
		return fmt.Errorf("empty document id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(documentID)
	st.Status = StatusFailed
	st.Failure = &failure
	st.UpdatedAt = time.Now().UTC()
	return nil
}

// SaveResult stores the final pipeline payload.
func (s *MemoryStore) SaveResult(_ context.Context, documentID string, result json.RawMessage) error {
	if documentID == "" {
		return fmt.Errorf("empty document id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(documentID)
	st.Result = append(json.RawMessage(nil), result...)
	st.UpdatedAt = time.Now().UTC()
	return nil
}

// Get returns a copy of a document's state, or nil when unknown.
func (s *MemoryStore) Get(documentID string) *DocumentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.docs[documentID]
	if !ok {
		return nil
	}
	cp := *st
	return &cp
}
