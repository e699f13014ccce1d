// Package telemetry records one row per external model call attempt:
// token usage, latency, and estimated cost. Records are append-only and
// written through a fire-and-forget sink, so a telemetry failure can never
// fail the request that produced it.
package telemetry

import (
	"time"

	"github.com/google/uuid"
)

// Status of one call attempt.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Record is one call attempt. A logical request that walks a 3-model
// fallback chain produces 3 records with AttemptNumber 1..3.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	TaskType string `json:"task_type"`
	ModelID  string `json:"model_id"`
	Effort   string `json:"effort"`

	InputTokens    int `json:"input_tokens"`
	OutputTokens   int `json:"output_tokens"`
	ThinkingTokens int `json:"thinking_tokens"`

	// EstimatedCostUSD is nil for models missing from the price table.
	EstimatedCostUSD *float64 `json:"estimated_cost_usd"`
	PricingVersion   string   `json:"pricing_version"`

	LatencyMs     int    `json:"latency_ms"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message,omitempty"`
	AttemptNumber int    `json:"attempt_number"`

	// Attribution (all optional)
	DocumentID string `json:"document_id,omitempty"`
	QuizID     string `json:"quiz_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}

// Stamp fills the record ID and timestamp if unset.
func (r *Record) Stamp() {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
}
