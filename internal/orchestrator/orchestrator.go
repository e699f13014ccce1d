// Package orchestrator is the single choke point for external model
// calls. Every call is effort-classified, routed to a model chain, given
// a family-appropriate thinking budget, recorded in telemetry, and walked
// down the fallback chain on retryable failures.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studyforge/studyforge/internal/document"
	"github.com/studyforge/studyforge/internal/effort"
	"github.com/studyforge/studyforge/internal/genai"
	"github.com/studyforge/studyforge/internal/pricing"
	"github.com/studyforge/studyforge/internal/router"
	"github.com/studyforge/studyforge/internal/telemetry"
)

// Orchestrator wraps a generation client with routing, effort
// classification, fallback, and telemetry.
type Orchestrator struct {
	client genai.Client
	router *router.Router
	sink   *telemetry.Sink
	prices *pricing.Table
	logger *slog.Logger
}

// Config assembles an Orchestrator.
type Config struct {
	Client genai.Client
	Router *router.Router
	Sink   *telemetry.Sink
	Prices *pricing.Table
	Logger *slog.Logger
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	if cfg.Prices == nil {
		cfg.Prices = pricing.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Orchestrator{
		client: cfg.Client,
		router: cfg.Router,
		sink:   cfg.Sink,
		prices: cfg.Prices,
		logger: cfg.Logger,
	}
}

// CallOptions describe one logical request.
type CallOptions struct {
	Task  router.Task
	Parts []genai.Part

	// ResponseMIMEType requests structured output (e.g. "application/json").
	ResponseMIMEType string

	// Confidence, when available from a cleanup run, feeds the effort
	// classifier directly. Otherwise features come from EffortText.
	Confidence *document.ConfidenceMetadata
	EffortText string

	// Attribution for telemetry (all optional).
	DocumentID string
	QuizID     string
	UserID     string
}

// Call runs one logical request through the fallback chain. Each model in
// the chain is tried at most once; the chain advances only on retryable
// errors. There is no backoff between attempts.
func (o *Orchestrator) Call(ctx context.Context, opts CallOptions) (*genai.Response, error) {
	class := effort.Classify(opts.Task, opts.Confidence, opts.EffortText)
	resolved := o.router.Resolve(opts.Task)
	chain := o.router.FallbackChain(opts.Task)

	o.logger.Debug("model call",
		"task", opts.Task,
		"effort", class.Effort,
		"model", resolved.ModelID,
		"model_source", resolved.Source,
		"chain_length", len(chain))

	var lastErr error
	for attempt, model := range chain {
		req := &genai.Request{
			Model: model,
			Parts: opts.Parts,
			Config: genai.GenerateConfig{
				Temperature:      resolved.Temperature,
				ResponseMIMEType: opts.ResponseMIMEType,
				Thinking:         thinkingConfigFor(model, class.Effort),
			},
		}

		start := time.Now()
		resp, err := o.client.Generate(ctx, req)
		latency := time.Since(start)

		if err == nil {
			o.record(opts, class, model, attempt+1, resp, latency, nil)
			return resp, nil
		}

		o.record(opts, class, model, attempt+1, nil, latency, err)
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		if attempt == len(chain)-1 {
			break
		}
		o.logger.Warn("model call failed, trying next in chain",
			"task", opts.Task,
			"model", model,
			"next", chain[attempt+1],
			"error", err)
	}

	return nil, fmt.Errorf("all models in fallback chain failed for task %s: %w", opts.Task, lastErr)
}

// record emits one telemetry row for a call attempt. Fire-and-forget: the
// sink swallows persistence failures.
func (o *Orchestrator) record(opts CallOptions, class effort.Classification, model string, attempt int, resp *genai.Response, latency time.Duration, callErr error) {
	if o.sink == nil {
		return
	}

	rec := telemetry.Record{
		TaskType:       string(opts.Task),
		ModelID:        model,
		Effort:         string(class.Effort),
		LatencyMs:      int(latency.Milliseconds()),
		AttemptNumber:  attempt,
		PricingVersion: o.prices.Version,
		DocumentID:     opts.DocumentID,
		QuizID:         opts.QuizID,
		UserID:         opts.UserID,
	}

	if callErr != nil {
		rec.Status = telemetry.StatusError
		rec.ErrorMessage = callErr.Error()
	} else {
		rec.Status = telemetry.StatusSuccess
		rec.InputTokens = resp.Usage.PromptTokens
		rec.OutputTokens = resp.Usage.CandidateTokens
		rec.ThinkingTokens = resp.Usage.ThoughtTokens
		rec.EstimatedCostUSD = o.prices.Cost(model, rec.InputTokens, rec.OutputTokens, rec.ThinkingTokens)
	}

	o.sink.Send(rec)
}
