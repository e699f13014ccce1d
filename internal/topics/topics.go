// Package topics extracts a flat list of study topics from cleaned
// document text. Best effort: callers treat failure as an empty list.
package topics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/studyforge/studyforge/internal/document"
	"github.com/studyforge/studyforge/internal/genai"
	"github.com/studyforge/studyforge/internal/orchestrator"
	"github.com/studyforge/studyforge/internal/router"
)

const (
	maxTopics = 20

	// promptTextLimit truncates document text in the prompt.
	promptTextLimit = 24000
)

const topicSchema = `{
	"type": "array",
	"minItems": 1,
	"maxItems": 20,
	"items": {"type": "string", "minLength": 1}
}`

// Extractor drives the topic extraction call.
type Extractor struct {
	orch   *orchestrator.Orchestrator
	logger *slog.Logger
}

// New creates an Extractor.
func New(orch *orchestrator.Orchestrator, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{orch: orch, logger: logger}
}

// Request carries the cleaned text and telemetry attribution.
type Request struct {
	Text       string
	Confidence *document.ConfidenceMetadata
	DocumentID string
	UserID     string
}

// Extract asks the model for the document's main topics as a JSON string
// array, validated against a fixed schema.
func (e *Extractor) Extract(ctx context.Context, req Request) ([]string, error) {
	text := req.Text
	if len(text) > promptTextLimit {
		text = text[:promptTextLimit]
	}

	prompt := fmt.Sprintf(`List the main topics covered by this study document.

Rules:
- Each topic is a short noun phrase (2-6 words).
- At most %d topics, most important first.
- Respond with ONLY a JSON array of strings, e.g. ["photosynthesis", "cell respiration"].

Document:
%s`, maxTopics, text)

	resp, err := e.orch.Call(ctx, orchestrator.CallOptions{
		Task:             router.TaskTopicExtract,
		Parts:            []genai.Part{genai.TextPart(prompt)},
		ResponseMIMEType: "application/json",
		Confidence:       req.Confidence,
		EffortText:       text,
		DocumentID:       req.DocumentID,
		UserID:           req.UserID,
	})
	if err != nil {
		return nil, err
	}

	topics, err := parseTopics(resp.Text)
	if err != nil {
		return nil, err
	}

	e.logger.Info("topics extracted",
		"document_id", req.DocumentID,
		"count", len(topics))
	return topics, nil
}

func parseTopics(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start >= 0 && end > start {
		content = content[start : end+1]
	}

	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("decode topic response: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("topics.json", bytes.NewReader([]byte(topicSchema))); err != nil {
		return nil, fmt.Errorf("load topic schema: %w", err)
	}
	schema, err := compiler.Compile("topics.json")
	if err != nil {
		return nil, fmt.Errorf("compile topic schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("topic response does not match schema: %w", err)
	}

	raw := doc.([]any)
	topics := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := strings.TrimSpace(item.(string)); s != "" {
			topics = append(topics, s)
		}
	}
	return topics, nil
}
