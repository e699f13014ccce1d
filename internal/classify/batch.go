package classify

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
	// batchSize caps how many flagged pages ride in one model call.
	batchSize = 10

	// previewLimit truncates page content in the prompt.
	previewLimit = 400
)

// BatchClassifier escalates review-flagged pages to the external model in
// fixed-size batches. Escalation is best effort: a failed batch leaves the
// heuristic verdicts standing.
type BatchClassifier struct {
	orch   *orchestrator.Orchestrator
	logger *slog.Logger
}

// NewBatchClassifier creates a BatchClassifier.
func NewBatchClassifier(orch *orchestrator.Orchestrator, logger *slog.Logger) *BatchClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchClassifier{orch: orch, logger: logger}
}

// Attribution ties escalation calls to a document for telemetry.
type Attribution struct {
	DocumentID string
	UserID     string
}

// aiVerdict is one row of the model's JSON response. Rows map to batch
// pages by position.
type aiVerdict struct {
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

// Escalate re-classifies the pages listed in res.NeedsReview and merges AI
// verdicts into res.Metadata where the model is strictly more confident.
// Returns how many pages an AI verdict actually replaced.
func (b *BatchClassifier) Escalate(ctx context.Context, pages []document.Page, res *Result, attr Attribution) int {
	if len(res.NeedsReview) == 0 {
		return 0
	}

	used := 0
	for start := 0; start < len(res.NeedsReview); start += batchSize {
		end := start + batchSize
		if end > len(res.NeedsReview) {
			end = len(res.NeedsReview)
		}
		batch := res.NeedsReview[start:end]

		verdicts, err := b.classifyBatch(ctx, pages, res, batch, attr)
		if err != nil {
			b.logger.Warn("batch classification failed, keeping heuristic verdicts",
				"document_id", attr.DocumentID,
				"batch_start", start,
				"batch_size", len(batch),
				"error", err)
			continue
		}
		used += mergeVerdicts(res, batch, verdicts)
	}
	return used
}

func (b *BatchClassifier) classifyBatch(ctx context.Context, pages []document.Page, res *Result, batch []int, attr Attribution) ([]aiVerdict, error) {
	prompt := buildBatchPrompt(pages, res, batch)

	resp, err := b.orch.Call(ctx, orchestrator.CallOptions{
		Task:             router.TaskPageClassify,
		Parts:            []genai.Part{genai.TextPart(prompt)},
		ResponseMIMEType: "application/json",
		EffortText:       prompt,
		DocumentID:       attr.DocumentID,
		UserID:           attr.UserID,
	})
	if err != nil {
		return nil, err
	}

	raw, err := parseJSONResponse(resp.Text)
	if err != nil {
		return nil, err
	}
	if err := validateBatchResponse(raw, len(batch)); err != nil {
		return nil, err
	}

	var verdicts []aiVerdict
	if err := json.Unmarshal(raw, &verdicts); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}
	return verdicts, nil
}

// mergeVerdicts applies AI verdicts to the flagged pages by position. A
// verdict wins only on strictly greater confidence than the standing
// heuristic one. Out-of-taxonomy classes coerce to content; out-of-range
// confidence to 0.5.
func mergeVerdicts(res *Result, batch []int, verdicts []aiVerdict) int {
	used := 0
	for pos, idx := range batch {
		if pos >= len(verdicts) {
			break
		}
		meta := &res.Metadata[idx]
		v := verdicts[pos]

		class, known := document.ParseClassification(v.Classification)
		if !known {
			class = document.ClassContent
		}
		conf := v.Confidence
		if conf < 0 || conf > 1 {
			conf = 0.5
		}

		if conf > meta.Confidence {
			meta.SetClassification(class, conf, document.DetectionAI)
			used++
		}
	}
	return used
}

// positionLabel names where a page sits in the document; a coarse signal
// the model weighs instead of the raw page number.
func positionLabel(pageNumber, totalPages int) string {
	if totalPages <= 0 {
		return "unknown"
	}
	ratio := float64(pageNumber) / float64(totalPages)
	switch {
	case ratio < 0.15:
		return "beginning"
	case ratio < 0.35:
		return "early"
	case ratio < 0.7:
		return "middle"
	case ratio < 0.9:
		return "late"
	default:
		return "end"
	}
}

func preview(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= previewLimit {
		return content
	}
	return content[:previewLimit] + "..."
}

func buildBatchPrompt(pages []document.Page, res *Result, batch []int) string {
	var sb strings.Builder
	sb.WriteString(`Classify each page of an educational document into exactly one category:
content, cover, toc, outline, objectives, review, quiz, blank.

Category meanings:
- content: instructional material worth studying
- cover: title page with course or institution information
- toc: table of contents
- outline: agenda or topic listing without substance
- objectives: learning objectives or outcomes listing
- review: recap or summary of earlier material
- quiz: questions, exercises, or assessments
- blank: empty or near-empty page

Respond with ONLY a JSON array with exactly one object per page, in page
order, in the form:
[{"classification": "content", "confidence": 0.9, "reasoning": "short explanation"}]

Pages:
`)
	total := len(res.Metadata)
	for _, idx := range batch {
		page := pages[idx]
		meta := res.Metadata[idx]
		fmt.Fprintf(&sb, "\n--- page %d (position: %s, initial guess: %s) ---\n%s\n",
			page.PageNumber, positionLabel(page.PageNumber, total), meta.Classification, preview(page.Content))
	}
	return sb.String()
}

// parseJSONResponse recovers a JSON payload from model output, stripping
// markdown fences and surrounding prose.
func parseJSONResponse(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty classification response")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start >= 0 && end > start {
		candidates = append(candidates, content[start:end+1])
	}

	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			normalized, mErr := json.Marshal(parsed)
			if mErr != nil {
				return nil, mErr
			}
			return normalized, nil
		}
	}
	return nil, fmt.Errorf("no valid JSON in classification response")
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// validateBatchResponse checks the response against a schema sized to the
// batch: an array of verdict objects, exactly one per flagged page.
func validateBatchResponse(raw json.RawMessage, batchLen int) error {
	schemaDoc := fmt.Sprintf(`{
		"type": "array",
		"minItems": %d,
		"maxItems": %d,
		"items": {
			"type": "object",
			"required": ["classification", "confidence"],
			"properties": {
				"classification": {"type": "string"},
				"confidence": {"type": "number"},
				"reasoning": {"type": "string"}
			}
		}
	}`, batchLen, batchLen)

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("batch.json", bytes.NewReader([]byte(schemaDoc))); err != nil {
		return fmt.Errorf("load batch schema: %w", err)
	}
	schema, err := compiler.Compile("batch.json")
	if err != nil {
		return fmt.Errorf("compile batch schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode batch response: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("batch response does not match schema: %w", err)
	}
	return nil
}
