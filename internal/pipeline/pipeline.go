// Package pipeline runs a document end to end: extraction, classification,
// filtering, cleanup, topic extraction, and the final store write. Each
// stage transition is persisted so callers can watch progress; a stage
// failure marks the document failed with the stage name.
package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/studyforge/studyforge/internal/classify"
	"github.com/studyforge/studyforge/internal/cleanup"
	"github.com/studyforge/studyforge/internal/document"
	"github.com/studyforge/studyforge/internal/extract"
	"github.com/studyforge/studyforge/internal/genai"
	"github.com/studyforge/studyforge/internal/orchestrator"
	"github.com/studyforge/studyforge/internal/router"
	"github.com/studyforge/studyforge/internal/storage"
	"github.com/studyforge/studyforge/internal/topics"
)

// Stage names recorded on failure.
const (
	stageExtraction = "extraction"
	stageFiltering  = "filtering"
	stageFinalize   = "finalize"
)

// Request identifies one document to process. Exactly one of FilePath and
// PDFBase64 must be set; DocumentID is generated when empty.
type Request struct {
	DocumentID string
	UserID     string
	BatchID    string
	FilePath   string
	PDFBase64  string
}

// CleanedData is the cleanup stage's contribution to the final result.
type CleanedData struct {
	Text                    string                      `json:"text"`
	Confidence              document.ConfidenceMetadata `json:"confidence"`
	HeaderFooterLines       int                         `json:"header_footer_lines"`
	DuplicateLinesRemoved   int                         `json:"duplicate_lines_removed"`
	BoilerplateLinesRemoved int                         `json:"boilerplate_lines_removed"`
	LanguageFiltered        int                         `json:"language_filtered"`
}

// Result is the final payload written to the store for a ready document.
type Result struct {
	ExtractedText     string                  `json:"extracted_text"`
	CleanedData       CleanedData             `json:"cleaned_data"`
	Topics            []string                `json:"topics"`
	PageCount         int                     `json:"page_count"`
	OriginalPageCount int                     `json:"original_page_count"`
	FilteredPageCount int                     `json:"filtered_page_count"`
	PageMetadata      []document.PageMetadata `json:"page_metadata"`

	AIClassificationsUsed int `json:"ai_classifications_used"`
}

// Extractor turns PDF bytes into pages. Satisfied by extract.Extractor.
type Extractor interface {
	ExtractPages(ctx context.Context, req extract.Request) (*extract.Result, error)
}

// Config assembles a Pipeline.
type Config struct {
	Extractor  Extractor
	Classifier *classify.BatchClassifier
	Cleaner    *cleanup.Cleaner
	Topics     *topics.Extractor
	Orch       *orchestrator.Orchestrator
	Store      storage.Store

	// Restructure enables the optional LLM pass over cleaned text.
	Restructure bool

	Logger *slog.Logger
}

// Pipeline processes documents.
type Pipeline struct {
	extractor   Extractor
	classifier  *classify.BatchClassifier
	cleaner     *cleanup.Cleaner
	topics      *topics.Extractor
	orch        *orchestrator.Orchestrator
	store       storage.Store
	restructure bool
	logger      *slog.Logger
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		extractor:   cfg.Extractor,
		classifier:  cfg.Classifier,
		cleaner:     cfg.Cleaner,
		topics:      cfg.Topics,
		orch:        cfg.Orch,
		store:       cfg.Store,
		restructure: cfg.Restructure,
		logger:      cfg.Logger,
	}
}

// Process runs the document through every stage and writes the final
// result. The returned Result is also persisted; on stage failure the
// document is marked failed with the stage name and the stage error is
// returned.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	if req.DocumentID == "" {
		req.DocumentID = uuid.NewString()
	}

	pdf, err := p.loadPDF(req)
	if err != nil {
		p.fail(ctx, req.DocumentID, stageExtraction, err)
		return nil, err
	}

	p.setStatus(ctx, req.DocumentID, storage.StatusProcessing)

	// Extraction.
	p.setStatus(ctx, req.DocumentID, storage.StatusExtracting)
	extracted, err := p.extractor.ExtractPages(ctx, extract.Request{
		PDF:        pdf,
		DocumentID: req.DocumentID,
		UserID:     req.UserID,
	})
	if err != nil {
		p.fail(ctx, req.DocumentID, stageExtraction, err)
		return nil, err
	}

	// Classification and filtering.
	p.setStatus(ctx, req.DocumentID, storage.StatusFiltering)
	heuristic := classify.ClassifyPages(extracted.Pages)
	aiUsed := 0
	if p.classifier != nil {
		aiUsed = p.classifier.Escalate(ctx, extracted.Pages, heuristic, classify.Attribution{
			DocumentID: req.DocumentID,
			UserID:     req.UserID,
		})
	}
	filtered, err := classify.FilterPages(extracted.Pages, heuristic.Metadata, p.logger)
	if err != nil {
		p.fail(ctx, req.DocumentID, stageFiltering, err)
		return nil, err
	}

	// Cleanup and analysis.
	p.setStatus(ctx, req.DocumentID, storage.StatusAnalyzing)
	cleaned := p.cleaner.Clean(filtered.Kept)
	text := document.AssemblePages(cleaned.Pages)
	if p.restructure {
		text = p.restructureText(ctx, req, text)
	}

	var topicList []string
	if p.topics != nil {
		topicList, err = p.topics.Extract(ctx, topics.Request{
			Text:       text,
			Confidence: &cleaned.Confidence,
			DocumentID: req.DocumentID,
			UserID:     req.UserID,
		})
		if err != nil {
			p.logger.Warn("topic extraction failed, continuing without topics",
				"document_id", req.DocumentID,
				"error", err)
			topicList = nil
		}
	}

	// Finalize.
	p.setStatus(ctx, req.DocumentID, storage.StatusFinalizing)
	result := &Result{
		ExtractedText: filtered.Text(),
		CleanedData: CleanedData{
			Text:                    text,
			Confidence:              cleaned.Confidence,
			HeaderFooterLines:       cleaned.HeaderFooterLines,
			DuplicateLinesRemoved:   cleaned.DuplicateLinesRemoved,
			BoilerplateLinesRemoved: cleaned.BoilerplateLinesRemoved,
			LanguageFiltered:        cleaned.LanguageFiltered,
		},
		Topics:                topicList,
		PageCount:             len(filtered.Kept),
		OriginalPageCount:     extracted.TotalPages,
		FilteredPageCount:     extracted.TotalPages - len(filtered.Kept),
		PageMetadata:          filtered.Metadata,
		AIClassificationsUsed: aiUsed,
	}

	payload, err := json.Marshal(result)
	if err != nil {
		p.fail(ctx, req.DocumentID, stageFinalize, err)
		return nil, fmt.Errorf("encode result: %w", err)
	}
	if err := p.storeWrite(ctx, func(ctx context.Context) error {
		return p.store.SaveResult(ctx, req.DocumentID, payload)
	}); err != nil {
		p.fail(ctx, req.DocumentID, stageFinalize, err)
		return nil, fmt.Errorf("save result: %w", err)
	}
	p.setStatus(ctx, req.DocumentID, storage.StatusReady)

	p.logger.Info("document ready",
		"document_id", req.DocumentID,
		"pages_kept", result.PageCount,
		"pages_filtered", result.FilteredPageCount,
		"topics", len(result.Topics),
		"ai_classifications", aiUsed)

	return result, nil
}

func (p *Pipeline) loadPDF(req Request) ([]byte, error) {
	switch {
	case req.FilePath != "":
		data, err := os.ReadFile(req.FilePath)
		if err != nil {
			return nil, fmt.Errorf("read document file: %w", err)
		}
		return data, nil
	case req.PDFBase64 != "":
		data, err := base64.StdEncoding.DecodeString(req.PDFBase64)
		if err != nil {
			return nil, fmt.Errorf("decode document payload: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("no document provided")
	}
}

// restructureText runs the optional LLM pass over cleaned text. Failure
// falls back to the local assembly.
func (p *Pipeline) restructureText(ctx context.Context, req Request, text string) string {
	if p.orch == nil {
		return text
	}

	prompt := `Reformat this study text for readability. Fix broken line wraps,
merge split paragraphs, and normalize list markers. Do not summarize,
reorder, or drop any content. Keep the "--- Page N ---" separators.

` + text

	resp, err := p.orch.Call(ctx, orchestrator.CallOptions{
		Task:       router.TaskDocumentRestructure,
		Parts:      []genai.Part{genai.TextPart(prompt)},
		EffortText: text,
		DocumentID: req.DocumentID,
		UserID:     req.UserID,
	})
	if err != nil {
		p.logger.Warn("restructure pass failed, keeping local assembly",
			"document_id", req.DocumentID,
			"error", err)
		return text
	}
	if out := resp.Text; out != "" {
		return out
	}
	return text
}

// storeWrite retries a store call a few times with a short delay. The
// store is a remote collaborator in production; brief write hiccups should
// not fail a document.
func (p *Pipeline) storeWrite(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(
		func() error { return fn(ctx) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

// setStatus persists a lifecycle transition. Failures are logged and
// swallowed: losing a progress update must not fail the document.
func (p *Pipeline) setStatus(ctx context.Context, documentID string, status storage.Status) {
	err := p.storeWrite(ctx, func(ctx context.Context) error {
		return p.store.UpdateStatus(ctx, documentID, status)
	})
	if err != nil {
		p.logger.Warn("status update failed",
			"document_id", documentID,
			"status", status,
			"error", err)
	}
}

// fail marks the document failed at the named stage.
func (p *Pipeline) fail(ctx context.Context, documentID, stage string, cause error) {
	err := p.storeWrite(ctx, func(ctx context.Context) error {
		return p.store.MarkFailed(ctx, documentID, storage.Failure{
			Message: cause.Error(),
			Stage:   stage,
		})
	})
	if err != nil {
		p.logger.Warn("failure update failed",
			"document_id", documentID,
			"stage", stage,
			"error", err)
	}
}
