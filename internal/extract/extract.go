// Package extract turns raw PDF bytes into an ordered list of per-page
// text blocks via one external model call with a page-marker output
// contract.
package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/studyforge/studyforge/internal/document"
	"github.com/studyforge/studyforge/internal/genai"
	"github.com/studyforge/studyforge/internal/orchestrator"
	"github.com/studyforge/studyforge/internal/router"
)

const (
	pageBreakToken = "---PAGE_BREAK---"

	// minTotalCharacters is the floor below which an extraction is
	// considered empty.
	minTotalCharacters = 100
)

var pageHeaderRe = regexp.MustCompile(`(?m)^\s*PAGE (\d+):\s*`)

// ExtractionError is a validation failure of the extraction contract.
// Never retried: the caller marks the document failed at this stage.
type ExtractionError struct {
	Reason string
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Reason
}

// Request identifies the document to extract.
type Request struct {
	PDF        []byte
	DocumentID string
	UserID     string
}

// Result is a validated extraction.
type Result struct {
	Pages      []document.Page
	TotalPages int
}

// Extractor drives model-based page extraction.
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

// ExtractPages extracts the document's text page by page. The PDF is
// validated locally first; its page count anchors the parse validation.
func (e *Extractor) ExtractPages(ctx context.Context, req Request) (*Result, error) {
	if len(req.PDF) == 0 {
		return nil, &ExtractionError{Reason: "empty PDF payload"}
	}

	expectedPages, err := api.PageCount(bytes.NewReader(req.PDF), nil)
	if err != nil {
		return nil, &ExtractionError{Reason: fmt.Sprintf("invalid PDF: %v", err)}
	}

	resp, err := e.orch.Call(ctx, orchestrator.CallOptions{
		Task: router.TaskTextExtract,
		Parts: []genai.Part{
			genai.TextPart(extractionPrompt),
			genai.BlobPart("application/pdf", base64.StdEncoding.EncodeToString(req.PDF)),
		},
		DocumentID: req.DocumentID,
		UserID:     req.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	result := parseResponse(resp.Text, expectedPages)

	if err := Validate(result); err != nil {
		return nil, err
	}

	e.logger.Info("extraction complete",
		"document_id", req.DocumentID,
		"pages", len(result.Pages),
		"characters", document.TotalCharacters(result.Pages))

	return result, nil
}

// parseResponse splits the model output on the page-break token and
// page-number markers. If no markers appear at all, the whole response
// becomes a single page: a degraded result beats a hard failure.
func parseResponse(text string, expectedPages int) *Result {
	segments := strings.Split(text, pageBreakToken)

	var pages []document.Page
	for _, segment := range segments {
		match := pageHeaderRe.FindStringSubmatchIndex(segment)
		if match == nil {
			continue
		}
		num, err := strconv.Atoi(segment[match[2]:match[3]])
		if err != nil || num < 1 {
			continue
		}
		content := strings.TrimSpace(segment[match[1]:])
		pages = append(pages, document.NewPage(num, content))
	}

	if len(pages) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return &Result{TotalPages: expectedPages}
		}
		return &Result{
			Pages:      []document.Page{document.NewPage(1, trimmed)},
			TotalPages: 1,
		}
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].PageNumber < pages[j].PageNumber
	})

	total := expectedPages
	if total <= 0 {
		total = len(pages)
	}
	return &Result{Pages: pages, TotalPages: total}
}

// Validate enforces the extraction contract: at least one page, a page
// count matching the source document, and a minimum of text overall.
func Validate(res *Result) error {
	if len(res.Pages) == 0 {
		return &ExtractionError{Reason: "no pages extracted"}
	}
	if res.TotalPages != len(res.Pages) {
		return &ExtractionError{
			Reason: fmt.Sprintf("page count mismatch: expected %d, parsed %d", res.TotalPages, len(res.Pages)),
		}
	}
	if total := document.TotalCharacters(res.Pages); total < minTotalCharacters {
		return &ExtractionError{
			Reason: fmt.Sprintf("insufficient text: %d characters (minimum %d)", total, minTotalCharacters),
		}
	}
	return nil
}
