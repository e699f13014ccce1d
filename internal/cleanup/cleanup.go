// Package cleanup is the local text-normalization pipeline: header/footer
// stripping, garbage-token removal, cross-page line deduplication,
// boilerplate suppression, and a language gate. It also derives the
// document's confidence metadata from before/after text diffs. Every step
// is pure and order-sensitive; running the pipeline on its own output is a
// no-op.
package cleanup

import (
	"log/slog"
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/studyforge/studyforge/internal/document"
)

// Options configures a Cleaner.
type Options struct {
	// MinEnglishRatio for the language gate (default 0.7).
	MinEnglishRatio float64

	// Detector provides the language gate's second opinion. Optional.
	Detector lingua.LanguageDetector

	Logger *slog.Logger
}

// Cleaner runs the five-step cleanup pipeline over a document's pages.
type Cleaner struct {
	minEnglishRatio float64
	detector        lingua.LanguageDetector
	logger          *slog.Logger
}

// New creates a Cleaner.
func New(opts Options) *Cleaner {
	if opts.MinEnglishRatio <= 0 {
		opts.MinEnglishRatio = 0.7
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Cleaner{
		minEnglishRatio: opts.MinEnglishRatio,
		detector:        opts.Detector,
		logger:          opts.Logger,
	}
}

// Result is the outcome of one cleanup run.
type Result struct {
	Pages []document.Page

	HeaderFooterLines       int
	DuplicateLinesRemoved   int
	BoilerplateLinesRemoved int
	LanguageFiltered        int

	Confidence document.ConfidenceMetadata
}

// Clean runs the pipeline: header/footer detection, per-page clean,
// cross-page dedup, boilerplate suppression, language gate.
func (c *Cleaner) Clean(pages []document.Page) *Result {
	original := joinContents(pages)
	totalLinesBefore := countNonEmptyLines(original)

	headerFooter := DetectHeadersFooters(pages)

	cleaned := make([]document.Page, 0, len(pages))
	for _, page := range pages {
		cleaned = append(cleaned, page.WithContent(CleanPage(page.Content, headerFooter)))
	}

	cleaned, dupRemoved := DeduplicateLines(cleaned)
	cleaned, boilerRemoved := RemoveBoilerplate(cleaned)
	cleaned, langFiltered := GateByLanguage(cleaned, c.minEnglishRatio, c.detector)

	dupRatio := 0.0
	if totalLinesBefore > 0 {
		dupRatio = float64(dupRemoved) / float64(totalLinesBefore)
	}

	res := &Result{
		Pages:                   cleaned,
		HeaderFooterLines:       len(headerFooter),
		DuplicateLinesRemoved:   dupRemoved,
		BoilerplateLinesRemoved: boilerRemoved,
		LanguageFiltered:        langFiltered,
		Confidence: document.ConfidenceMetadata{
			NoiseRatio:       NoiseRatio(original),
			DuplicateRatio:   document.Clip01(dupRatio),
			NonEnglishRatio:  document.Clip01(1 - LatinRatio(original)),
			OCRArtifactScore: OCRArtifactScore(original),
		},
	}

	c.logger.Debug("cleanup complete",
		"pages_in", len(pages),
		"pages_out", len(cleaned),
		"duplicate_lines_removed", dupRemoved,
		"boilerplate_lines_removed", boilerRemoved,
		"language_filtered", langFiltered)

	return res
}

func joinContents(pages []document.Page) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n")
}

func countNonEmptyLines(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
