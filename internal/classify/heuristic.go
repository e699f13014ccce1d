// Package classify assigns each page a content-taxonomy tag. A pure
// heuristic cascade runs first; pages it cannot settle are escalated in
// batches to the external model, whose verdict only wins on strictly
// higher confidence. The filtering stage then removes non-content pages,
// with recovery policies for degenerate outcomes.
package classify

import (
	"log/slog"

	"github.com/studyforge/studyforge/internal/document"
)

// Outcome is one classifier verdict. A confident outcome stands alone; an
// outcome that requires review is a best guess the AI escalation path may
// overwrite.
type Outcome struct {
	Classification  document.PageClassification
	Confidence      float64
	MatchedKeywords []string

	needsReview  bool
	reviewReason string
}

// Confident builds a verdict that needs no escalation.
func Confident(class document.PageClassification, confidence float64, keywords []string) Outcome {
	return Outcome{Classification: class, Confidence: confidence, MatchedKeywords: keywords}
}

// NeedsReview builds a verdict flagged for AI escalation, with the reason
// the detector was unsure.
func NeedsReview(class document.PageClassification, confidence float64, keywords []string, reason string) Outcome {
	return Outcome{
		Classification:  class,
		Confidence:      confidence,
		MatchedKeywords: keywords,
		needsReview:     true,
		reviewReason:    reason,
	}
}

// RequiresReview reports whether the verdict should be escalated.
func (o Outcome) RequiresReview() bool { return o.needsReview }

// ReviewReason explains why the verdict was flagged.
func (o Outcome) ReviewReason() string { return o.reviewReason }

// detector inspects one page and returns a verdict, or nil to let the
// cascade fall through.
type detector struct {
	name string
	fn   func(page document.Page, totalPages int) *Outcome
}

// cascade order encodes precedence: a page matched by an earlier detector
// is never checked by a later one.
var cascade = []detector{
	{"blank", detectBlank},
	{"cover", detectCover},
	{"toc", detectTOC},
	{"quiz", detectQuiz},
	{"objectives", detectObjectives},
	{"outline", detectOutline},
	{"review", detectReview},
}

// ClassifyPage runs the detector cascade over one page. When no detector
// fires, the page defaults to content at 0.6 confidence, flagged for
// review.
func ClassifyPage(page document.Page, totalPages int) Outcome {
	for _, d := range cascade {
		if out := runDetector(d, page, totalPages); out != nil {
			return *out
		}
	}
	return NeedsReview(document.ClassContent, 0.6, nil, "no detector matched")
}

// runDetector isolates detector panics: a failing detector falls through
// instead of aborting the cascade.
func runDetector(d detector, page document.Page, totalPages int) (out *Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("page detector panicked",
				"detector", d.name,
				"page", page.PageNumber,
				"panic", r)
			out = nil
		}
	}()
	return d.fn(page, totalPages)
}

// Result of heuristic classification over a whole document.
type Result struct {
	Metadata []document.PageMetadata

	// NeedsReview holds indexes into Metadata flagged for escalation.
	NeedsReview []int
}

// ClassifyPages classifies every page heuristically.
func ClassifyPages(pages []document.Page) *Result {
	res := &Result{Metadata: make([]document.PageMetadata, len(pages))}
	for i, page := range pages {
		out := ClassifyPage(page, len(pages))
		res.Metadata[i] = document.NewPageMetadata(
			page, out.Classification, out.Confidence, document.DetectionHeuristic, out.MatchedKeywords)
		if out.RequiresReview() {
			res.NeedsReview = append(res.NeedsReview, i)
		}
	}
	return res
}
