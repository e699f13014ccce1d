package classify

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/studyforge/studyforge/internal/document"
)

// minFilteredCharacters is the floor on total text surviving filtering.
const minFilteredCharacters = 100

// FilterError means filtering left too little text to work with. Never
// retried: the caller marks the document failed at this stage.
type FilterError struct {
	Reason string
}

func (e *FilterError) Error() string {
	return "filtering failed: " + e.Reason
}

// FilterResult is the outcome of the filtering stage. Metadata covers every
// page of the original document, including the filtered ones.
type FilterResult struct {
	Kept     []document.Page
	Metadata []document.PageMetadata

	// Recovered is true when a recovery policy reclassified pages.
	Recovered bool
}

// Text assembles the kept pages into the document's quiz-ready text.
func (r *FilterResult) Text() string {
	return document.AssemblePages(r.Kept)
}

// FilterPages drops the pages classified as non-content. Two recovery
// policies guard against over-filtering: when every page was filtered, the
// upper half by text volume is reinstated as content; when a short document
// keeps exactly one page, the best low-confidence filtered page joins it.
// Filtering never returns an empty or near-empty document without error.
func FilterPages(pages []document.Page, metadata []document.PageMetadata, logger *slog.Logger) (*FilterResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(pages) != len(metadata) {
		return nil, &FilterError{Reason: fmt.Sprintf("metadata length %d does not match page count %d", len(metadata), len(pages))}
	}

	res := &FilterResult{Metadata: metadata}

	kept := keptIndexes(metadata)

	if len(kept) == 0 && len(pages) > 0 {
		recoverAllFiltered(pages, metadata, logger)
		res.Recovered = true
		kept = keptIndexes(metadata)
	}

	if len(pages) < 5 && len(kept) == 1 {
		if recoverShortDocument(pages, metadata, kept[0], logger) {
			res.Recovered = true
			kept = keptIndexes(metadata)
		}
	}

	for _, idx := range kept {
		res.Kept = append(res.Kept, pages[idx])
	}

	if len(res.Kept) == 0 {
		return nil, &FilterError{Reason: "no pages survived filtering"}
	}
	if total := document.TotalCharacters(res.Kept); total < minFilteredCharacters {
		return nil, &FilterError{
			Reason: fmt.Sprintf("insufficient text after filtering: %d characters (minimum %d)", total, minFilteredCharacters),
		}
	}

	return res, nil
}

func keptIndexes(metadata []document.PageMetadata) []int {
	var kept []int
	for i := range metadata {
		if !metadata[i].Filtered {
			kept = append(kept, i)
		}
	}
	return kept
}

// recoverAllFiltered reinstates the upper half of pages by character count
// when filtering removed everything. Classifiers are wrong more often than
// a document is all boilerplate.
func recoverAllFiltered(pages []document.Page, metadata []document.PageMetadata, logger *slog.Logger) {
	order := make([]int, len(pages))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return pages[order[a]].CharacterCount > pages[order[b]].CharacterCount
	})

	// ceil(n/2)
	keep := (len(pages) + 1) / 2
	for _, idx := range order[:keep] {
		metadata[idx].SetClassification(document.ClassContent, 0.5, metadata[idx].DetectionMethod)
		metadata[idx].AddKeyword("recovered-all-filtered")
	}

	logger.Warn("all pages filtered, recovering by text volume",
		"pages", len(pages),
		"recovered", keep)
}

// recoverShortDocument reinstates the longest low-confidence filtered page
// of a short document that kept only one page. Returns false when no
// filtered page qualifies.
func recoverShortDocument(pages []document.Page, metadata []document.PageMetadata, keptIdx int, logger *slog.Logger) bool {
	best := -1
	for i := range metadata {
		if i == keptIdx || !metadata[i].Filtered {
			continue
		}
		if metadata[i].Confidence >= 0.8 || pages[i].CharacterCount <= 200 {
			continue
		}
		if best == -1 || pages[i].CharacterCount > pages[best].CharacterCount {
			best = i
		}
	}
	if best == -1 {
		return false
	}

	metadata[best].SetClassification(document.ClassContent, 0.5, metadata[best].DetectionMethod)
	metadata[best].AddKeyword("recovered-short-doc")

	logger.Info("short document kept one page, recovering a filtered page",
		"page", pages[best].PageNumber,
		"characters", pages[best].CharacterCount)
	return true
}
