package cleanup

import (
	"regexp"
	"strings"

	"github.com/studyforge/studyforge/internal/document"
)

// headerFooterThreshold is the fraction of pages a normalized line must
// appear on to be treated as a repeated header or footer.
const headerFooterThreshold = 0.6

// headerFooterDepth is how many non-empty lines from each page edge are
// considered header/footer candidates.
const headerFooterDepth = 2

var digitsRe = regexp.MustCompile(`\d+`)
var wsRe = regexp.MustCompile(`\s+`)

// normalizeLine lowercases, strips digits, and collapses whitespace so
// that "Page 3 of 12" and "Page 11 of 12" normalize to the same key.
func normalizeLine(line string) string {
	line = strings.ToLower(line)
	line = digitsRe.ReplaceAllString(line, "")
	line = wsRe.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// DetectHeadersFooters finds normalized lines that repeat at page edges
// across the document. Documents with fewer than 3 pages are skipped:
// there is not enough repetition to tell a header from content.
func DetectHeadersFooters(pages []document.Page) map[string]bool {
	flagged := make(map[string]bool)
	if len(pages) < 3 {
		return flagged
	}

	counts := make(map[string]int)
	for _, page := range pages {
		seen := make(map[string]bool)
		for _, line := range edgeLines(page.Content) {
			key := normalizeLine(line)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			counts[key]++
		}
	}

	minPages := int(float64(len(pages)) * headerFooterThreshold)
	if minPages < 2 {
		minPages = 2
	}
	for key, count := range counts {
		if count >= minPages {
			flagged[key] = true
		}
	}
	return flagged
}

// edgeLines returns the first and last headerFooterDepth non-empty lines
// of a page.
func edgeLines(content string) []string {
	var nonEmpty []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	if len(nonEmpty) <= headerFooterDepth*2 {
		return nonEmpty
	}

	edges := make([]string, 0, headerFooterDepth*2)
	edges = append(edges, nonEmpty[:headerFooterDepth]...)
	edges = append(edges, nonEmpty[len(nonEmpty)-headerFooterDepth:]...)
	return edges
}
