package cleanup

import (
	"strings"

	"github.com/studyforge/studyforge/internal/document"
)

// dedupeThreshold is the document-wide occurrence count at which a line
// is considered repeated noise and removed everywhere.
const dedupeThreshold = 3

// DeduplicateLines removes every occurrence of any trimmed, non-empty
// line that appears dedupeThreshold or more times anywhere in the
// document. The returned count is total occurrences removed, not unique
// lines.
func DeduplicateLines(pages []document.Page) ([]document.Page, int) {
	counts := make(map[string]int)
	for _, page := range pages {
		for _, line := range strings.Split(page.Content, "\n") {
			if key := strings.TrimSpace(line); key != "" {
				counts[key]++
			}
		}
	}

	removed := 0
	out := make([]document.Page, 0, len(pages))
	for _, page := range pages {
		lines := strings.Split(page.Content, "\n")
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			key := strings.TrimSpace(line)
			if key != "" && counts[key] >= dedupeThreshold {
				removed++
				continue
			}
			kept = append(kept, line)
		}
		out = append(out, page.WithContent(collapseBlankLines(strings.Join(kept, "\n"))))
	}
	return out, removed
}
