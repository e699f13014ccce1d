package document

import (
	"fmt"
	"strings"
)

// AssemblePages joins pages into one string with per-page separator
// markers, the canonical downstream text format.
func AssemblePages(pages []Page) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "--- Page %d ---\n", p.PageNumber)
		b.WriteString(p.Content)
	}
	return b.String()
}
