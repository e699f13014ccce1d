package cleanup

import (
	"regexp"
	"strings"

	"github.com/studyforge/studyforge/internal/document"
)

// boilerplatePatterns match lines carrying no educational content:
// copyright and confidentiality notices, draft markers, and page-number
// footers that survived header/footer detection.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^©`),
	regexp.MustCompile(`(?i)^\(c\)\s*\d{4}`),
	regexp.MustCompile(`(?i)^copyright\b`),
	regexp.MustCompile(`(?i)^all rights reserved`),
	regexp.MustCompile(`(?i)^(confidential|proprietary|internal use only|do not distribute)\b`),
	regexp.MustCompile(`(?i)^draft$`),
	regexp.MustCompile(`(?i)^page \d+( of \d+)?$`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^[-–—]\s*\d+\s*[-–—]$`),
}

// isBoilerplateLine reports whether a trimmed line matches a boilerplate
// pattern.
func isBoilerplateLine(line string) bool {
	for _, pat := range boilerplatePatterns {
		if pat.MatchString(line) {
			return true
		}
	}
	return false
}

// RemoveBoilerplate drops boilerplate lines from every page and returns
// the number of lines removed.
func RemoveBoilerplate(pages []document.Page) ([]document.Page, int) {
	removed := 0
	out := make([]document.Page, 0, len(pages))
	for _, page := range pages {
		lines := strings.Split(page.Content, "\n")
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if isBoilerplateLine(strings.TrimSpace(line)) {
				removed++
				continue
			}
			kept = append(kept, line)
		}
		out = append(out, page.WithContent(collapseBlankLines(strings.Join(kept, "\n"))))
	}
	return out, removed
}
