package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/studyforge/studyforge/internal/document"
)

// Keyword sets per detector. Matching is case-insensitive substring
// membership; matched keywords are carried into PageMetadata as the
// explainability trail.
var (
	coverKeywords = []string{
		"course", "syllabus", "university", "college", "institute",
		"instructor", "professor", "lecturer", "semester", "term",
		"department", "school of", "presented by", "prepared by",
		"training", "workshop", "module", "academy",
	}
	tocKeywords = []string{
		"table of contents", "contents",
	}
	quizKeywords = []string{
		"quiz", "exam", "multiple choice", "true or false",
		"fill in the blank", "answer key", "test yourself",
		"choose the correct", "short answer", "practice questions",
	}
	objectivesKeywords = []string{
		"learning objectives", "learning outcomes", "objectives",
		"course goals", "by the end of this", "students will be able to",
		"you will be able to",
	}
	outlineKeywords = []string{
		"outline", "agenda", "overview", "topics covered",
		"course schedule", "lecture outline",
	}
	reviewKeywords = []string{
		"review", "summary", "key points", "key takeaways", "recap",
		"in summary", "what we learned", "chapter summary",
	}
)

// Structural patterns.
var (
	dotLeaderRe    = regexp.MustCompile(`(?m)\.{3,}\s*\d+\s*$`)
	trailingNumRe  = regexp.MustCompile(`(?m)\S\s+\d{1,3}\s*$`)
	questionLineRe = regexp.MustCompile(`(?m)^\s*\d{1,3}[.)]\s+`)
	optionLineRe   = regexp.MustCompile(`(?m)^\s*[a-dA-D][.)]\s+`)
	bulletLineRe   = regexp.MustCompile(`(?m)^\s*[-•*]\s+`)
	hierNumberRe   = regexp.MustCompile(`(?m)^\s*\d+(\.\d+)+[.)]?\s+`)
)

// matchKeywords returns the keywords from set present in content
// (already lowercased by callers).
func matchKeywords(lower string, set []string) []string {
	var matched []string
	for _, kw := range set {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func positionRatio(pageNumber, totalPages int) float64 {
	if totalPages <= 0 {
		return 0
	}
	return float64(pageNumber) / float64(totalPages)
}

func nonEmptyLineCount(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// detectBlank fires on pages with little or no text.
func detectBlank(page document.Page, _ int) *Outcome {
	trimmed := strings.TrimSpace(page.Content)
	n := utf8.RuneCountInString(trimmed)
	switch {
	case n == 0:
		out := Confident(document.ClassBlank, 1.0, nil)
		return &out
	case n < 30:
		out := Confident(document.ClassBlank, 0.9, nil)
		return &out
	case n < 80:
		out := NeedsReview(document.ClassBlank, 0.7, nil, "sparse page")
		return &out
	}
	return nil
}

// detectCover fires only on page 1: title pages are short and dense with
// course/institution vocabulary.
func detectCover(page document.Page, _ int) *Outcome {
	if page.PageNumber != 1 {
		return nil
	}
	kw := matchKeywords(strings.ToLower(page.Content), coverKeywords)
	switch {
	case len(kw) >= 3 && page.CharacterCount < 300:
		out := Confident(document.ClassCover, 0.9, kw)
		return &out
	case len(kw) >= 3:
		out := NeedsReview(document.ClassCover, 0.75, kw, "cover keywords on long first page")
		return &out
	case len(kw) == 2 && page.CharacterCount < 400:
		out := NeedsReview(document.ClassCover, 0.7, kw, "few cover keywords")
		return &out
	}
	return nil
}

// detectTOC fires on table-of-contents pages: dot leaders and trailing
// page numbers near the front of the document.
func detectTOC(page document.Page, totalPages int) *Outcome {
	lower := strings.ToLower(page.Content)
	kw := matchKeywords(lower, tocKeywords)
	dotLeaders := len(dotLeaderRe.FindAllString(page.Content, -1))
	trailingNums := len(trailingNumRe.FindAllString(page.Content, -1))
	ratio := positionRatio(page.PageNumber, totalPages)

	switch {
	case len(kw) > 0 && dotLeaders >= 3:
		out := Confident(document.ClassTOC, 0.9, kw)
		return &out
	case dotLeaders >= 5:
		out := Confident(document.ClassTOC, 0.85, append(kw, "dot-leaders"))
		return &out
	case len(kw) > 0 && trailingNums >= 5 && ratio <= 0.25:
		out := NeedsReview(document.ClassTOC, 0.75, kw, "trailing page numbers without dot leaders")
		return &out
	}
	return nil
}

// detectQuiz fires on assessment pages: question vocabulary plus numbered
// questions and lettered options.
func detectQuiz(page document.Page, _ int) *Outcome {
	lower := strings.ToLower(page.Content)
	kw := matchKeywords(lower, quizKeywords)
	questions := len(questionLineRe.FindAllString(page.Content, -1))
	options := len(optionLineRe.FindAllString(page.Content, -1))

	switch {
	case len(kw) >= 2 && options >= 4:
		out := Confident(document.ClassQuiz, 0.9, kw)
		return &out
	case questions >= 5 && options >= 6:
		out := Confident(document.ClassQuiz, 0.85, append(kw, "question-structure"))
		return &out
	case len(kw) >= 1 && questions >= 4:
		out := NeedsReview(document.ClassQuiz, 0.75, kw, "numbered questions without options")
		return &out
	case len(kw) >= 2:
		out := NeedsReview(document.ClassQuiz, 0.65, kw, "quiz vocabulary only")
		return &out
	}
	return nil
}

// detectObjectives fires on learning-objective pages: goal vocabulary
// with bullet structure.
func detectObjectives(page document.Page, _ int) *Outcome {
	lower := strings.ToLower(page.Content)
	kw := matchKeywords(lower, objectivesKeywords)
	bullets := len(bulletLineRe.FindAllString(page.Content, -1))

	strong := strings.Contains(lower, "learning objectives") || strings.Contains(lower, "learning outcomes")
	switch {
	case strong && bullets >= 3:
		out := Confident(document.ClassObjectives, 0.9, kw)
		return &out
	case len(kw) >= 2 && bullets >= 3:
		out := NeedsReview(document.ClassObjectives, 0.75, kw, "objective vocabulary with bullets")
		return &out
	case len(kw) >= 1 && bullets >= 2 && page.CharacterCount < 500:
		out := NeedsReview(document.ClassObjectives, 0.7, kw, "short bulleted goal page")
		return &out
	}
	return nil
}

// detectOutline fires on agenda/outline pages: hierarchical numbering or
// dense bullets under outline vocabulary.
func detectOutline(page document.Page, _ int) *Outcome {
	lower := strings.ToLower(page.Content)
	kw := matchKeywords(lower, outlineKeywords)
	hier := len(hierNumberRe.FindAllString(page.Content, -1))
	bullets := len(bulletLineRe.FindAllString(page.Content, -1))
	lines := nonEmptyLineCount(page.Content)

	bulletDensity := 0.0
	if lines > 0 {
		bulletDensity = float64(bullets) / float64(lines)
	}

	switch {
	case len(kw) >= 1 && hier >= 3:
		out := Confident(document.ClassOutline, 0.85, kw)
		return &out
	case hier >= 6 && page.CharacterCount < 600:
		out := NeedsReview(document.ClassOutline, 0.75, append(kw, "hierarchical-numbering"), "numbering without outline vocabulary")
		return &out
	case len(kw) >= 1 && bulletDensity > 0.5 && lines >= 6:
		out := NeedsReview(document.ClassOutline, 0.7, kw, "bullet-dense page")
		return &out
	}
	return nil
}

// detectReview fires on recap pages, weighted toward the end of the
// document.
func detectReview(page document.Page, totalPages int) *Outcome {
	lower := strings.ToLower(page.Content)
	kw := matchKeywords(lower, reviewKeywords)
	bullets := len(bulletLineRe.FindAllString(page.Content, -1))
	ratio := positionRatio(page.PageNumber, totalPages)

	switch {
	case len(kw) >= 2 && ratio >= 0.8:
		out := Confident(document.ClassReview, 0.85, kw)
		return &out
	case len(kw) >= 1 && ratio >= 0.9 && bullets >= 3:
		out := NeedsReview(document.ClassReview, 0.7, kw, "bulleted recap at document end")
		return &out
	case len(kw) >= 2:
		out := NeedsReview(document.ClassReview, 0.65, kw, "review vocabulary mid-document")
		return &out
	}
	return nil
}
