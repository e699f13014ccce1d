package document

// PageClassification tags a page with its role in the source document.
// Only "content" pages survive filtering; everything else is
// administrative or structural boilerplate.
type PageClassification string

const (
	ClassContent    PageClassification = "content"
	ClassCover      PageClassification = "cover"
	ClassTOC        PageClassification = "toc"
	ClassOutline    PageClassification = "outline"
	ClassObjectives PageClassification = "objectives"
	ClassReview     PageClassification = "review"
	ClassQuiz       PageClassification = "quiz"
	ClassBlank      PageClassification = "blank"
	ClassUnknown    PageClassification = "unknown"
)

// filteredTypes are the classifications removed by the filtering stage.
var filteredTypes = map[PageClassification]bool{
	ClassCover:      true,
	ClassTOC:        true,
	ClassOutline:    true,
	ClassObjectives: true,
	ClassReview:     true,
	ClassQuiz:       true,
	ClassBlank:      true,
}

// IsFiltered reports whether pages with this classification are removed
// by the filtering stage.
func (c PageClassification) IsFiltered() bool {
	return filteredTypes[c]
}

// ParseClassification maps a raw string onto the taxonomy. Unrecognized
// values report ok=false; callers coerce those to ClassContent.
func ParseClassification(s string) (PageClassification, bool) {
	switch PageClassification(s) {
	case ClassContent, ClassCover, ClassTOC, ClassOutline,
		ClassObjectives, ClassReview, ClassQuiz, ClassBlank, ClassUnknown:
		return PageClassification(s), true
	}
	return ClassContent, false
}
