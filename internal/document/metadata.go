package document

// DetectionMethod records which classifier produced a verdict.
type DetectionMethod string

const (
	DetectionHeuristic DetectionMethod = "heuristic"
	DetectionAI        DetectionMethod = "ai"
)

// PageMetadata is the classification record for one page. It is created by
// the heuristic classifier and mutated in place by the batch AI classifier
// and by filtering-stage recovery. All classification changes go through
// SetClassification so Filtered can never drift from Classification.
type PageMetadata struct {
	PageNumber      int                `json:"page_number"`
	Classification  PageClassification `json:"classification"`
	Filtered        bool               `json:"filtered"`
	Confidence      float64            `json:"confidence"`
	DetectionMethod DetectionMethod    `json:"detection_method"`
	CharacterCount  int                `json:"character_count"`
	Keywords        []string           `json:"keywords,omitempty"`
}

// NewPageMetadata builds metadata for a page with the given verdict.
func NewPageMetadata(page Page, class PageClassification, confidence float64, method DetectionMethod, keywords []string) PageMetadata {
	m := PageMetadata{
		PageNumber:      page.PageNumber,
		DetectionMethod: method,
		CharacterCount:  page.CharacterCount,
		Keywords:        keywords,
	}
	m.SetClassification(class, confidence, method)
	return m
}

// SetClassification updates the verdict and keeps the Filtered flag in
// lockstep with the classification taxonomy.
func (m *PageMetadata) SetClassification(class PageClassification, confidence float64, method DetectionMethod) {
	m.Classification = class
	m.Confidence = confidence
	m.DetectionMethod = method
	m.Filtered = class.IsFiltered()
}

// AddKeyword appends a keyword tag if not already present.
func (m *PageMetadata) AddKeyword(kw string) {
	for _, existing := range m.Keywords {
		if existing == kw {
			return
		}
	}
	m.Keywords = append(m.Keywords, kw)
}
