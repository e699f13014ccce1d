// Package document defines the core data model shared by every pipeline
// stage: extracted pages, the page classification taxonomy, per-page
// classification metadata, and document quality features.
package document

import "unicode/utf8"

// Page is one extracted page of a source document. Pages are treated as
// values: stages copy on transform and never mutate a Page in place across
// a stage boundary.
type Page struct {
	PageNumber     int    `json:"page_number"`
	Content        string `json:"content"`
	CharacterCount int    `json:"character_count"`
}

// NewPage builds a Page with its character count populated.
func NewPage(number int, content string) Page {
	return Page{
		PageNumber:     number,
		Content:        content,
		CharacterCount: utf8.RuneCountInString(content),
	}
}

// WithContent returns a copy of the page carrying new content and an
// updated character count.
func (p Page) WithContent(content string) Page {
	p.Content = content
	p.CharacterCount = utf8.RuneCountInString(content)
	return p
}

// TotalCharacters sums the character counts of all pages.
func TotalCharacters(pages []Page) int {
	total := 0
	for _, p := range pages {
		total += p.CharacterCount
	}
	return total
}
