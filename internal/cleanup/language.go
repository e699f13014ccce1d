package cleanup

import (
	"unicode"

	"github.com/pemistahl/lingua-go"

	"github.com/studyforge/studyforge/internal/document"
)

// englishConfidenceFloor is the lingua confidence at which a page that
// fails the Latin-ratio check is kept anyway. Catches pages dense with
// math notation or symbols that are still English prose.
const englishConfidenceFloor = 0.85

// NewEnglishDetector builds a language detector for the gate's second
// opinion. Building loads language models, so share one detector per
// process.
func NewEnglishDetector() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Portuguese,
			lingua.Chinese,
			lingua.Japanese,
			lingua.Korean,
			lingua.Arabic,
			lingua.Russian,
		).
		Build()
}

// LatinRatio returns the fraction of letters in s drawn from the Latin
// script. Text with no letters at all reports 1.0 (nothing to gate on).
func LatinRatio(s string) float64 {
	letters, latin := 0, 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Latin, r) {
			latin++
		}
	}
	if letters == 0 {
		return 1.0
	}
	return float64(latin) / float64(letters)
}

// GateByLanguage drops pages whose Latin-character ratio is below
// minRatio. A nil detector disables the second opinion. If gating would
// drop every page, all pages are returned unchanged: language filtering
// alone must never empty a document.
func GateByLanguage(pages []document.Page, minRatio float64, detector lingua.LanguageDetector) ([]document.Page, int) {
	kept := make([]document.Page, 0, len(pages))
	for _, page := range pages {
		if LatinRatio(page.Content) >= minRatio {
			kept = append(kept, page)
			continue
		}
		if detector != nil {
			if conf := detector.ComputeLanguageConfidence(page.Content, lingua.English); conf >= englishConfidenceFloor {
				kept = append(kept, page)
				continue
			}
		}
	}

	if len(kept) == 0 {
		return pages, 0
	}
	return kept, len(pages) - len(kept)
}
