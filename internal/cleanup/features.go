package cleanup

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/studyforge/studyforge/internal/document"
)

var (
	brokenWordRe = regexp.MustCompile(`\b[a-zA-Z] [a-zA-Z] [a-zA-Z]\b`)
	confusionRe  = regexp.MustCompile(`[0-9][lO]|[lO][0-9]`)
)

// NoiseRatio is the density of characters that are neither word
// characters, whitespace, nor common punctuation.
func NoiseRatio(text string) float64 {
	if text == "" {
		return 0
	}
	total, noise := 0, 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(`.,;:!?'"()[]-–—/%&`, r) {
			continue
		}
		noise++
	}
	return document.Clip01(float64(noise) / float64(total))
}

// OCRArtifactScore estimates how much OCR damage the text carries: pipe
// characters from table borders, broken single-letter-space word runs,
// and l/1 and O/0 confusions adjacent to digits.
func OCRArtifactScore(text string) float64 {
	if text == "" {
		return 0
	}
	chars := float64(len([]rune(text)))

	pipeDensity := float64(strings.Count(text, "|")) / chars
	broken := float64(len(brokenWordRe.FindAllString(text, -1)))
	confusions := float64(len(confusionRe.FindAllString(text, -1)))

	score := 0.4*document.Clip01(pipeDensity*50) +
		0.3*document.Clip01(broken/20) +
		0.3*document.Clip01(confusions/20)
	return document.Clip01(score)
}

// duplicateLineRatio is the fraction of line occurrences that belong to
// lines repeated dedupeThreshold+ times.
func duplicateLineRatio(text string) float64 {
	counts := make(map[string]int)
	total := 0
	for _, line := range strings.Split(text, "\n") {
		if key := strings.TrimSpace(line); key != "" {
			counts[key]++
			total++
		}
	}
	if total == 0 {
		return 0
	}
	dup := 0
	for _, c := range counts {
		if c >= dedupeThreshold {
			dup += c
		}
	}
	return document.Clip01(float64(dup) / float64(total))
}

// AnalyzeText computes the four confidence features directly from raw
// text. Used by the effort classifier when no cleanup run has produced
// metadata for the document.
func AnalyzeText(text string) document.ConfidenceMetadata {
	return document.ConfidenceMetadata{
		NoiseRatio:       NoiseRatio(text),
		DuplicateRatio:   duplicateLineRatio(text),
		NonEnglishRatio:  document.Clip01(1 - LatinRatio(text)),
		OCRArtifactScore: OCRArtifactScore(text),
	}
}
