package cleanup

import (
	"strings"
	"unicode"
)

// listMarkers are single characters allowed to stand alone on a line.
var listMarkers = map[rune]bool{
	'-': true, '•': true, '*': true, '>': true, '+': true, '#': true,
}

// CleanPage normalizes one page's text: strips garbage characters,
// collapses repeated-symbol runs, drops stray single-character lines,
// removes detected header/footer lines, and normalizes whitespace.
// headerFooter holds normalized line keys from DetectHeadersFooters.
func CleanPage(content string, headerFooter map[string]bool) string {
	content = stripGarbageRunes(content)
	content = collapseSymbolRuns(content)

	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\t", " ")
		line = strings.TrimSpace(line)

		if isStraySingleChar(line) {
			continue
		}
		if line != "" && headerFooter[normalizeLine(line)] {
			continue
		}
		kept = append(kept, line)
	}

	return collapseBlankLines(strings.Join(kept, "\n"))
}

// stripGarbageRunes removes control characters (except newline and tab)
// and box-drawing/block-element characters that OCR produces from table
// borders and scan artifacts.
func stripGarbageRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			continue
		}
		// Box drawing U+2500–U+257F, block elements U+2580–U+259F.
		if r >= 0x2500 && r <= 0x259F {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapseSymbolRuns shortens runs of 3+ identical symbol characters to
// exactly 3, taming OCR separator noise like "----------------".
func collapseSymbolRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	runLen := 0
	for _, r := range s {
		isSymbol := !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
		if isSymbol && r == prev {
			runLen++
		} else {
			runLen = 1
		}
		prev = r
		if runLen > 3 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isStraySingleChar reports whether a trimmed line is a lone character
// that is neither a list marker nor a digit. Lone digits are left for the
// boilerplate pass, which treats them as page numbers.
func isStraySingleChar(line string) bool {
	runes := []rune(line)
	if len(runes) != 1 {
		return false
	}
	r := runes[0]
	return !listMarkers[r] && !unicode.IsDigit(r)
}

// collapseBlankLines reduces runs of 3+ blank lines to 2 and trims
// leading/trailing blank lines.
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n\n", "\n\n\n")
	}
	return strings.Trim(s, "\n")
}
