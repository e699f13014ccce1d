package document

import (
	"strings"
	"testing"
)

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   PageClassification
		wantOK bool
	}{
		{"content", "content", ClassContent, true},
		{"quiz", "quiz", ClassQuiz, true},
		{"blank", "blank", ClassBlank, true},
		{"unrecognized coerces to content", "advertisement", ClassContent, false},
		{"empty coerces to content", "", ClassContent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseClassification(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseClassification(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsFiltered(t *testing.T) {
	if ClassContent.IsFiltered() {
		t.Error("content pages must never be filtered")
	}
	if ClassUnknown.IsFiltered() {
		t.Error("unknown pages must not be filtered")
	}
	for _, c := range []PageClassification{ClassCover, ClassTOC, ClassOutline, ClassObjectives, ClassReview, ClassQuiz, ClassBlank} {
		if !c.IsFiltered() {
			t.Errorf("%s should be filtered", c)
		}
	}
}

func TestSetClassificationKeepsFilteredInLockstep(t *testing.T) {
	meta := NewPageMetadata(NewPage(1, "some text"), ClassContent, 0.6, DetectionHeuristic, nil)
	if meta.Filtered {
		t.Fatal("content page marked filtered")
	}

	meta.SetClassification(ClassQuiz, 0.9, DetectionAI)
	if !meta.Filtered {
		t.Error("quiz page not marked filtered after reclassification")
	}
	if meta.DetectionMethod != DetectionAI {
		t.Errorf("detection method = %s, want ai", meta.DetectionMethod)
	}

	meta.SetClassification(ClassContent, 0.5, DetectionAI)
	if meta.Filtered {
		t.Error("filtered flag not cleared when reclassified to content")
	}
}

func TestNewPageCountsRunes(t *testing.T) {
	p := NewPage(1, "héllo")
	if p.CharacterCount != 5 {
		t.Errorf("CharacterCount = %d, want 5", p.CharacterCount)
	}
}

func TestAssemblePages(t *testing.T) {
	text := AssemblePages([]Page{
		NewPage(1, "first"),
		NewPage(3, "third"),
	})

	if !strings.Contains(text, "--- Page 1 ---\nfirst") {
		t.Errorf("missing page 1 block:\n%s", text)
	}
	if !strings.Contains(text, "--- Page 3 ---\nthird") {
		t.Errorf("missing page 3 block:\n%s", text)
	}
	if strings.Count(text, "--- Page") != 2 {
		t.Errorf("expected 2 separators, got %d", strings.Count(text, "--- Page"))
	}
}
