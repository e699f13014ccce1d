package orchestrator

import (
	"strings"

	"github.com/studyforge/studyforge/internal/effort"
	"github.com/studyforge/studyforge/internal/genai"
)

// thinkingBudgets are the numeric token budgets for model families that
// take a budget rather than a named level.
var thinkingBudgets = map[effort.Tier]int{
	effort.TierLow:    512,
	effort.TierMedium: 2048,
	effort.TierHigh:   8192,
}

// thinkingConfigFor adapts the effort tier to the model's generation
// family: newer families take a named level, older ones a numeric token
// budget, and unrecognized families get no thinking field at all.
func thinkingConfigFor(model string, tier effort.Tier) *genai.ThinkingConfig {
	switch {
	case strings.HasPrefix(model, "gemini-3"):
		return &genai.ThinkingConfig{Level: string(tier)}
	case strings.HasPrefix(model, "gemini-2.5"):
		budget := thinkingBudgets[tier]
		return &genai.ThinkingConfig{Budget: &budget}
	default:
		return nil
	}
}
