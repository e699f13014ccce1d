// Package effort scores a document/task pair into a low/medium/high
// reasoning-budget tier. The score is a cost/quality dial for the
// downstream model call, not a correctness gate.
package effort

import (
	"github.com/studyforge/studyforge/internal/cleanup"
	"github.com/studyforge/studyforge/internal/document"
	"github.com/studyforge/studyforge/internal/router"
)

// Tier is the reasoning-budget level granted to a model call.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Feature weights. Task criticality dominates; the four document-quality
// features share the rest.
const (
	weightNoise       = 0.2
	weightDuplicate   = 0.15
	weightNonEnglish  = 0.15
	weightOCRArtifact = 0.2
	weightCriticality = 0.3
)

// Tier thresholds on the weighted score.
const (
	lowCeiling    = 0.35
	mediumCeiling = 0.65
)

// criticality is the fixed per-task constant: how much a wrong answer
// costs downstream.
var criticality = map[router.Task]float64{
	router.TaskQuizGenerate:        0.8,
	router.TaskTopicExtract:        0.6,
	router.TaskDocumentRestructure: 0.5,
	router.TaskTextExtract:         0.4,
	router.TaskPageClassify:        0.2,
}

// defaultCriticality is used for tasks missing from the table.
const defaultCriticality = 0.5

// Features are the weighted inputs behind a classification.
type Features struct {
	NoiseRatio       float64 `json:"noise_ratio"`
	DuplicateRatio   float64 `json:"duplicate_ratio"`
	NonEnglishRatio  float64 `json:"non_english_ratio"`
	OCRArtifactScore float64 `json:"ocr_artifact_score"`
	TaskCriticality  float64 `json:"task_criticality"`
}

// Classification is the ephemeral result of one effort scoring.
type Classification struct {
	Effort   Tier     `json:"effort"`
	Score    float64  `json:"score"`
	Features Features `json:"features"`
}

// Classify scores a task against document quality. Pass precomputed
// confidence metadata when a cleanup run has produced it; otherwise the
// four features are computed inline from rawText.
func Classify(task router.Task, meta *document.ConfidenceMetadata, rawText string) Classification {
	var cm document.ConfidenceMetadata
	if meta != nil {
		cm = *meta
	} else {
		cm = cleanup.AnalyzeText(rawText)
	}

	crit, ok := criticality[task]
	if !ok {
		crit = defaultCriticality
	}

	features := Features{
		NoiseRatio:       cm.NoiseRatio,
		DuplicateRatio:   cm.DuplicateRatio,
		NonEnglishRatio:  cm.NonEnglishRatio,
		OCRArtifactScore: cm.OCRArtifactScore,
		TaskCriticality:  crit,
	}

	score := weightNoise*features.NoiseRatio +
		weightDuplicate*features.DuplicateRatio +
		weightNonEnglish*features.NonEnglishRatio +
		weightOCRArtifact*features.OCRArtifactScore +
		weightCriticality*features.TaskCriticality

	return Classification{
		Effort:   tierFor(score),
		Score:    score,
		Features: features,
	}
}

func tierFor(score float64) Tier {
	switch {
	case score < lowCeiling:
		return TierLow
	case score < mediumCeiling:
		return TierMedium
	default:
		return TierHigh
	}
}
