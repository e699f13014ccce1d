package document

// ConfidenceMetadata summarizes document quality as four features in
// [0,1], computed once per document by the cleanup stage and consumed by
// the effort classifier instead of recomputing features from raw text.
type ConfidenceMetadata struct {
	NoiseRatio       float64 `json:"noise_ratio"`
	DuplicateRatio   float64 `json:"duplicate_ratio"`
	NonEnglishRatio  float64 `json:"non_english_ratio"`
	OCRArtifactScore float64 `json:"ocr_artifact_score"`
}

// Clip01 clamps v to the [0,1] interval.
func Clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
