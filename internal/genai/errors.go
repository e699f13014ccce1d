package genai

import "fmt"

// APIError is a non-2xx reply from the generation service. The
// orchestrator inspects StatusCode and Status to decide whether the next
// model in the fallback chain should be tried.
type APIError struct {
	StatusCode int
	Status     string // service status token, e.g. "RESOURCE_EXHAUSTED"
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("generation service error (status %d, %s): %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("generation service error (status %d): %s", e.StatusCode, e.Message)
}
