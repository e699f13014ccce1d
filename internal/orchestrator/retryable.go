package orchestrator

import (
	"errors"
	"strings"

	"github.com/studyforge/studyforge/internal/genai"
)

// retryable reports whether an error should advance the fallback chain.
// Rate limiting and server-side failures qualify; validation and client
// errors fail fast.
func retryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == 429 {
			return true
		}
		if apiErr.StatusCode >= 500 {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"resource exhausted",
		"resource_exhausted",
		"overloaded",
		"429",
		"500",
		"503",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
