// Package genai wraps the external multimodal generation service behind a
// small request/response contract. The service is a black box to the rest
// of the pipeline: callers build a content part list plus a config bag and
// get back text with token usage.
package genai

import "context"

// Client issues one generation request. Implementations make exactly one
// attempt per call; fallback across models is owned by the orchestrator.
type Client interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Part is one element of the request content array: text or an inline
// binary payload with a MIME type.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob carries base64-encoded binary data.
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// BlobPart builds an inline binary content part.
func BlobPart(mimeType, base64Data string) Part {
	return Part{InlineData: &Blob{MIMEType: mimeType, Data: base64Data}}
}

// ThinkingConfig adapts the reasoning budget to the model generation
// family. Exactly one of Level or Budget is set; older families take a
// numeric token budget, newer ones a named effort level.
type ThinkingConfig struct {
	Level  string `json:"thinkingLevel,omitempty"`
	Budget *int   `json:"thinkingBudget,omitempty"`
}

// GenerateConfig is the per-call sampling configuration.
type GenerateConfig struct {
	Temperature      float64         `json:"temperature"`
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	MaxOutputTokens  int             `json:"maxOutputTokens,omitempty"`
	Thinking         *ThinkingConfig `json:"thinkingConfig,omitempty"`
}

// Request is one generation request against a named model.
type Request struct {
	Model  string
	Parts  []Part
	Config GenerateConfig
}

// Usage is the token accounting returned by the service.
type Usage struct {
	PromptTokens    int `json:"promptTokenCount"`
	CandidateTokens int `json:"candidatesTokenCount"`
	ThoughtTokens   int `json:"thoughtsTokenCount,omitempty"`
}

// Response is the service reply: concatenated candidate text plus usage.
type Response struct {
	Text  string
	Usage Usage
}
