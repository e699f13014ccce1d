package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// HTTPConfig configures the HTTP client for the generation service.
type HTTPConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// HTTPClient implements Client over the generateContent REST endpoint.
type HTTPClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the generation service.
func NewHTTPClient(cfg HTTPConfig) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 300 * time.Second
	}
	return &HTTPClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Generate issues a single generateContent request. There is no local
// retry loop: transient failures surface as *APIError and the caller
// advances its fallback chain.
func (c *HTTPClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	body := generateContentRequest{
		Contents:         []content{{Parts: req.Parts}},
		GenerationConfig: &req.Config,
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			apiErr.Message = errResp.Error.Message
			apiErr.Status = errResp.Error.Status
		}
		return nil, apiErr
	}

	var gcResp generateContentResponse
	if err := json.Unmarshal(respBody, &gcResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(gcResp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	var text strings.Builder
	for _, part := range gcResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	out := &Response{Text: text.String()}
	if gcResp.UsageMetadata != nil {
		out.Usage = *gcResp.UsageMetadata
	}
	return out, nil
}

// Wire types for the generateContent endpoint.

type generateContentRequest struct {
	Contents         []content       `json:"contents"`
	GenerationConfig *GenerateConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []Part `json:"parts"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *Usage `json:"usageMetadata,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Verify interface
var _ Client = (*HTTPClient)(nil)
