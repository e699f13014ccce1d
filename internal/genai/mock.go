package genai

import (
	"context"
	"sync"
)

// MockClient is a Client for testing. Responses are served from a script:
// each call consumes the next entry, and the final entry repeats once the
// script is exhausted. A GenerateFunc overrides the script entirely.
type MockClient struct {
	// GenerateFunc, when set, handles every call.
	GenerateFunc func(ctx context.Context, req *Request) (*Response, error)

	// Script entries consumed in order.
	Script []MockReply

	mu       sync.Mutex
	requests []*Request
}

// MockReply is one scripted response or error.
type MockReply struct {
	Text  string
	Usage Usage
	Err   error
}

// Generate serves the next scripted reply.
func (c *MockClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	idx := len(c.requests) - 1
	c.mu.Unlock()

	if c.GenerateFunc != nil {
		return c.GenerateFunc(ctx, req)
	}

	if len(c.Script) == 0 {
		return &Response{Text: "mock response", Usage: Usage{PromptTokens: 10, CandidateTokens: 5}}, nil
	}
	if idx >= len(c.Script) {
		idx = len(c.Script) - 1
	}
	reply := c.Script[idx]
	if reply.Err != nil {
		return nil, reply.Err
	}
	return &Response{Text: reply.Text, Usage: reply.Usage}, nil
}

// Requests returns a copy of all requests seen so far.
func (c *MockClient) Requests() []*Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Request, len(c.requests))
	copy(out, c.requests)
	return out
}

// CallCount returns the number of Generate calls made.
func (c *MockClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}

// Verify interface
var _ Client = (*MockClient)(nil)
