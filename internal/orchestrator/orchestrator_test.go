package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/effort"
	"github.com/studyforge/studyforge/internal/genai"
	"github.com/studyforge/studyforge/internal/router"
	"github.com/studyforge/studyforge/internal/telemetry"
)

func newTestSink(store *telemetry.MemoryStore) *telemetry.Sink {
	sink := telemetry.NewSink(telemetry.SinkConfig{Store: store, QueueSize: 16})
	sink.Start(context.Background())
	return sink
}

func TestCallSuccessRecordsTelemetry(t *testing.T) {
	store := &telemetry.MemoryStore{}
	sink := newTestSink(store)

	client := &genai.MockClient{Script: []genai.MockReply{
		{Text: "hello", Usage: genai.Usage{PromptTokens: 1_000_000, CandidateTokens: 500_000}},
	}}

	orch := New(Config{
		Client: client,
		Router: router.New(config.ModelsConfig{Default: "gemini-2.5-flash"}),
		Sink:   sink,
	})

	resp, err := orch.Call(context.Background(), CallOptions{
		Task:       router.TaskTopicExtract,
		Parts:      []genai.Part{genai.TextPart("prompt")},
		DocumentID: "doc-1",
	})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if resp.Text != "hello" {
		t.Errorf("text = %q", resp.Text)
	}

	sink.Stop()
	records := store.Records()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}

	rec := records[0]
	if rec.Status != telemetry.StatusSuccess || rec.AttemptNumber != 1 {
		t.Errorf("record = %+v", rec)
	}
	if rec.EstimatedCostUSD == nil {
		t.Fatal("cost missing for priced model")
	}
	// 1M input at $0.30 + 0.5M output at $2.50 = 1.55
	if got := *rec.EstimatedCostUSD; got < 1.54 || got > 1.56 {
		t.Errorf("cost = %f, want ~1.55", got)
	}
	if rec.PricingVersion == "" {
		t.Error("pricing version not stamped")
	}
}

func TestCallFallbackOnRetryableError(t *testing.T) {
	store := &telemetry.MemoryStore{}
	sink := newTestSink(store)

	client := &genai.MockClient{Script: []genai.MockReply{
		{Err: &genai.APIError{StatusCode: 429, Status: "RESOURCE_EXHAUSTED", Message: "slow down"}},
		{Text: "recovered"},
	}}

	orch := New(Config{
		Client: client,
		Router: router.New(config.ModelsConfig{
			Default:   "gemini-2.5-pro",
			Fallbacks: []string{"gemini-2.5-flash"},
		}),
		Sink: sink,
	})

	resp, err := orch.Call(context.Background(), CallOptions{
		Task:  router.TaskQuizGenerate,
		Parts: []genai.Part{genai.TextPart("prompt")},
	})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if resp.Text != "recovered" {
		t.Errorf("text = %q", resp.Text)
	}

	reqs := client.Requests()
	if len(reqs) != 2 || reqs[0].Model != "gemini-2.5-pro" || reqs[1].Model != "gemini-2.5-flash" {
		t.Fatalf("models tried: %v", modelsOf(reqs))
	}

	sink.Stop()
	records := store.Records()
	if len(records) != 2 {
		t.Fatalf("records = %d, want error + success", len(records))
	}
	if records[0].Status != telemetry.StatusError || records[1].Status != telemetry.StatusSuccess {
		t.Errorf("statuses = %s, %s", records[0].Status, records[1].Status)
	}
}

func TestCallChainExhaustion(t *testing.T) {
	store := &telemetry.MemoryStore{}
	sink := newTestSink(store)

	client := &genai.MockClient{Script: []genai.MockReply{
		{Err: &genai.APIError{StatusCode: 503, Message: "overloaded"}},
		{Err: &genai.APIError{StatusCode: 500, Message: "internal"}},
	}}

	orch := New(Config{
		Client: client,
		Router: router.New(config.ModelsConfig{
			Default:   "gemini-2.5-pro",
			Fallbacks: []string{"gemini-2.5-flash"},
		}),
		Sink: sink,
	})

	_, err := orch.Call(context.Background(), CallOptions{
		Task:  router.TaskQuizGenerate,
		Parts: []genai.Part{genai.TextPart("prompt")},
	})
	if err == nil {
		t.Fatal("expected chain exhaustion error")
	}
	if !strings.Contains(err.Error(), "all models in fallback chain failed") {
		t.Errorf("error = %v", err)
	}

	sink.Stop()
	records := store.Records()
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 error rows", len(records))
	}
	for i, rec := range records {
		if rec.Status != telemetry.StatusError {
			t.Errorf("record %d status = %s", i, rec.Status)
		}
		if rec.AttemptNumber != i+1 {
			t.Errorf("record %d attempt = %d, want %d", i, rec.AttemptNumber, i+1)
		}
	}
}

func TestCallNonRetryableFailsFast(t *testing.T) {
	apiErr := &genai.APIError{StatusCode: 400, Message: "bad request"}
	client := &genai.MockClient{Script: []genai.MockReply{{Err: apiErr}}}

	orch := New(Config{
		Client: client,
		Router: router.New(config.ModelsConfig{
			Default:   "gemini-2.5-pro",
			Fallbacks: []string{"gemini-2.5-flash"},
		}),
	})

	_, err := orch.Call(context.Background(), CallOptions{
		Task:  router.TaskQuizGenerate,
		Parts: []genai.Part{genai.TextPart("prompt")},
	})

	var got *genai.APIError
	if !errors.As(err, &got) || got.StatusCode != 400 {
		t.Fatalf("error = %v, want the 400 APIError", err)
	}
	if client.CallCount() != 1 {
		t.Errorf("calls = %d, want 1 (no fallback on client errors)", client.CallCount())
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429 api error", &genai.APIError{StatusCode: 429}, true},
		{"500 api error", &genai.APIError{StatusCode: 500}, true},
		{"400 api error", &genai.APIError{StatusCode: 400}, false},
		{"rate limit text", errors.New("provider said: Rate Limit exceeded"), true},
		{"resource exhausted text", errors.New("RESOURCE_EXHAUSTED"), true},
		{"overloaded text", errors.New("model is overloaded right now"), true},
		{"plain failure", errors.New("invalid schema"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestThinkingConfigFor(t *testing.T) {
	t.Run("gemini-3 uses named level", func(t *testing.T) {
		tc := thinkingConfigFor("gemini-3-pro-preview", effort.TierHigh)
		if tc == nil || tc.Level != "high" || tc.Budget != nil {
			t.Errorf("config = %+v", tc)
		}
	})

	t.Run("gemini-2.5 uses numeric budget per tier", func(t *testing.T) {
		for tier, want := range map[effort.Tier]int{
			effort.TierLow:    512,
			effort.TierMedium: 2048,
			effort.TierHigh:   8192,
		} {
			tc := thinkingConfigFor("gemini-2.5-flash", tier)
			if tc == nil || tc.Budget == nil || *tc.Budget != want || tc.Level != "" {
				t.Errorf("tier %s config = %+v, want budget %d", tier, tc, want)
			}
		}
	})

	t.Run("unknown family omits thinking config", func(t *testing.T) {
		if tc := thinkingConfigFor("claude-sonnet", effort.TierHigh); tc != nil {
			t.Errorf("config = %+v, want nil", tc)
		}
	})
}

func TestCallAppliesRoutingToRequest(t *testing.T) {
	client := &genai.MockClient{}
	orch := New(Config{
		Client: client,
		Router: router.New(config.ModelsConfig{}),
	})

	_, err := orch.Call(context.Background(), CallOptions{
		Task:             router.TaskPageClassify,
		Parts:            []genai.Part{genai.TextPart("prompt")},
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}

	req := client.Requests()[0]
	if req.Model != "gemini-2.5-flash-lite" {
		t.Errorf("model = %s", req.Model)
	}
	if req.Config.Temperature != 0.1 {
		t.Errorf("temperature = %f, want 0.1", req.Config.Temperature)
	}
	if req.Config.ResponseMIMEType != "application/json" {
		t.Errorf("mime = %s", req.Config.ResponseMIMEType)
	}
	if req.Config.Thinking == nil || req.Config.Thinking.Budget == nil {
		t.Error("thinking budget missing for gemini-2.5 family")
	}
}

func modelsOf(reqs []*genai.Request) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.Model
	}
	return out
}
