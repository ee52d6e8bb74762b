package llm

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturescout/venturescout/pkg/llm/resilience"
)

// stubProvider returns canned responses in order, recording every request.
type stubProvider struct {
	mu        sync.Mutex
	responses []stubResponse
	requests  []*GenerateRequest
}

type stubResponse struct {
	resp *GenerateResponse
	err  error
}

func (s *stubProvider) GenerateContent(_ context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *req
	s.requests = append(s.requests, &copied)

	if len(s.responses) == 0 {
		return &GenerateResponse{Text: "{}"}, nil
	}
	next := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return next.resp, next.err
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func fastRetry() *resilience.RetryConfig {
	return &resilience.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestClient_InvokeReturnsParsedJSON(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{resp: &GenerateResponse{Text: `{"verdict": "Invest"}`}},
	}}
	client := NewClient(provider, fastRetry())

	result, err := client.Invoke(context.Background(), &GenerateRequest{
		Model:  "test-model",
		Prompt: "analyze",
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict": "Invest"}`, string(result.Data))
	assert.Nil(t, result.Grounding)
}

func TestClient_InvokePinsTemperature(t *testing.T) {
	provider := &stubProvider{}
	client := NewClient(provider, fastRetry())

	req := &GenerateRequest{Model: "test-model", Prompt: "p", Temperature: 0.9}
	_, err := client.Invoke(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, provider.requests, 1)
	assert.InDelta(t, 0.1, provider.requests[0].Temperature, 0.001)
	// The caller's request is not mutated.
	assert.InDelta(t, 0.9, req.Temperature, 0.001)
}

func TestClient_InvokeStripsCodeFences(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{resp: &GenerateResponse{Text: "```json\n{\"score\": 72}\n```"}},
	}}
	client := NewClient(provider, fastRetry())

	result, err := client.Invoke(context.Background(), &GenerateRequest{Model: "m", Prompt: "p"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 72}`, string(result.Data))
}

func TestClient_InvokeRetriesMalformedResponse(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{resp: &GenerateResponse{Text: "I think the company is promising."}},
		{resp: &GenerateResponse{Text: `{"ok": true}`}},
	}}
	client := NewClient(provider, fastRetry())

	result, err := client.Invoke(context.Background(), &GenerateRequest{Model: "m", Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls())
	assert.JSONEq(t, `{"ok": true}`, string(result.Data))
}

func TestClient_InvokeRetriesRateLimit(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: &APIError{StatusCode: http.StatusTooManyRequests, Detail: "slow down"}},
		{resp: &GenerateResponse{Text: `{"ok": true}`}},
	}}
	client := NewClient(provider, fastRetry())

	_, err := client.Invoke(context.Background(), &GenerateRequest{Model: "m", Prompt: "p"})

	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls())
}

func TestClient_InvokeDoesNotRetryClientError(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{err: &APIError{StatusCode: http.StatusBadRequest, Detail: "invalid argument"}},
	}}
	client := NewClient(provider, fastRetry())

	_, err := client.Invoke(context.Background(), &GenerateRequest{Model: "m", Prompt: "p"})

	require.Error(t, err)
	assert.Equal(t, 1, provider.calls())
}

func TestClient_InvokeExhaustsRetryBudget(t *testing.T) {
	provider := &stubProvider{responses: []stubResponse{
		{resp: &GenerateResponse{Text: "not json"}},
	}}
	client := NewClient(provider, fastRetry())

	_, err := client.Invoke(context.Background(), &GenerateRequest{Model: "m", Prompt: "p"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, 3, provider.calls())
}

func TestClient_InvokePassesThroughGrounding(t *testing.T) {
	grounding := &Grounding{
		Queries: []string{"fintech market size 2026"},
		Sources: []Source{{Title: "Report", URL: "https://example.com/r"}},
	}
	provider := &stubProvider{responses: []stubResponse{
		{resp: &GenerateResponse{Text: `{"summary": "x"}`, Grounding: grounding}},
	}}
	client := NewClient(provider, fastRetry())

	result, err := client.Invoke(context.Background(), &GenerateRequest{Model: "m", Prompt: "p", EnableSearch: true})

	require.NoError(t, err)
	require.NotNil(t, result.Grounding)
	assert.Equal(t, grounding.Queries, result.Grounding.Queries)
	assert.Equal(t, grounding.Sources, result.Grounding.Sources)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`, true},
		{"array", `[1, 2]`, `[1, 2]`, true},
		{"fenced json", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"surrounding whitespace", "  {\"a\": 1}\n", `{"a": 1}`, true},
		{"empty", "", "", false},
		{"prose", "The startup looks strong.", "", false},
		{"truncated", `{"a": `, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSON(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.JSONEq(t, tt.want, string(got))
			}
		})
	}
}

func TestAPIError_RateLimited(t *testing.T) {
	assert.True(t, (&APIError{StatusCode: 429}).RateLimited())
	assert.True(t, (&APIError{StatusCode: 500, Detail: "RESOURCE_EXHAUSTED"}).RateLimited())
	assert.True(t, (&APIError{StatusCode: 403, Detail: "quota exceeded for project"}).RateLimited())
	assert.False(t, (&APIError{StatusCode: 400, Detail: "invalid argument"}).RateLimited())
	assert.False(t, (&APIError{StatusCode: 500, Detail: "internal"}).RateLimited())
}

func TestNewProvider_UnknownName(t *testing.T) {
	_, err := NewProvider("no-such-provider", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
