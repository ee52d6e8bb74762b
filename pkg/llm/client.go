package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/venturescout/venturescout/pkg/llm/resilience"
)

// Result is a successful, schema-constrained model invocation: the parsed
// JSON document plus optional search provenance.
type Result struct {
	Data      json.RawMessage
	Grounding *Grounding
}

// Client wraps a ChatProvider into a reliable structured-output operation.
// Every invocation enforces JSON output, pins a low sampling temperature for
// reproducibility, and retries rate-limit and malformed-response faults with
// exponential backoff. All outcomes are returned values; the client never
// panics through a caller.
type Client struct {
	provider ChatProvider
	retry    *resilience.RetryConfig
}

// structuredTemperature keeps repeated runs on the same input as close to
// deterministic as the backend allows.
const structuredTemperature = 0.1

// NewClient creates a resilient model client. A nil retry config selects the
// default budget of three attempts with a 2s doubling backoff.
func NewClient(provider ChatProvider, retry *resilience.RetryConfig) *Client {
	if retry == nil {
		retry = resilience.DefaultRetryConfig()
	}
	retry.RetryableErrors = IsRetryable
	return &Client{
		provider: provider,
		retry:    retry,
	}
}

// Invoke performs one reasoning cycle. The request temperature is overridden
// with the client's deterministic setting. An empty or unparseable response
// counts against the retry budget exactly like a rate-limit fault; any other
// backend error fails immediately.
func (c *Client) Invoke(ctx context.Context, req *GenerateRequest) (*Result, error) {
	call := *req
	call.Temperature = structuredTemperature

	var result *Result
	err := resilience.RetryWithBackoff(ctx, c.retry, func() error {
		resp, err := c.provider.GenerateContent(ctx, &call)
		if err != nil {
			return err
		}

		data, ok := extractJSON(resp.Text)
		if !ok {
			return ErrMalformedResponse
		}

		result = &Result{
			Data:      data,
			Grounding: resp.Grounding,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// extractJSON validates the response body as a JSON document, tolerating
// markdown code fences some models wrap around otherwise valid output.
func extractJSON(text string) (json.RawMessage, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}
	if text == "" || !json.Valid([]byte(text)) {
		return nil, false
	}
	return json.RawMessage(text), true
}
