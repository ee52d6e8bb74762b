package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from an LLM backend. It carries the status
// code so the retry layer can classify the failure without string matching.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm backend returned status %d: %s", e.StatusCode, e.Detail)
}

// RateLimited reports whether this error is a rate-limit or quota-exhaustion
// condition.
func (e *APIError) RateLimited() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	detail := strings.ToLower(e.Detail)
	return strings.Contains(detail, "resource_exhausted") || strings.Contains(detail, "quota")
}

// ErrMalformedResponse marks a model response that was empty or not valid
// JSON. It is retried with the same budget as a transient fault: the model is
// sampled again rather than the prompt being rejected.
var ErrMalformedResponse = errors.New("model response is empty or not valid JSON")

// IsRetryable reports whether an invocation error should be retried.
// Rate-limit and quota faults are transient; a malformed response is treated
// identically. Everything else fails immediately.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrMalformedResponse) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RateLimited()
	}
	return false
}
