package biz_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/venturescout/venturescout/pkg/llm"
)

// fakeInvoker returns canned JSON keyed by a substring of the prompt or
// system instruction, falling back to "{}" when nothing matches.
type fakeInvoker struct {
	mu        sync.Mutex
	responses map[string]string
	grounding *llm.Grounding
	err       error
	requests  []*llm.GenerateRequest
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{responses: make(map[string]string)}
}

func (f *fakeInvoker) respond(promptSubstring, payload string) {
	f.responses[promptSubstring] = payload
}

func (f *fakeInvoker) Invoke(_ context.Context, req *llm.GenerateRequest) (*llm.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	for key, payload := range f.responses {
		if strings.Contains(req.Prompt, key) || strings.Contains(req.SystemInstruction, key) {
			return &llm.Result{Data: json.RawMessage(payload), Grounding: f.grounding}, nil
		}
	}
	return &llm.Result{Data: json.RawMessage("{}"), Grounding: f.grounding}, nil
}

func (f *fakeInvoker) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeInvoker) requestFor(substring string) *llm.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if strings.Contains(req.Prompt, substring) || strings.Contains(req.SystemInstruction, substring) {
			return req
		}
	}
	return nil
}

var errInvokerDown = errors.New("model backend down")
