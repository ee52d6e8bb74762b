// Package llm provides a unified abstraction over LLM backends: embedding
// generation, structured (JSON-constrained) content generation, and the
// resilient client that reasoning stages invoke.
package llm

import (
	"context"
	"fmt"
	"sync"
)

// GenerateRequest describes one structured generation call.
type GenerateRequest struct {
	// Model is the backend model identifier (fast or pro tier).
	Model string

	// SystemInstruction is the analytic persona for this call.
	SystemInstruction string

	// Prompt is the fully composed user prompt.
	Prompt string

	// Temperature for sampling. Zero means backend default.
	Temperature float64

	// EnableSearch enables the backend's real-time search tool.
	EnableSearch bool
}

// GenerateResponse is the raw backend response before JSON enforcement.
type GenerateResponse struct {
	// Text is the model output, expected to be a JSON document.
	Text string

	// Grounding carries search provenance when the search tool was used.
	Grounding *Grounding
}

// Grounding is model-reported provenance for search-assisted responses.
type Grounding struct {
	Queries []string `json:"queries,omitempty"`
	Sources []Source `json:"sources,omitempty"`
}

// Source is a single citation from grounded generation.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// EmbeddingProvider generates vector embeddings for text.
type EmbeddingProvider interface {
	// Embed generates embeddings for multiple texts in one call.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Name returns the provider name.
	Name() string
}

// ChatProvider generates content from a prompt.
type ChatProvider interface {
	// GenerateContent performs one generation call.
	GenerateContent(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider supports both embedding and content generation.
type Provider interface {
	EmbeddingProvider
	ChatProvider
}

// ProviderFactory builds a full provider from a configuration map.
type ProviderFactory func(config map[string]any) (Provider, error)

var registry = &providerRegistry{
	providers: make(map[string]ProviderFactory),
}

type providerRegistry struct {
	mu        sync.RWMutex
	providers map[string]ProviderFactory
}

// RegisterProvider registers a provider factory under a name. Providers
// register themselves from an init function; importing the provider package
// is enough to make it constructible by name.
func RegisterProvider(name string, factory ProviderFactory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.providers[name] = factory
}

// NewProvider constructs a provider by registered name.
func NewProvider(name string, config map[string]any) (Provider, error) {
	registry.mu.RLock()
	factory, ok := registry.providers[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	return factory(config)
}

// ListProviders lists all registered provider names.
func ListProviders() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.providers))
	for name := range registry.providers {
		names = append(names, name)
	}
	return names
}
