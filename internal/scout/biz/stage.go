package biz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/venturescout/venturescout/pkg/llm"
)

// ModelTiers selects which model each stage runs on. Fast handles the
// high-volume extraction-style stages; Pro handles search-grounded
// research and the final synthesis.
type ModelTiers struct {
	Fast string
	Pro  string
}

// DefaultModelTiers returns the default model tier configuration.
func DefaultModelTiers() ModelTiers {
	return ModelTiers{
		Fast: "gemini-3-flash-preview",
		Pro:  "gemini-3-pro-preview",
	}
}

// Invoker runs one structured reasoning call. *llm.Client satisfies it.
type Invoker interface {
	Invoke(ctx context.Context, req *llm.GenerateRequest) (*llm.Result, error)
}

// invokeInto runs a reasoning call and decodes the JSON payload into out.
// out must arrive prefilled with defaults: keys missing from the response
// keep their default values, so a partial answer still yields a complete
// record. The raw result is returned for grounding metadata.
func invokeInto(ctx context.Context, inv Invoker, req *llm.GenerateRequest, out any) (*llm.Result, error) {
	result, err := inv.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return nil, fmt.Errorf("failed to decode stage response: %w", err)
	}
	return result, nil
}

// compactJSON renders a value as JSON for prompt embedding. Marshal
// failures collapse to an empty object rather than breaking the prompt.
func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// stringOrUnknown renders an optional number for prompt embedding.
func stringOrUnknown(v *float64) string {
	if v == nil {
		return "Unknown"
	}
	return fmt.Sprintf("%v", *v)
}
