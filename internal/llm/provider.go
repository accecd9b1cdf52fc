package llm

import (
	"context"
	"fmt"
)

// Provider abstracts a text-generation backend (OpenAI, Gemini,
// Anthropic). Every provider can rewrite free text; only some can
// produce schema-constrained output — see StructuredProvider.
type Provider interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
	Models() []string
}

// StructuredProvider is implemented by providers with native
// schema-constrained generation. Callers that need typed extraction
// must check for this capability; there is no best-effort parse of
// free text as structured data.
type StructuredProvider interface {
	Provider
	ExtractStructured(ctx context.Context, req ExtractRequest) error
}

// Gateway routes format and extract calls to a named provider, with a
// bounded retry for transient failures only.
type Gateway interface {
	Format(ctx context.Context, req FormatRequest) (*FormatResult, error)
	Extract(ctx context.Context, req ExtractRequest) error
	Provider(name string) (Provider, error)
}

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest is the input for chat completions.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatResponse is the output from chat completions.
type ChatResponse struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Content      string  `json:"content"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	CostUSD      float64 `json:"cost_usd"`
	LatencyMs    int64   `json:"latency_ms"`
}

// FormatRequest asks a provider to rewrite a transcript following
// free-form instructions. No schema guarantee applies.
type FormatRequest struct {
	Provider     string
	Model        string
	Transcript   string
	Instructions string
}

// FormatResult is the free-form rewrite output.
type FormatResult struct {
	Text     string
	Provider string
	Model    string
}

// ExtractRequest asks a schema-capable provider to produce output
// conforming to the structure of Target, then unmarshals into it.
// SchemaName labels the schema for the provider API.
type ExtractRequest struct {
	Provider   string
	Model      string
	SchemaName string
	System     string
	Prompt     string
	Target     any
}

// ProviderError wraps any provider call failure (network, quota,
// malformed response) with the provider and operation it occurred in.
type ProviderError struct {
	Provider  string
	Operation string
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Operation, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UnknownProviderError means the requested provider is not configured
// (no API key) or does not exist at all.
type UnknownProviderError struct {
	Provider string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("provider %q is not configured", e.Provider)
}

// UnsupportedProviderError means a provider without native schema
// support was asked for a structured extraction.
type UnsupportedProviderError struct {
	Provider  string
	Operation string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("provider %s does not support %s", e.Provider, e.Operation)
}
