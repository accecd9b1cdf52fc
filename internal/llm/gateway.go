package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"

	"github.com/transcriptlens/api/internal/config"
)

type gateway struct {
	providers  map[string]Provider
	models     map[string]string // default chat model per provider
	maxRetries int
}

// NewGateway builds a Gateway from whichever API keys are configured.
func NewGateway(cfg config.LLMConfig) Gateway {
	g := &gateway{
		providers: make(map[string]Provider),
		models: map[string]string{
			"openai":    cfg.FormatModel,
			"gemini":    cfg.GeminiModel,
			"anthropic": cfg.AnthropicModel,
		},
		maxRetries: cfg.MaxRetries,
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey)
	}
	if cfg.GeminiKey != "" {
		g.providers["gemini"] = NewGeminiProvider(cfg.GeminiKey)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey)
	}

	return g
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, &UnknownProviderError{Provider: name}
	}
	return p, nil
}

// Format rewrites the transcript following the caller's instructions.
func (g *gateway) Format(ctx context.Context, req FormatRequest) (*FormatResult, error) {
	p, err := g.Provider(req.Provider)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = g.models[req.Provider]
	}

	var resp *ChatResponse
	err = g.withRetry(ctx, p.Name(), "format", func() error {
		var callErr error
		resp, callErr = p.ChatCompletion(ctx, ChatRequest{
			Model: model,
			Messages: []Message{
				{Role: "system", Content: "You are a helpful assistant that formats and summarizes video transcripts."},
				{Role: "user", Content: fmt.Sprintf("%s\n\nTranscript:\n%s", req.Instructions, req.Transcript)},
			},
			Temperature: 0.7,
			MaxTokens:   1500,
		})
		return callErr
	})
	if err != nil {
		return nil, err
	}

	return &FormatResult{
		Text:     resp.Content,
		Provider: resp.Provider,
		Model:    resp.Model,
	}, nil
}

// Extract runs a schema-constrained extraction. Providers without
// native schema support are rejected outright.
func (g *gateway) Extract(ctx context.Context, req ExtractRequest) error {
	p, err := g.Provider(req.Provider)
	if err != nil {
		return err
	}

	sp, ok := p.(StructuredProvider)
	if !ok {
		return &UnsupportedProviderError{Provider: p.Name(), Operation: "structured extraction"}
	}

	return g.withRetry(ctx, p.Name(), "extract "+req.SchemaName, func() error {
		return sp.ExtractStructured(ctx, req)
	})
}

// withRetry retries transient failures (network, 429, 5xx) up to
// maxRetries extra attempts with exponential backoff. Semantic
// failures are never retried. The final error is a ProviderError.
func (g *gateway) withRetry(ctx context.Context, provider, op string, call func() error) error {
	attempt := 0
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(g.maxRetries)),
		ctx,
	)
	err := backoff.Retry(func() error {
		if attempt > 0 {
			slog.Debug("retrying provider call", "provider", provider, "op", op, "attempt", attempt)
		}
		attempt++
		callErr := call()
		if callErr == nil {
			return nil
		}
		if !retryable(callErr) {
			return backoff.Permanent(callErr)
		}
		slog.Warn("transient provider failure", "provider", provider, "op", op, "error", callErr)
		return callErr
	}, bo)
	if err != nil {
		return &ProviderError{Provider: provider, Operation: op, Err: err}
	}
	return nil
}

// retryable classifies transient failures. Anything else (malformed
// schema, invalid input, parse errors) is considered semantic and
// permanent.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}
	var anthErr *anthropic.Error
	if errors.As(err, &anthErr) {
		return anthErr.StatusCode == 429 || anthErr.StatusCode >= 500
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == 429 || statusErr.Status >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
