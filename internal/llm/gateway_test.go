package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeProvider is a free-form-only provider for gateway tests.
type fakeProvider struct {
	name     string
	response string
	errs     []error // returned in order; nil means success
	calls    int
	lastReq  ChatRequest
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Models() []string { return []string{"fake-model"} }

func (f *fakeProvider) ChatCompletion(_ context.Context, req ChatRequest) (*ChatResponse, error) {
	f.lastReq = req
	idx := f.calls
	f.calls++
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	return &ChatResponse{Provider: f.name, Model: req.Model, Content: f.response}, nil
}

// fakeStructured adds ExtractStructured on top of fakeProvider.
type fakeStructured struct {
	fakeProvider
	extractErr   error
	extractCalls int
}

func (f *fakeStructured) ExtractStructured(_ context.Context, req ExtractRequest) error {
	f.extractCalls++
	if f.extractErr != nil {
		return f.extractErr
	}
	if s, ok := req.Target.(*struct{ Value string }); ok {
		s.Value = "extracted"
	}
	return nil
}

func newTestGateway(maxRetries int, providers ...Provider) *gateway {
	g := &gateway{
		providers:  make(map[string]Provider),
		models:     map[string]string{"openai": "gpt-3.5-turbo", "gemini": "gemini-pro"},
		maxRetries: maxRetries,
	}
	for _, p := range providers {
		g.providers[p.Name()] = p
	}
	return g
}

func TestGateway_FormatComposesPromptAndTranscript(t *testing.T) {
	p := &fakeProvider{name: "openai", response: "formatted"}
	g := newTestGateway(0, p)

	res, err := g.Format(context.Background(), FormatRequest{
		Provider:     "openai",
		Model:        "gpt-3.5-turbo",
		Transcript:   "hello world",
		Instructions: "summarize",
	})
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if res.Text != "formatted" {
		t.Errorf("text = %q", res.Text)
	}
	user := p.lastReq.Messages[len(p.lastReq.Messages)-1].Content
	if !strings.Contains(user, "summarize") || !strings.Contains(user, "hello world") {
		t.Errorf("user message missing instructions or transcript: %q", user)
	}
}

func TestGateway_FormatDefaultsModelPerProvider(t *testing.T) {
	p := &fakeProvider{name: "gemini", response: "ok"}
	g := newTestGateway(0, p)

	if _, err := g.Format(context.Background(), FormatRequest{Provider: "gemini", Transcript: "t"}); err != nil {
		t.Fatalf("format failed: %v", err)
	}
	if p.lastReq.Model != "gemini-pro" {
		t.Errorf("model = %q, want gemini-pro", p.lastReq.Model)
	}
}

func TestGateway_UnknownProvider(t *testing.T) {
	g := newTestGateway(0)
	_, err := g.Format(context.Background(), FormatRequest{Provider: "nope"})
	var unknown *UnknownProviderError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownProviderError, got %v", err)
	}
	if unknown.Provider != "nope" {
		t.Errorf("provider = %q", unknown.Provider)
	}
}

func TestGateway_ExtractRejectsFreeFormProvider(t *testing.T) {
	p := &fakeProvider{name: "gemini"}
	g := newTestGateway(0, p)

	err := g.Extract(context.Background(), ExtractRequest{Provider: "gemini", SchemaName: "whatever"})
	var unsupported *UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedProviderError, got %v", err)
	}
	if p.calls != 0 {
		t.Errorf("free-form provider was invoked %d times", p.calls)
	}
}

func TestGateway_ExtractFillsTarget(t *testing.T) {
	p := &fakeStructured{fakeProvider: fakeProvider{name: "openai"}}
	g := newTestGateway(0, p)

	var target struct{ Value string }
	err := g.Extract(context.Background(), ExtractRequest{
		Provider:   "openai",
		SchemaName: "test",
		Target:     &target,
	})
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if target.Value != "extracted" {
		t.Errorf("target = %+v", target)
	}
}

func TestGateway_RetriesTransientFailures(t *testing.T) {
	transient := &httpStatusError{Provider: "openai", Status: 503, Body: "overloaded"}
	p := &fakeProvider{name: "openai", response: "ok", errs: []error{transient, transient}}
	g := newTestGateway(2, p)

	res, err := g.Format(context.Background(), FormatRequest{Provider: "openai", Transcript: "t"})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if res.Text != "ok" {
		t.Errorf("text = %q", res.Text)
	}
	if p.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", p.calls)
	}
}

func TestGateway_DoesNotRetrySemanticFailures(t *testing.T) {
	p := &fakeStructured{
		fakeProvider: fakeProvider{name: "openai"},
		extractErr:   errors.New("parse response: invalid character"),
	}
	g := newTestGateway(2, p)

	err := g.Extract(context.Background(), ExtractRequest{Provider: "openai", SchemaName: "s"})
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if p.extractCalls != 1 {
		t.Errorf("semantic failure retried: %d attempts", p.extractCalls)
	}
}

func TestGateway_ExhaustedRetriesReportProviderError(t *testing.T) {
	transient := &httpStatusError{Provider: "gemini", Status: 500, Body: "boom"}
	p := &fakeProvider{name: "gemini", errs: []error{transient, transient, transient}}
	g := newTestGateway(2, p)

	_, err := g.Format(context.Background(), FormatRequest{Provider: "gemini", Transcript: "t"})
	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Provider != "gemini" || provErr.Operation != "format" {
		t.Errorf("unexpected provider error: %+v", provErr)
	}
	if p.calls != 3 {
		t.Errorf("expected 3 attempts, got %d", p.calls)
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &httpStatusError{Status: 429}, true},
		{"server error", &httpStatusError{Status: 502}, true},
		{"bad request", &httpStatusError{Status: 400}, false},
		{"semantic", errors.New("failed to parse"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := retryable(tc.err); got != tc.want {
				t.Errorf("retryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
