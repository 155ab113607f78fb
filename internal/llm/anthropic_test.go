package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type fakeMessages struct {
	params anthropic.MessageNewParams
	resp   *anthropic.Message
	err    error
}

func (f *fakeMessages) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = params
	return f.resp, f.err
}

func TestAnthropicProvider_Complete_Success(t *testing.T) {
	fake := &fakeMessages{resp: &anthropic.Message{
		Model: "claude-3-5-haiku-latest",
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "Founding licences "},
			{Type: "text", Text: "cost $99."},
		},
		Usage: anthropic.Usage{InputTokens: 50, OutputTokens: 20},
	}}
	p := NewAnthropicProviderWithClient(Config{Model: "gpt-4o-mini", MaxTokens: 320, Temperature: 0.3, Timeout: 5}, fake)

	resp, err := p.Complete(context.Background(), CompletionRequest{
		System: "SYSTEM",
		Messages: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Content: "price?"},
		},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != "Founding licences cost $99." {
		t.Errorf("Text = %q", resp.Text)
	}
	if resp.TokensUsed != 70 {
		t.Errorf("TokensUsed = %d", resp.TokensUsed)
	}

	if string(fake.params.Model) != defaultAnthropicModel {
		t.Errorf("Model = %s, want fallback %s", fake.params.Model, defaultAnthropicModel)
	}
	if fake.params.MaxTokens != 320 {
		t.Errorf("MaxTokens = %d", fake.params.MaxTokens)
	}
	if len(fake.params.System) != 1 || fake.params.System[0].Text != "SYSTEM" {
		t.Errorf("System = %+v", fake.params.System)
	}
	if len(fake.params.Messages) != 3 || fake.params.Messages[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("Messages = %+v", fake.params.Messages)
	}
}

func TestAnthropicProvider_Complete_Error(t *testing.T) {
	p := NewAnthropicProviderWithClient(Config{}, &fakeMessages{err: errors.New("overloaded")})

	_, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err == nil || !strings.Contains(err.Error(), "overloaded") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestAnthropicProvider_Complete_NoText(t *testing.T) {
	p := NewAnthropicProviderWithClient(Config{}, &fakeMessages{resp: &anthropic.Message{}})

	if _, err := p.Complete(context.Background(), CompletionRequest{}); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestAnthropicProvider_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-haiku-latest",` +
			`"content":[{"type":"text","text":"hello"}],"stop_reason":"end_turn",` +
			`"usage":{"input_tokens":5,"output_tokens":3}}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := p.Complete(context.Background(), CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "hello" {
		t.Errorf("Text = %q", resp.Text)
	}
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider(Config{}); err == nil {
		t.Fatal("Expected error for missing API key")
	}
}
