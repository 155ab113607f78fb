package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brolli/brolli/internal/agent"
	"github.com/brolli/brolli/internal/apierr"
	"github.com/brolli/brolli/internal/cache"
	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/llm"
	"github.com/brolli/brolli/internal/model"
	"github.com/brolli/brolli/internal/risk"
)

type fakeProvider struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Text: f.text}, nil
}

func newService(t *testing.T, p llm.Provider, c cache.Cache) *Service {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	engine := risk.NewEngine(cat, nil, nil)
	responder := agent.NewResponder(cat, agent.NewPlugin(cat, engine), nil)
	cfg := model.DefaultConfig().Chat
	return NewService(cat, p, responder, c, time.Minute, cfg, nil, nil)
}

func TestReplyValidation(t *testing.T) {
	s := newService(t, nil, nil)

	tests := []struct {
		name string
		req  Request
		code string
	}{
		{"missing message", Request{}, "missing_user_message"},
		{"blank message", Request{UserMessage: "   "}, "missing_user_message"},
		{"bad role", Request{UserMessage: "hi", Messages: []llm.Message{{Role: "system", Content: "x"}}}, "invalid_role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Reply(context.Background(), tt.req)
			require.Error(t, err)

			var ae *apierr.Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, http.StatusBadRequest, ae.Status)
			assert.Equal(t, tt.code, ae.Code)
		})
	}
}

func TestValidateTruncatesHistory(t *testing.T) {
	s := newService(t, nil, nil)

	var history []llm.Message
	for i := 0; i < 20; i++ {
		history = append(history, llm.Message{Role: llm.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}

	msg, got, err := s.Validate(Request{UserMessage: "  hi  ", Messages: history})
	require.NoError(t, err)
	assert.Equal(t, "hi", msg)
	require.Len(t, got, 12)
	assert.Equal(t, "m8", got[0].Content)
	assert.Equal(t, "m19", got[11].Content)
}

func TestReplyWithoutProviderUsesAgent(t *testing.T) {
	s := newService(t, nil, nil)

	resp, err := s.Reply(context.Background(), Request{UserMessage: "How much does it cost?"})
	require.NoError(t, err)
	assert.Equal(t, SourceAgent, resp.Source)
	assert.Equal(t, "pricing", resp.TopicID)
	assert.Contains(t, resp.Response, "$99")
}

func TestReplyWithProvider(t *testing.T) {
	p := &fakeProvider{text: "  Founding licences are $99 per year [abs-001].  "}
	s := newService(t, p, nil)

	resp, err := s.Reply(context.Background(), Request{
		UserMessage: "How much does it cost?",
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: "hi"}, {Role: llm.RoleAssistant, Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, SourceLLM, resp.Source)
	assert.Equal(t, "Founding licences are $99 per year [abs-001].", resp.Response)
	assert.Equal(t, "pricing", resp.TopicID)

	require.Len(t, p.calls, 1)
	call := p.calls[0]
	require.Len(t, call.Messages, 3)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "How much does it cost?"}, call.Messages[2])
	assert.True(t, strings.HasPrefix(call.System, "You are Brolli Sales Agent."))
	assert.Contains(t, call.System, "Approved FAQ topic: pricing - Pricing")
	assert.Contains(t, call.System, "[abs-001] (Abstract)")
}

func TestReplyEmptyCompletionAsksToClarify(t *testing.T) {
	s := newService(t, &fakeProvider{text: "   "}, nil)

	resp, err := s.Reply(context.Background(), Request{UserMessage: "hmm"})
	require.NoError(t, err)
	assert.Equal(t, ClarifyText, resp.Response)
	assert.Equal(t, SourceLLM, resp.Source)
}

func TestReplyDegradesOnProviderFailure(t *testing.T) {
	s := newService(t, &fakeProvider{err: errors.New("503 upstream")}, nil)

	resp, err := s.Reply(context.Background(), Request{UserMessage: "We're building a stablecoin for remittances"})
	require.NoError(t, err)
	assert.Equal(t, SourceAgent, resp.Source)
	assert.Equal(t, string(risk.ActionRecommendImmediate), resp.Action)
	assert.Contains(t, resp.Response, "CRITICAL PATENT RISK")
}

func TestReplyRejectsCompletionWithLinks(t *testing.T) {
	s := newService(t, &fakeProvider{text: "Read more at https://example.org/pricing"}, nil)

	resp, err := s.Reply(context.Background(), Request{UserMessage: "How much does it cost?"})
	require.NoError(t, err)
	assert.Equal(t, SourceAgent, resp.Source)
	assert.NotContains(t, resp.Response, "https://")
}

func TestReplyServesIdenticalRequestsFromCache(t *testing.T) {
	p := &fakeProvider{text: "cached answer"}
	s := newService(t, p, cache.NewMemoryCache(time.Minute, time.Minute))
	req := Request{UserMessage: "What is Brolli?"}

	first, err := s.Reply(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := s.Reply(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "cached answer", second.Response)
	assert.Len(t, p.calls, 1)

	_, err = s.Reply(context.Background(), Request{UserMessage: "What is Brolli?", Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	assert.Len(t, p.calls, 2, "different history must miss the cache")
}
