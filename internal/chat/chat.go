// Package chat answers the website chat widget. With an LLM provider it
// grounds the model in the approved FAQ answer and patent snippets; without
// one, or when the provider fails, it answers from the rule-based agent.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brolli/brolli/internal/agent"
	"github.com/brolli/brolli/internal/apierr"
	"github.com/brolli/brolli/internal/cache"
	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/llm"
	"github.com/brolli/brolli/internal/metrics"
	"github.com/brolli/brolli/internal/model"
	"github.com/brolli/brolli/internal/prompt"
	"github.com/brolli/brolli/internal/snippet"
)

// Reply sources
const (
	SourceLLM   = "llm"
	SourceAgent = "agent"
)

// ClarifyText is returned when the model produces an empty completion
const ClarifyText = "I'm not sure - can you clarify what you're trying to decide?"

// Request is the chat widget payload
type Request struct {
	Messages    []llm.Message `json:"messages"`
	UserMessage string        `json:"userMessage"`
}

// Response is the chat reply
type Response struct {
	Response string `json:"response"`
	Source   string `json:"source"`
	TopicID  string `json:"topicId,omitempty"`
	Action   string `json:"action,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
}

// Service produces chat replies
type Service struct {
	catalog    *catalog.Catalog
	provider   llm.Provider
	responder  *agent.Responder
	cache      cache.Cache
	ttl        time.Duration
	cfg        model.ChatConfig
	basePrompt string
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewService creates the chat service. provider and c may be nil.
func NewService(
	cat *catalog.Catalog,
	provider llm.Provider,
	responder *agent.Responder,
	c cache.Cache,
	ttl time.Duration,
	cfg model.ChatConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:    cat,
		provider:   provider,
		responder:  responder,
		cache:      c,
		ttl:        ttl,
		cfg:        cfg,
		basePrompt: prompt.BuildSalesSystemPrompt(cat.Character),
		logger:     logger,
		metrics:    m,
	}
}

// Validate checks the request shape and returns the trimmed user message
// and the truncated history.
func (s *Service) Validate(req Request) (string, []llm.Message, error) {
	msg := strings.TrimSpace(req.UserMessage)
	if msg == "" {
		return "", nil, apierr.Validation("missing_user_message", fmt.Errorf("missing userMessage"))
	}
	for i, m := range req.Messages {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return "", nil, apierr.Validation("invalid_role",
				fmt.Errorf("messages[%d]: role must be user or assistant, got %q", i, m.Role))
		}
	}

	history := req.Messages
	if limit := s.cfg.HistoryLimit; len(history) > limit {
		history = history[len(history)-limit:]
	}
	return msg, history, nil
}

// Reply answers one user message. Only validation errors are returned;
// every other failure degrades to the rule-based reply.
func (s *Service) Reply(ctx context.Context, req Request) (*Response, error) {
	msg, history, err := s.Validate(req)
	if err != nil {
		return nil, err
	}

	topic := s.catalog.TopicByID(s.responder.Classify(msg).ID)

	if s.provider == nil {
		return s.fallback(ctx, msg), nil
	}

	key := s.cacheKey(history, msg)
	var cached Response
	if cache.GetJSON(s.cache, key, &cached) {
		cached.Cached = true
		s.metrics.ChatReplied("cache")
		return &cached, nil
	}

	picked := snippet.Select(s.catalog.Snippets, msg, s.cfg.MaxSnippets)
	system := prompt.BuildChatSystemPrompt(s.basePrompt, topic, snippet.Snippets(picked))

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: msg})

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{System: system, Messages: messages})
	if err != nil {
		s.logger.Warn("chat completion failed, using rule-based reply",
			zap.String("provider", s.provider.Name()), zap.Error(err))
		return s.fallback(ctx, msg), nil
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = ClarifyText
	}
	if urls := llm.ExtractURLs(text); len(urls) > 0 {
		s.logger.Warn("chat completion contained links, using rule-based reply",
			zap.String("provider", s.provider.Name()), zap.Strings("urls", urls))
		return s.fallback(ctx, msg), nil
	}

	out := &Response{Response: text, Source: SourceLLM, TopicID: topic.ID}
	if err := cache.SetJSON(s.cache, key, out, s.ttl); err != nil {
		s.logger.Warn("chat cache write failed", zap.Error(err))
	}
	s.metrics.ChatReplied(SourceLLM)
	return out, nil
}

func (s *Service) fallback(ctx context.Context, msg string) *Response {
	r := s.responder.Respond(ctx, msg)
	s.metrics.ChatReplied(SourceAgent)
	return &Response{Response: r.Text, Source: SourceAgent, TopicID: r.TopicID, Action: r.Action}
}

func (s *Service) cacheKey(history []llm.Message, msg string) string {
	parts := make([]string, 0, 2*len(history)+2)
	parts = append(parts, s.provider.Name())
	for _, m := range history {
		parts = append(parts, m.Role, m.Content)
	}
	parts = append(parts, msg)
	return cache.Key(parts...)
}
