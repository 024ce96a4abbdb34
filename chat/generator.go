package chat

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardsage/cardsage/config"
	"github.com/cardsage/cardsage/internal/logging"
	"github.com/cardsage/cardsage/providers"
)

// Response is what the chat endpoint returns to the widget: the enhanced
// answer text, the provider's source citations, and an attribution tag.
type Response struct {
	Content   string   `json:"response"`
	Citations []string `json:"citations,omitempty"`
	Provider  string   `json:"provider,omitempty"`
}

// Generator runs one chat request through the full pipeline: validate the
// conversation, take a rate-limit slot, scope the question to the Indian
// market, derive the search query, call the provider with bounded retries,
// and clean up the answer's markdown.
type Generator struct {
	provider providers.Provider
	client   *http.Client
	limiter  *RateLimiter
	outbound *rate.Limiter
	history  *History
	logger   logging.Logger

	maxRetries int
	retryDelay time.Duration
}

// NewGenerator wires a Generator from config. The inbound limiter is passed
// in rather than created here so tests and callers own its lifecycle.
func NewGenerator(cfg *config.Config, provider providers.Provider, limiter *RateLimiter, logger logging.Logger) *Generator {
	history := NewHistory(cfg.HistoryTokens, cfg.Model, logger)

	var outbound *rate.Limiter
	if cfg.OutboundRPS > 0 {
		outbound = rate.NewLimiter(rate.Limit(cfg.OutboundRPS), 1)
	}

	return &Generator{
		provider:   provider,
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		outbound:   outbound,
		history:    history,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Generate answers the conversation. It returns a *ChatError on every
// failure path so the HTTP layer can map the type to a status code.
func (g *Generator) Generate(ctx context.Context, turns []Turn) (*Response, error) {
	if err := ValidateConversation(turns); err != nil {
		return nil, err
	}

	if ok, retryAt := g.limiter.Allow(); !ok {
		g.logger.Warn("Rate limit exceeded", "retry_at", retryAt)
		chatErr := NewChatError(ErrorTypeRateLimited, "rate limit exceeded", nil)
		chatErr.RetryAt = retryAt
		return nil, chatErr
	}

	searchQuery := EnhanceSearchQuery(lastUserContent(turns))
	conversation := g.prepareConversation(turns)
	conversation = g.history.Trim(conversation)

	messages := make([]providers.Message, len(conversation))
	for i, t := range conversation {
		messages[i] = providers.Message{Role: t.Role, Content: t.Content}
	}
	options := map[string]any{
		"search_query": searchQuery,
	}

	var lastStatus int
	var lastErr error
	for attempt := 1; attempt <= g.maxRetries+1; attempt++ {
		if g.outbound != nil {
			if err := g.outbound.Wait(ctx); err != nil {
				return nil, NewChatError(ErrorTypeUnknown, "request cancelled", err)
			}
		}

		resp, status, err := g.attemptCall(ctx, messages, options)
		if err == nil {
			g.logger.Debug("Chat response generated",
				"provider", g.provider.Name(), "attempt", attempt, "citations", len(resp.Citations))
			return &Response{
				Content:   EnhanceMarkdown(resp.Content),
				Citations: resp.Citations,
				Provider:  g.provider.Name(),
			}, nil
		}

		lastStatus, lastErr = status, err
		g.logger.Warn("Chat attempt failed", "attempt", attempt, "status", status, "error", err)

		// Auth failures are not transient; retrying would burn every
		// attempt on a request that can never succeed.
		if status == http.StatusUnauthorized {
			break
		}

		if attempt <= g.maxRetries {
			if err := g.wait(ctx, time.Duration(attempt)*g.retryDelay); err != nil {
				return nil, NewChatError(ErrorTypeUnknown, "request cancelled", err)
			}
		}
	}

	return nil, classifyFailure(lastStatus, lastErr)
}

// prepareConversation prepends the market qualifier to user turns and makes
// sure a system turn leads the conversation. A caller-supplied system turn
// wins over the built-in prompt.
func (g *Generator) prepareConversation(turns []Turn) []Turn {
	prepared := make([]Turn, 0, len(turns)+1)

	var system *Turn
	for _, t := range turns {
		if t.Role == RoleSystem && system == nil {
			system = &Turn{Role: t.Role, Content: t.Content}
			continue
		}
		if t.Role == RoleUser && !strings.HasPrefix(t.Content, marketQualifier) {
			t.Content = marketQualifier + t.Content
		}
		prepared = append(prepared, t)
	}

	if system == nil {
		system = &Turn{Role: RoleSystem, Content: systemPrompt}
	}
	return append([]Turn{*system}, prepared...)
}

// attemptCall makes one provider call. The returned status is the HTTP
// status code, or 0 when the request never got a response.
func (g *Generator) attemptCall(ctx context.Context, messages []providers.Message, options map[string]any) (*providers.Response, int, error) {
	reqBody, err := g.provider.PrepareRequest(messages, options)
	if err != nil {
		return nil, 0, NewChatError(ErrorTypeUnknown, "failed to prepare request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.provider.Endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, 0, NewChatError(ErrorTypeUnknown, "failed to create request", err)
	}
	for k, v := range g.provider.Headers() {
		req.Header.Set(k, v)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, NewChatError(ErrorTypeNetwork, "failed to reach provider", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, NewChatError(ErrorTypeNetwork, "failed to read response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("Provider API error",
			"provider", g.provider.Name(), "status", resp.StatusCode, "body", string(body))
		return nil, resp.StatusCode, NewChatError(ErrorTypeService, "provider returned non-success status", nil)
	}

	parsed, err := g.provider.ParseResponse(body)
	if err != nil {
		return nil, resp.StatusCode, NewChatError(ErrorTypeService, "failed to parse response", err)
	}
	return parsed, resp.StatusCode, nil
}

func (g *Generator) wait(ctx context.Context, delay time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// classifyFailure translates the final failed attempt into the user-facing
// error taxonomy.
func classifyFailure(status int, err error) *ChatError {
	switch {
	case status == http.StatusTooManyRequests:
		return NewChatError(ErrorTypeServiceBusy, "provider rate limit exceeded", err)
	case status == http.StatusUnauthorized:
		return NewChatError(ErrorTypeAuth, "provider rejected credentials", err)
	case status >= http.StatusInternalServerError:
		return NewChatError(ErrorTypeService, "provider error", err)
	default:
		return NewChatError(ErrorTypeUnknown, "chat request failed", err)
	}
}
