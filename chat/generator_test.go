package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsage/cardsage/config"
	"github.com/cardsage/cardsage/internal/logging"
	"github.com/cardsage/cardsage/providers"
)

func testGenerator(t *testing.T, handler http.HandlerFunc) (*Generator, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.NewConfig(
		config.SetAPIKey("test-key"),
		config.SetMaxRetries(3),
		config.SetRetryDelay(time.Millisecond),
	)

	provider := providers.NewMockProvider("", cfg.Model, nil).(*providers.MockProvider)
	provider.SetEndpoint(server.URL)

	limiter := NewRateLimiter(cfg.RateWindow, cfg.RateLimit)
	return NewGenerator(cfg, provider, limiter, logging.NewRecordingLogger()), server
}

func userTurns(content string) []Turn {
	return []Turn{{Role: RoleUser, Content: content}}
}

func TestGenerateSuccess(t *testing.T) {
	var gotBody map[string]any
	g, _ := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "SBI Cashback gives flat 5% online."}}],
			"citations": ["https://cardinsider.com/sbi-cashback"]
		}`))
	})

	resp, err := g.Generate(context.Background(), userTurns("best cashback card"))
	require.NoError(t, err)

	assert.Equal(t, "SBI Cashback gives flat 5% online.", resp.Content)
	assert.Equal(t, []string{"https://cardinsider.com/sbi-cashback"}, resp.Citations)
	assert.Equal(t, "mock", resp.Provider)

	// Request shape: leading system turn, qualified user turn, search query.
	messages := gotBody["messages"].([]any)
	first := messages[0].(map[string]any)
	last := messages[len(messages)-1].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "user", last["role"])
	assert.Contains(t, last["content"], "For Indian credit cards only: best cashback card")
	assert.Contains(t, gotBody["search_query"], "best cashback credit cards India")
	assert.Contains(t, gotBody["search_query"], "site:")
}

func TestGenerateEmptyCitations(t *testing.T) {
	g, _ := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "answer"}}]}`))
	})

	resp, err := g.Generate(context.Background(), userTurns("annual fee?"))
	require.NoError(t, err)
	assert.NotNil(t, resp.Citations)
	assert.Empty(t, resp.Citations)
}

func TestGenerateCallerSystemPromptWins(t *testing.T) {
	var gotBody map[string]any
	g, _ := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	})

	turns := []Turn{
		{Role: RoleSystem, Content: "custom persona"},
		{Role: RoleUser, Content: "hello"},
	}
	_, err := g.Generate(context.Background(), turns)
	require.NoError(t, err)

	messages := gotBody["messages"].([]any)
	first := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
	assert.Equal(t, "custom persona", first["content"])
}

func TestGenerateRetriesOn429(t *testing.T) {
	var attempts atomic.Int32
	g, _ := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	start := time.Now()
	_, err := g.Generate(context.Background(), userTurns("hi"))
	elapsed := time.Since(start)

	require.Error(t, err)
	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorTypeServiceBusy, chatErr.Type)
	assert.Equal(t, int32(4), attempts.Load(), "expected 1 initial attempt + 3 retries")
	// Linear backoff: 1x + 2x + 3x the base delay between the four attempts.
	assert.GreaterOrEqual(t, elapsed, 6*time.Millisecond)
}

func TestGenerateDoesNotRetryOn401(t *testing.T) {
	var attempts atomic.Int32
	g, _ := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := g.Generate(context.Background(), userTurns("hi"))

	require.Error(t, err)
	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorTypeAuth, chatErr.Type)
	assert.Equal(t, int32(1), attempts.Load(), "auth failures must fail fast")
}

func TestGenerateServerErrorsBecomeServiceError(t *testing.T) {
	var attempts atomic.Int32
	g, _ := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := g.Generate(context.Background(), userTurns("hi"))

	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorTypeService, chatErr.Type)
	assert.Equal(t, int32(4), attempts.Load())
}

func TestGenerateNetworkFailure(t *testing.T) {
	g, server := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := g.Generate(context.Background(), userTurns("hi"))

	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorTypeUnknown, chatErr.Type)
}

func TestGenerateInvalidStructureShortCircuits(t *testing.T) {
	var attempts atomic.Int32
	g, _ := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
	})

	turns := []Turn{
		{Role: RoleUser, Content: "one"},
		{Role: RoleUser, Content: "two"},
	}
	_, err := g.Generate(context.Background(), turns)

	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorTypeInvalidStructure, chatErr.Type)
	assert.Equal(t, int32(0), attempts.Load(), "no network call on validation failure")
}

func TestGenerateRateLimitedShortCircuits(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
	}))
	t.Cleanup(server.Close)

	cfg := config.NewConfig(config.SetAPIKey("test-key"), config.SetRateLimit(time.Minute, 0))
	provider := providers.NewMockProvider("", cfg.Model, nil).(*providers.MockProvider)
	provider.SetEndpoint(server.URL)
	limiter := NewRateLimiter(cfg.RateWindow, cfg.RateLimit)
	g := NewGenerator(cfg, provider, limiter, logging.NewRecordingLogger())

	before := time.Now()
	_, err := g.Generate(context.Background(), userTurns("hi"))

	var chatErr *ChatError
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorTypeRateLimited, chatErr.Type)
	assert.False(t, chatErr.RetryAt.Before(before), "retry instant must not be in the past")
	assert.Equal(t, int32(0), attempts.Load(), "no network call when rate limited")
}

func TestGenerateResponseMarkdownIsEnhanced(t *testing.T) {
	g, _ := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "| Annual Fee | ₹500 | ₹1000 |"}}]}`))
	})

	resp, err := g.Generate(context.Background(), userTurns("fees?"))
	require.NoError(t, err)
	assert.Equal(t, "**Annual Fee**: ₹500 - _₹1000_", resp.Content)
}
