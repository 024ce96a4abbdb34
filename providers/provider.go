// Package providers implements the outbound LLM provider interface and its
// concrete implementations. The service ships a single production provider
// (Perplexity) plus a mock for tests; the interface keeps the call site in
// the chat pipeline provider-agnostic.
package providers

import (
	"github.com/cardsage/cardsage/config"
	"github.com/cardsage/cardsage/internal/logging"
)

// Message is one turn in the wire format every chat-completions style API
// accepts.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the parsed provider output: the raw text plus whatever source
// citations the provider attached. Citations may be empty, never nil on a
// successful parse.
type Response struct {
	Content   string
	Citations []string
}

// Provider defines what the chat pipeline needs from an upstream LLM API.
type Provider interface {
	Name() string
	Endpoint() string
	Headers() map[string]string
	SetDefaultOptions(cfg *config.Config)
	SetOption(key string, value any)
	SetLogger(logger logging.Logger)

	// PrepareRequest builds the JSON body for the outbound call. Options
	// override the provider's defaults for this request only.
	PrepareRequest(messages []Message, options map[string]any) ([]byte, error)
	ParseResponse(body []byte) (*Response, error)
}

// ProviderConstructor builds a provider instance. Each implementation
// registers one with the registry.
type ProviderConstructor func(apiKey, model string, extraHeaders map[string]string) Provider
