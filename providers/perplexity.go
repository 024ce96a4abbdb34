package providers

import (
	"encoding/json"
	"fmt"

	"github.com/cardsage/cardsage/config"
	"github.com/cardsage/cardsage/internal/logging"
)

const perplexityEndpoint = "https://api.perplexity.ai/chat/completions"

// DefaultSearchDomains is the allow-list of trusted Indian credit-card sites
// the provider's web search is restricted to.
var DefaultSearchDomains = []string{
	"bankbazaar.com",
	"paisabazaar.com",
	"cardinsider.com",
	"rbi.org.in",
}

// PerplexityProvider implements Provider for Perplexity's chat-completions
// API, with web search pinned to the Indian market.
type PerplexityProvider struct {
	apiKey       string
	model        string
	extraHeaders map[string]string
	options      map[string]any
	logger       logging.Logger
}

func NewPerplexityProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}
	return &PerplexityProvider{
		apiKey:       apiKey,
		model:        model,
		extraHeaders: extraHeaders,
		options:      make(map[string]any),
		logger:       logging.NewLogger(logging.LogLevelInfo),
	}
}

func (p *PerplexityProvider) Name() string {
	return "perplexity"
}

func (p *PerplexityProvider) Endpoint() string {
	return perplexityEndpoint
}

func (p *PerplexityProvider) SetLogger(logger logging.Logger) {
	p.logger = logger
}

func (p *PerplexityProvider) SetOption(key string, value any) {
	p.options[key] = value
	p.logger.Debug("Option set", "key", key, "value", value)
}

func (p *PerplexityProvider) SetDefaultOptions(cfg *config.Config) {
	p.SetOption("temperature", cfg.Temperature)
	p.SetOption("top_p", cfg.TopP)
	p.SetOption("max_tokens", cfg.MaxTokens)
}

func (p *PerplexityProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + p.apiKey,
	}
	for key, value := range p.extraHeaders {
		headers[key] = value
	}
	return headers
}

// PrepareRequest builds the chat-completions body. Web search is always
// restricted to the trusted domain allow-list and located in India.
func (p *PerplexityProvider) PrepareRequest(messages []Message, options map[string]any) ([]byte, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages to send")
	}

	request := map[string]any{
		"model":                p.model,
		"messages":             messages,
		"search_domain_filter": DefaultSearchDomains,
		"web_search_options": map[string]any{
			"search_context_size": "medium",
			"user_location": map[string]any{
				"country": "IN",
			},
		},
	}

	for k, v := range p.options {
		request[k] = v
	}
	for k, v := range options {
		request[k] = v
	}

	reqJSON, err := json.Marshal(request)
	if err != nil {
		p.logger.Error("Failed to marshal request", "error", err)
		return nil, err
	}

	p.logger.Debug("Request prepared", "model", p.model, "messages", len(messages))
	return reqJSON, nil
}

type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

func (p *PerplexityProvider) ParseResponse(body []byte) (*Response, error) {
	var response perplexityResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("empty response from provider")
	}

	citations := response.Citations
	if citations == nil {
		citations = []string{}
	}

	return &Response{
		Content:   response.Choices[0].Message.Content,
		Citations: citations,
	}, nil
}
