package providers

import (
	"encoding/json"
	"errors"

	"github.com/cardsage/cardsage/config"
	"github.com/cardsage/cardsage/internal/logging"
)

// MockProvider implements Provider for tests. Its endpoint is settable so
// tests can point it at an httptest server.
type MockProvider struct {
	endpoint     string
	model        string
	extraHeaders map[string]string
	options      map[string]any
	logger       logging.Logger

	responseText string
	citations    []string
	prepareErr   error
}

func NewMockProvider(apiKey, model string, extraHeaders map[string]string) Provider {
	if extraHeaders == nil {
		extraHeaders = make(map[string]string)
	}
	return &MockProvider{
		model:        model,
		extraHeaders: extraHeaders,
		options:      make(map[string]any),
		logger:       logging.NewLogger(logging.LogLevelOff),
		responseText: "This is a mock response",
	}
}

// SetEndpoint points the mock at a test server.
func (p *MockProvider) SetEndpoint(endpoint string) {
	p.endpoint = endpoint
}

// SetMockResponse configures the content and citations ParseResponse returns
// when the body is not valid provider JSON.
func (p *MockProvider) SetMockResponse(content string, citations ...string) {
	p.responseText = content
	p.citations = citations
}

// SetPrepareError makes PrepareRequest fail.
func (p *MockProvider) SetPrepareError(err error) {
	p.prepareErr = err
}

func (p *MockProvider) Name() string                         { return "mock" }
func (p *MockProvider) Endpoint() string                     { return p.endpoint }
func (p *MockProvider) SetLogger(logger logging.Logger)      { p.logger = logger }
func (p *MockProvider) SetOption(key string, value any)      { p.options[key] = value }
func (p *MockProvider) SetDefaultOptions(cfg *config.Config) {}

func (p *MockProvider) Headers() map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	for k, v := range p.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (p *MockProvider) PrepareRequest(messages []Message, options map[string]any) ([]byte, error) {
	if p.prepareErr != nil {
		return nil, p.prepareErr
	}
	if len(messages) == 0 {
		return nil, errors.New("no messages to send")
	}

	request := map[string]any{
		"model":    p.model,
		"messages": messages,
	}
	for k, v := range p.options {
		request[k] = v
	}
	for k, v := range options {
		request[k] = v
	}
	return json.Marshal(request)
}

func (p *MockProvider) ParseResponse(body []byte) (*Response, error) {
	// Accept real provider-shaped JSON so httptest servers can exercise the
	// full parse path; otherwise fall back to the configured canned response.
	var response perplexityResponse
	if err := json.Unmarshal(body, &response); err == nil && len(response.Choices) > 0 {
		citations := response.Citations
		if citations == nil {
			citations = []string{}
		}
		return &Response{Content: response.Choices[0].Message.Content, Citations: citations}, nil
	}

	citations := p.citations
	if citations == nil {
		citations = []string{}
	}
	return &Response{Content: p.responseText, Citations: citations}, nil
}
