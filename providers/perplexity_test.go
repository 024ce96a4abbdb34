package providers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsage/cardsage/config"
)

func TestPerplexityHeaders(t *testing.T) {
	p := NewPerplexityProvider("pplx-key", "sonar", map[string]string{"X-Extra": "1"})

	headers := p.Headers()
	assert.Equal(t, "Bearer pplx-key", headers["Authorization"])
	assert.Equal(t, "application/json", headers["Content-Type"])
	assert.Equal(t, "1", headers["X-Extra"])
}

func TestPerplexityPrepareRequest(t *testing.T) {
	p := NewPerplexityProvider("pplx-key", "sonar", nil)
	p.SetDefaultOptions(config.NewConfig(
		config.SetTemperature(0.2),
		config.SetMaxTokens(1024),
	))

	body, err := p.PrepareRequest([]Message{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "best cashback card"},
	}, map[string]any{"search_query": "best cashback credit cards India"})
	require.NoError(t, err)

	var request map[string]any
	require.NoError(t, json.Unmarshal(body, &request))

	assert.Equal(t, "sonar", request["model"])
	assert.Len(t, request["messages"], 2)
	assert.Equal(t, 0.2, request["temperature"])
	assert.Equal(t, float64(1024), request["max_tokens"])
	assert.Equal(t, "best cashback credit cards India", request["search_query"])

	domains := request["search_domain_filter"].([]any)
	assert.Len(t, domains, len(DefaultSearchDomains))

	webSearch := request["web_search_options"].(map[string]any)
	location := webSearch["user_location"].(map[string]any)
	assert.Equal(t, "IN", location["country"])
}

func TestPerplexityPrepareRequestRejectsEmpty(t *testing.T) {
	p := NewPerplexityProvider("pplx-key", "sonar", nil)

	_, err := p.PrepareRequest(nil, nil)
	assert.Error(t, err)
}

func TestPerplexityParseResponse(t *testing.T) {
	p := NewPerplexityProvider("pplx-key", "sonar", nil)

	t.Run("content and citations", func(t *testing.T) {
		resp, err := p.ParseResponse([]byte(`{
			"choices": [{"message": {"content": "answer text"}}],
			"citations": ["https://cardinsider.com/a", "https://bankbazaar.com/b"]
		}`))
		require.NoError(t, err)
		assert.Equal(t, "answer text", resp.Content)
		assert.Equal(t, []string{"https://cardinsider.com/a", "https://bankbazaar.com/b"}, resp.Citations)
	})

	t.Run("missing citations yields empty slice", func(t *testing.T) {
		resp, err := p.ParseResponse([]byte(`{"choices": [{"message": {"content": "answer"}}]}`))
		require.NoError(t, err)
		assert.NotNil(t, resp.Citations)
		assert.Empty(t, resp.Citations)
	})

	t.Run("empty choices is an error", func(t *testing.T) {
		_, err := p.ParseResponse([]byte(`{"choices": []}`))
		assert.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		_, err := p.ParseResponse([]byte(`not json`))
		assert.Error(t, err)
	})
}

func TestRegistry(t *testing.T) {
	registry := NewProviderRegistry()

	p, err := registry.Get("perplexity", "pplx-key", "sonar", nil)
	require.NoError(t, err)
	assert.Equal(t, "perplexity", p.Name())

	_, err = registry.Get("openai", "key", "gpt-4o", nil)
	assert.Error(t, err)
}

func TestRegistrySubset(t *testing.T) {
	registry := NewProviderRegistry("mock")

	_, err := registry.Get("mock", "", "sonar", nil)
	require.NoError(t, err)

	_, err = registry.Get("perplexity", "pplx-key", "sonar", nil)
	assert.Error(t, err)
}
