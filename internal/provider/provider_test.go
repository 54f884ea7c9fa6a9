package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/justsurfingit/lead-scout/internal/grounding"
	"github.com/justsurfingit/lead-scout/internal/models"
)

// --- Perplexity ---

func TestPerplexity_Generate(t *testing.T) {
	var got pplxRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `[{"name":"Acme"}]`}},
			},
			"citations": []string{"https://a.test"},
			"search_results": []map[string]any{
				{"title": "Acme on Yelp", "url": "https://yelp.test/acme"},
				{"title": "", "url": "https://b.test"},
			},
		})
	}))
	defer srv.Close()

	p, err := NewPerplexity("test-key", WithPerplexityBaseURL(srv.URL+"/"), WithPerplexityModel("sonar"))
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		Prompt:    "plumbers",
		Location:  &models.Coordinates{Latitude: 30.2, Longitude: -97.7},
		Grounding: GroundingMaps,
		JSON:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, `[{"name":"Acme"}]`, resp.Text)
	assert.Equal(t, []grounding.Chunk{
		{Kind: grounding.KindMap, Title: "Acme on Yelp", URI: "https://yelp.test/acme"},
		{Kind: grounding.KindMap, Title: "https://b.test", URI: "https://b.test"},
	}, resp.Chunks)

	assert.Equal(t, "sonar", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "plumbers", got.Messages[1].Content)
	require.NotNil(t, got.WebSearchOptions)
	assert.InDelta(t, 30.2, got.WebSearchOptions.UserLocation.Latitude, 0.0001)
}

func TestPerplexity_CitationFallback(t *testing.T) {
	chunks := perplexityChunks(pplxResponse{Citations: []string{"https://a.test"}}, grounding.KindWeb)
	assert.Equal(t, []grounding.Chunk{{Kind: grounding.KindWeb, Title: "https://a.test", URI: "https://a.test"}}, chunks)
}

func TestPerplexity_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		empty  bool
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, false},
		{"bad json", http.StatusOK, `not json`, false},
		{"no choices", http.StatusOK, `{"choices":[]}`, true},
		{"blank content", http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p, err := NewPerplexity("k", WithPerplexityBaseURL(srv.URL))
			require.NoError(t, err)

			_, err = p.Generate(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.empty, errors.Is(err, ErrEmptyResponse))
		})
	}
}

func TestNewPerplexity_RequiresKey(t *testing.T) {
	_, err := NewPerplexity("")
	assert.Error(t, err)
}

// --- Anthropic ---

func TestAnthropic_Generate(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/messages")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":   "msg_1",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "[]"},
			},
			"model":       DefaultAnthropicModel,
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 3, "output_tokens": 1},
		})
	}))
	defer srv.Close()

	a, err := NewAnthropic("test-key", "", 0, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)

	resp, err := a.Generate(context.Background(), Request{Prompt: "find jobs", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, "[]", resp.Text)
	assert.Empty(t, resp.Chunks)

	assert.Equal(t, DefaultAnthropicModel, body["model"])
	assert.EqualValues(t, DefaultAnthropicMaxTokens, body["max_tokens"])
	assert.NotNil(t, body["system"])
}

func TestAnthropic_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	a, err := NewAnthropic("test-key", "", 0, option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	require.NoError(t, err)

	_, err = a.Generate(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
}

// --- Gemini ---

type fakeModel struct {
	resp *llms.ContentResponse
	err  error
	opts llms.CallOptions
}

func (f *fakeModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, o := range options {
		o(&f.opts)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestGemini_Generate(t *testing.T) {
	uri := "https://maps.test/acme"
	fm := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content: "Acme Plumbing, Austin",
		GenerationInfo: map[string]any{
			"citations": map[string]any{
				"citationSources": []map[string]any{{"uri": uri}, {"uri": ""}},
			},
		},
	}}}}

	resp, err := NewGeminiFromModel(fm).Generate(context.Background(), Request{
		Prompt:    "plumbers",
		Grounding: GroundingMaps,
		JSON:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Plumbing, Austin", resp.Text)
	assert.Equal(t, []grounding.Chunk{{Kind: grounding.KindMap, Title: uri, URI: uri}}, resp.Chunks)
	assert.True(t, fm.opts.JSONMode)
}

func TestGemini_Failures(t *testing.T) {
	_, err := NewGeminiFromModel(&fakeModel{err: errors.New("quota")}).Generate(context.Background(), Request{})
	assert.Error(t, err)

	_, err = NewGeminiFromModel(&fakeModel{resp: &llms.ContentResponse{}}).Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = NewGeminiFromModel(&fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: " "}}}}).
		Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGeminiChunks_NoCitations(t *testing.T) {
	assert.Nil(t, geminiChunks(nil, grounding.KindWeb))
	assert.Nil(t, geminiChunks(map[string]any{"citations": nil}, grounding.KindWeb))
}
