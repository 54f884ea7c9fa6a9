package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/justsurfingit/lead-scout/internal/grounding"
)

const (
	DefaultPerplexityBaseURL = "https://api.perplexity.ai"
	DefaultPerplexityModel   = "sonar-pro"
)

// PerplexityOption configures the Perplexity provider.
type PerplexityOption func(*Perplexity)

func WithPerplexityBaseURL(url string) PerplexityOption {
	return func(p *Perplexity) {
		if url != "" {
			p.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithPerplexityModel(model string) PerplexityOption {
	return func(p *Perplexity) {
		if model != "" {
			p.model = model
		}
	}
}

func WithPerplexityHTTPClient(hc *http.Client) PerplexityOption {
	return func(p *Perplexity) {
		p.http = hc
	}
}

// Perplexity generates through the chat completions API and reports its
// search results as web citations.
type Perplexity struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

func NewPerplexity(apiKey string, opts ...PerplexityOption) (*Perplexity, error) {
	if apiKey == "" {
		return nil, eris.New("perplexity: api key is required")
	}
	p := &Perplexity{
		apiKey:  apiKey,
		baseURL: DefaultPerplexityBaseURL,
		model:   DefaultPerplexityModel,
		http: &http.Client{
			Timeout: 90 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

func (p *Perplexity) Name() string { return "perplexity" }

type pplxMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type pplxUserLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type pplxSearchOptions struct {
	UserLocation *pplxUserLocation `json:"user_location,omitempty"`
}

type pplxRequest struct {
	Model            string             `json:"model"`
	Messages         []pplxMessage      `json:"messages"`
	WebSearchOptions *pplxSearchOptions `json:"web_search_options,omitempty"`
}

type pplxSearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type pplxResponse struct {
	Choices []struct {
		Message pplxMessage `json:"message"`
	} `json:"choices"`
	Citations     []string           `json:"citations"`
	SearchResults []pplxSearchResult `json:"search_results"`
}

func (p *Perplexity) Generate(ctx context.Context, req Request) (*Response, error) {
	body := pplxRequest{Model: p.model}
	if req.JSON {
		body.Messages = append(body.Messages, pplxMessage{Role: "system", Content: jsonSystemPrompt})
	}
	body.Messages = append(body.Messages, pplxMessage{Role: "user", Content: req.Prompt})
	if req.Location != nil {
		body.WebSearchOptions = &pplxSearchOptions{UserLocation: &pplxUserLocation{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}}
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "perplexity: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, eris.Wrap(err, "perplexity: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "perplexity: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "perplexity: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("perplexity: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var out pplxResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, eris.Wrap(err, "perplexity: unmarshal response")
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Text:   out.Choices[0].Message.Content,
		Chunks: perplexityChunks(out, chunkKind(req.Grounding)),
	}, nil
}

// perplexityChunks prefers the titled search results and falls back to the
// bare citation URLs.
func perplexityChunks(r pplxResponse, kind grounding.ChunkKind) []grounding.Chunk {
	var out []grounding.Chunk
	if len(r.SearchResults) > 0 {
		for _, s := range r.SearchResults {
			title := s.Title
			if title == "" {
				title = s.URL
			}
			out = append(out, grounding.Chunk{Kind: kind, Title: title, URI: s.URL})
		}
		return out
	}
	for _, u := range r.Citations {
		out = append(out, grounding.Chunk{Kind: kind, Title: u, URI: u})
	}
	return out
}
