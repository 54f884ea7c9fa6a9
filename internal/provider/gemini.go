package provider

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/justsurfingit/lead-scout/internal/grounding"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates through a langchaingo model, normally googleai.
type Gemini struct {
	llm llms.Model
}

// NewGemini connects the Gemini client for model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, eris.New("gemini: api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}
	return NewGeminiFromModel(llm), nil
}

func NewGeminiFromModel(llm llms.Model) *Gemini {
	return &Gemini{llm: llm}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}
	var opts []llms.CallOption
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := g.llm.GenerateContent(ctx, msgs, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Content) == "" {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Text:   choice.Content,
		Chunks: geminiChunks(choice.GenerationInfo, chunkKind(req.Grounding)),
	}, nil
}

// geminiCitations mirrors the citation metadata googleai stores under
// GenerationInfo["citations"].
type geminiCitations struct {
	CitationSources []struct {
		URI     *string `json:"uri"`
		License string  `json:"license"`
	} `json:"citationSources"`
}

func geminiChunks(info map[string]any, kind grounding.ChunkKind) []grounding.Chunk {
	raw, ok := info["citations"]
	if !ok || raw == nil {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var meta geminiCitations
	if err := json.Unmarshal(b, &meta); err != nil {
		return nil
	}

	var out []grounding.Chunk
	for _, src := range meta.CitationSources {
		if src.URI == nil || *src.URI == "" {
			continue
		}
		out = append(out, grounding.Chunk{Kind: kind, Title: *src.URI, URI: *src.URI})
	}
	return out
}
