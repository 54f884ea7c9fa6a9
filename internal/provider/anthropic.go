package provider

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

const (
	DefaultAnthropicModel     = "claude-sonnet-4-5-20250929"
	DefaultAnthropicMaxTokens = 8192
)

const jsonSystemPrompt = "Respond with JSON only. Do not add commentary before or after the JSON."

// Anthropic generates through the Messages API. It reports no citation
// chunks.
type Anthropic struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

func NewAnthropic(apiKey, model string, maxTokens int64, opts ...option.RequestOption) (*Anthropic, error) {
	if apiKey == "" {
		return nil, eris.New("anthropic: api key is required")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = DefaultAnthropicMaxTokens
	}
	return &Anthropic{
		client:    sdk.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Generate(ctx context.Context, req Request) (*Response, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	}
	if req.JSON {
		params.System = []sdk.TextBlockParam{{Text: jsonSystemPrompt}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: create message")
	}

	var sb strings.Builder
	for _, b := range msg.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return nil, ErrEmptyResponse
	}
	return &Response{Text: sb.String()}, nil
}
