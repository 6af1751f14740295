package provider

import (
	"context"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"cognito/model"
)

// OpenAIProvider implements the Provider interface using the official
// OpenAI Go SDK.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		model:   model,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// ChatWithTools implements Provider.ChatWithTools with streaming. The
// finish reason maps to the reply kind: tool_calls, content_filter and
// length become tool call, blocked and partial stop respectively.
func (p *OpenAIProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) (model.Reply, error) {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(messages),
		Model:    openai.ChatModel(p.model),
	}
	if len(tools) > 0 {
		params.Tools = ConvertToolsToOpenAI(tools)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	acc := openai.ChatCompletionAccumulator{}

	var text strings.Builder
	var toolCall *model.ToolCall

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if tool, ok := acc.JustFinishedToolCall(); ok && toolCall == nil {
			toolCall = &model.ToolCall{
				Name:      tool.Name,
				Arguments: ParseToolArguments(tool.Arguments),
			}
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			content := chunk.Choices[0].Delta.Content
			text.WriteString(content)
			if callback != nil {
				if err := callback(content); err != nil {
					return model.Reply{}, err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return model.Reply{}, fmt.Errorf("OpenAI streaming error: %w", err)
	}

	if toolCall != nil {
		return model.Reply{Kind: model.ReplyToolCall, Text: text.String(), ToolCall: toolCall}, nil
	}

	var finishReason string
	if len(acc.Choices) > 0 {
		finishReason = acc.Choices[0].FinishReason
	}

	switch finishReason {
	case "content_filter":
		return model.Reply{Kind: model.ReplyBlocked}, nil
	case "length":
		return model.Reply{Kind: model.ReplyPartialStop, Text: text.String()}, nil
	default:
		return model.Reply{Kind: model.ReplyFinalText, Text: text.String()}, nil
	}
}

func (p *OpenAIProvider) GetModel() string {
	return p.model
}

func (p *OpenAIProvider) SetModel(model string) {
	p.model = model
}

// Ping implements Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}
