package provider

import (
	"context"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"

	"cognito/model"
	"cognito/ollama"
)

// OllamaProvider wraps ollama.Client to implement the Provider interface.
type OllamaProvider struct {
	client *ollama.Client
}

func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{
		client: client,
	}, nil
}

// ChatWithTools implements Provider.ChatWithTools. Ollama never reports a
// safety refusal, so the outcome is one of tool call, partial stop
// ("length") or final text.
func (p *OllamaProvider) ChatWithTools(ctx context.Context, messages []model.Message, tools []mcptypes.Tool, callback model.StreamCallback) (model.Reply, error) {
	ollamaMessages := ConvertToOllamaMessages(messages)
	ollamaTools := ConvertToolsToOllama(tools)

	var text strings.Builder
	var toolCalls []model.ToolCall

	streamCB := func(chunk string, calls []api.ToolCall) error {
		if len(calls) > 0 && len(toolCalls) == 0 {
			toolCalls = ConvertToProviderToolCalls(calls)
		}
		if chunk != "" {
			text.WriteString(chunk)
			if callback != nil {
				return callback(chunk)
			}
		}
		return nil
	}

	doneReason, err := p.client.ChatWithTools(ctx, ollamaMessages, ollamaTools, streamCB)
	if err != nil {
		return model.Reply{}, fmt.Errorf("ollama chat failed: %w", err)
	}

	if len(toolCalls) > 0 {
		call := toolCalls[0]
		return model.Reply{
			Kind:     model.ReplyToolCall,
			Text:     text.String(),
			ToolCall: &call,
		}, nil
	}

	if doneReason == "length" {
		return model.Reply{Kind: model.ReplyPartialStop, Text: text.String()}, nil
	}

	return model.Reply{Kind: model.ReplyFinalText, Text: text.String()}, nil
}

func (p *OllamaProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return p.client.ListModels(ctx)
}

func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) SetModel(modelName string) {
	p.client.SetModel(modelName)
}

func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}
