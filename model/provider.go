package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Provider abstracts LLM backends (Ollama, OpenAI, Anthropic) behind
// provider-agnostic types.
//
// This interface is defined in the model package (not provider package) to
// avoid import cycles: provider implementations import model, and consumers
// of the interface never need the provider package.
type Provider interface {
	// ChatWithTools sends the conversation with the available tools,
	// streams text chunks via callback, and returns the classified
	// outcome of the exchange. A non-nil error means the backend was
	// unreachable or the call failed; Reply is only meaningful when
	// err is nil.
	ChatWithTools(ctx context.Context, messages []Message, tools []mcptypes.Tool, callback StreamCallback) (Reply, error)

	// GetModel returns the currently selected model name.
	GetModel() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// StreamCallback is called for each chunk of streamed response text.
// A nil callback is allowed; providers must tolerate it.
type StreamCallback func(chunk string) error
