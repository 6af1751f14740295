// Package provider implements model.Provider against concrete LLM
// backends: a local Ollama server and the hosted OpenAI and Anthropic
// APIs. Each implementation converts between the provider-agnostic model
// types and its SDK's wire types, and classifies every exchange into a
// model.Reply so callers never see SDK stop reasons.
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Config carries the settings needed to construct any provider.
type Config struct {
	Type    ProviderType
	BaseURL string
	APIKey  string
	Model   string
}
