package provider

import (
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"

	"cognito/model"
)

func sampleTool() mcptypes.Tool {
	return mcptypes.Tool{
		Name:        "web_search",
		Description: "Search the web",
		InputSchema: mcptypes.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
			},
			Required: []string{"query"},
		},
	}
}

func TestConvertToOllamaMessages(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleSystem, Content: "persona"},
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi"},
		{Role: model.RoleTool, Content: "result"},
	}

	converted := ConvertToOllamaMessages(messages)
	if len(converted) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(converted))
	}
	for i, msg := range messages {
		if converted[i].Role != msg.Role || converted[i].Content != msg.Content {
			t.Errorf("message %d mangled: %+v", i, converted[i])
		}
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	messages := []model.Message{
		{Role: model.RoleSystem, Content: "persona"},
		{Role: model.RoleUser, Content: "hello"},
		{Role: model.RoleAssistant, Content: "hi"},
		{Role: model.RoleTool, Content: "tool output"},
	}

	converted := ConvertToOpenAIMessages(messages)
	if len(converted) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(converted))
	}
	if converted[0].OfSystem == nil {
		t.Error("system message not converted as system")
	}
	if converted[1].OfUser == nil {
		t.Error("user message not converted as user")
	}
	if converted[2].OfAssistant == nil {
		t.Error("assistant message not converted as assistant")
	}
	// Tool results ride back as user messages.
	if converted[3].OfUser == nil {
		t.Error("tool result not converted as user message")
	}
}

func TestParseToolArguments(t *testing.T) {
	tests := []struct {
		name string
		json string
		want map[string]any
	}{
		{
			name: "valid object",
			json: `{"query": "weather", "limit": 5}`,
			want: map[string]any{"query": "weather", "limit": float64(5)},
		},
		{
			name: "invalid json yields empty map",
			json: `{broken`,
			want: map[string]any{},
		},
		{
			name: "empty string yields empty map",
			json: ``,
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseToolArguments(tt.json)
			if got == nil {
				t.Fatal("expected non-nil map")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d keys, got %d", len(tt.want), len(got))
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("key %q: expected %v, got %v", k, v, got[k])
				}
			}
		})
	}
}

func TestConvertToProviderToolCalls(t *testing.T) {
	if got := ConvertToProviderToolCalls(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}

	calls := []api.ToolCall{
		{
			Function: api.ToolCallFunction{
				Name:      "web_search",
				Arguments: map[string]any{"query": "weather"},
			},
		},
	}
	converted := ConvertToProviderToolCalls(calls)
	if len(converted) != 1 {
		t.Fatalf("expected 1 call, got %d", len(converted))
	}
	if converted[0].Name != "web_search" {
		t.Errorf("unexpected name: %q", converted[0].Name)
	}
	if converted[0].Arguments["query"] != "weather" {
		t.Errorf("arguments lost: %v", converted[0].Arguments)
	}
}

func TestConvertToolsToOllama(t *testing.T) {
	if got := ConvertToolsToOllama(nil); got != nil {
		t.Errorf("expected nil for no tools, got %v", got)
	}

	converted := ConvertToolsToOllama([]mcptypes.Tool{sampleTool()})
	if len(converted) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(converted))
	}

	tool := converted[0]
	if tool.Type != "function" {
		t.Errorf("expected function type, got %q", tool.Type)
	}
	if tool.Function.Name != "web_search" {
		t.Errorf("unexpected name: %q", tool.Function.Name)
	}

	prop, ok := tool.Function.Parameters.Properties["query"]
	if !ok {
		t.Fatal("query property missing")
	}
	if len(prop.Type) != 1 || prop.Type[0] != "string" {
		t.Errorf("unexpected property type: %v", prop.Type)
	}
	if prop.Description != "The search query" {
		t.Errorf("description lost: %q", prop.Description)
	}
	if len(tool.Function.Parameters.Required) != 1 || tool.Function.Parameters.Required[0] != "query" {
		t.Errorf("required list mangled: %v", tool.Function.Parameters.Required)
	}
}

func TestConvertToolsToOpenAI(t *testing.T) {
	converted := ConvertToolsToOpenAI([]mcptypes.Tool{sampleTool()})
	if len(converted) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(converted))
	}

	fn := converted[0].OfFunction
	if fn == nil {
		t.Fatal("expected a function tool")
	}
	if fn.Function.Name != "web_search" {
		t.Errorf("unexpected name: %q", fn.Function.Name)
	}
	params := fn.Function.Parameters
	if params["type"] != "object" {
		t.Errorf("schema type lost: %v", params["type"])
	}
	if _, ok := params["properties"]; !ok {
		t.Error("properties missing from schema")
	}
	if _, ok := params["required"]; !ok {
		t.Error("required missing from schema")
	}
}

func TestConvertToolsToAnthropic(t *testing.T) {
	converted := ConvertToolsToAnthropic([]mcptypes.Tool{sampleTool()})
	if len(converted) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(converted))
	}

	tool := converted[0].OfTool
	if tool == nil {
		t.Fatal("expected a plain tool variant")
	}
	if tool.Name != "web_search" {
		t.Errorf("unexpected name: %q", tool.Name)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "query" {
		t.Errorf("required list mangled: %v", tool.InputSchema.Required)
	}
	if tool.Description.Value != "Search the web" {
		t.Errorf("description lost: %q", tool.Description.Value)
	}
}
