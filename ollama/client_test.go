package ollama

import "testing"

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.GetModel() != "llama3.1:latest" {
		t.Errorf("expected default model, got %q", client.GetModel())
	}
}

func TestSetModel(t *testing.T) {
	client, err := NewClient("http://localhost:11434", "llama3.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client.SetModel("qwen2.5:7b")
	if client.GetModel() != "qwen2.5:7b" {
		t.Errorf("expected qwen2.5:7b, got %q", client.GetModel())
	}
}

func TestModelSupportsToolCalling(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		support bool
	}{
		{"llama3.1 supports tools", "llama3.1:latest", true},
		{"llama3.2 matched before llama3", "llama3.2:3b", true},
		{"original llama3 does not", "llama3:8b", false},
		{"qwen supports tools", "qwen2.5:7b", true},
		{"mistral supports tools", "mistral:latest", true},
		{"gemma does not", "gemma2:9b", false},
		{"case insensitive", "Mistral:Latest", true},
		{"unknown model defaults to false", "totally-new-model", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModelSupportsToolCalling(tt.model); got != tt.support {
				t.Errorf("ModelSupportsToolCalling(%q) = %v, want %v", tt.model, got, tt.support)
			}
		})
	}
}
