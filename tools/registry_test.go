package tools

import (
	"context"
	"errors"
	"testing"
)

func noopHandler(ctx context.Context, args map[string]any) (any, error) {
	return "ok", nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	spec := Spec{Name: "web_search", Description: "search", Handler: noopHandler}
	if err := r.Register(spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.Get("web_search")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "web_search" {
		t.Errorf("expected web_search, got %q", got.Name)
	}
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	r := NewRegistry()

	spec := Spec{Name: "run_command", Handler: noopHandler}
	if err := r.Register(spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := r.Register(spec)
	if err == nil {
		t.Fatal("expected error on duplicate registration, got nil")
	}
	if !errors.Is(err, ErrDuplicateTool) {
		t.Errorf("expected ErrDuplicateTool, got %v", err)
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("no_such_tool")
	if err == nil {
		t.Fatal("expected error for unknown tool, got nil")
	}
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"send_email", "fetch_webpage", "run_command"} {
		if err := r.Register(Spec{Name: name, Handler: noopHandler}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list := r.List()
	want := []string{"fetch_webpage", "run_command", "send_email"}
	if len(list) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(list))
	}
	for i, spec := range list {
		if spec.Name != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], spec.Name)
		}
	}
}

func TestRegistryMCPTools(t *testing.T) {
	r := NewRegistry()

	spec := Spec{
		Name:        "web_search",
		Description: "Search the web",
		Params: map[string]Param{
			"query": {Type: "string", Description: "search terms", Required: true},
		},
		Handler: noopHandler,
	}
	if err := r.Register(spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mcpTools := r.MCPTools()
	if len(mcpTools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(mcpTools))
	}

	tool := mcpTools[0]
	if tool.Name != "web_search" {
		t.Errorf("expected web_search, got %q", tool.Name)
	}
	if tool.InputSchema.Type != "object" {
		t.Errorf("expected object schema, got %q", tool.InputSchema.Type)
	}
	if _, ok := tool.InputSchema.Properties["query"]; !ok {
		t.Error("expected query property in schema")
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "query" {
		t.Errorf("expected required=[query], got %v", tool.InputSchema.Required)
	}
}
