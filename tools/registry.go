package tools

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

var (
	ErrDuplicateTool = errors.New("tool already registered")
	ErrUnknownTool   = errors.New("unknown tool")
)

// Registry keeps the mapping between tool names and their specs.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Spec
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Spec),
	}
}

// Register inserts a spec when its name is not in use.
func (r *Registry) Register(spec Spec) error {
	if spec.Name == "" {
		return fmt.Errorf("tool name is empty")
	}
	if spec.Handler == nil {
		return fmt.Errorf("tool %s has no handler", spec.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, spec.Name)
	}

	r.tools[spec.Name] = spec
	return nil
}

// Get fetches a spec by name.
func (r *Registry) Get(name string) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, exists := r.tools[name]
	if !exists {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return spec, nil
}

// List produces a name-sorted snapshot of all registered specs.
func (r *Registry) List() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Spec, 0, len(r.tools))
	for _, spec := range r.tools {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// MCPTools returns the schemas of all registered tools in the neutral
// format handed to providers.
func (r *Registry) MCPTools() []mcptypes.Tool {
	specs := r.List()
	if len(specs) == 0 {
		return nil
	}
	result := make([]mcptypes.Tool, len(specs))
	for i, spec := range specs {
		result[i] = spec.MCPTool()
	}
	return result
}
