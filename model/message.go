package model

import "time"

// Turn roles. A conversation is an ordered sequence of turns; tool turns
// always follow the assistant turn that requested them.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message represents one turn in the conversation
type Message struct {
	Role      string
	Content   string
	ToolName  string         // set on assistant turns that requested a tool, and on tool turns
	ToolArgs  map[string]any // set on assistant turns that requested a tool
	Timestamp time.Time
}

// IsToolRequest reports whether this assistant turn carries a tool call.
func (m Message) IsToolRequest() bool {
	return m.Role == RoleAssistant && m.ToolName != ""
}

// ToolCall is the provider-agnostic form of a model-requested tool
// invocation. Provider implementations convert their SDK types into this.
type ToolCall struct {
	Name      string
	Arguments map[string]any
}
