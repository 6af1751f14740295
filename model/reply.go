package model

// ReplyKind classifies the terminal state of a single model exchange.
// Every provider response is exactly one of these; callers switch on Kind
// and never inspect raw SDK stop reasons.
type ReplyKind int

const (
	// ReplyFinalText is a complete natural-language answer.
	ReplyFinalText ReplyKind = iota

	// ReplyToolCall means the model requested a tool invocation. Text may
	// carry preamble emitted before the call.
	ReplyToolCall

	// ReplyBlocked means the backend refused to answer on safety grounds.
	ReplyBlocked

	// ReplyPartialStop means generation stopped early (token limit). Text
	// holds whatever was produced, possibly nothing.
	ReplyPartialStop
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyFinalText:
		return "final_text"
	case ReplyToolCall:
		return "tool_call"
	case ReplyBlocked:
		return "blocked"
	case ReplyPartialStop:
		return "partial_stop"
	}
	return "unknown"
}

// Reply is the provider-agnostic result of one model exchange.
type Reply struct {
	Kind     ReplyKind
	Text     string
	ToolCall *ToolCall // set only when Kind == ReplyToolCall
}
