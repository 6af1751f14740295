package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cognito/config"
	"cognito/model"
	"cognito/storage"
	"cognito/tools"
)

// Fixed user-safe responses. Model-backend failures terminate the request
// with one of these instead of surfacing an error to the caller.
const (
	BlockedMessage = "I'm sorry, but I can't help with that request."

	UnavailableMessage = "I'm having trouble reaching my language model right now. " +
		"Please try again in a moment."

	TruncatedMessage = "I wasn't able to finish composing a response. " +
		"Could you try rephrasing or narrowing the request?"

	LoopLimitMessage = "I'm sorry, I wasn't able to complete that request after " +
		"several attempts with my tools. Could you try rephrasing it?"
)

// loopState tracks where a request is in its model/tool cycle.
type loopState int

const (
	stateAwaitingModel loopState = iota
	stateToolRequested
	stateToolExecuting
	stateTerminal
)

func (s loopState) String() string {
	switch s {
	case stateAwaitingModel:
		return "awaiting_model"
	case stateToolRequested:
		return "tool_requested"
	case stateToolExecuting:
		return "tool_executing"
	case stateTerminal:
		return "terminal"
	}
	return "unknown"
}

// Orchestrator drives a conversation: it owns the session, calls the
// model, routes tool requests through the executor, and turns every
// failure mode into a spoken-safe reply. One request runs at a time;
// Submit serializes callers.
type Orchestrator struct {
	mu sync.Mutex

	provider   model.Provider
	registry   *tools.Registry
	executor   *tools.Executor
	classifier *Classifier
	session    *Session

	persona   string
	maxRounds int

	store   *storage.SessionStorage
	record  *storage.Session
	onChunk model.StreamCallback
}

type Option func(*Orchestrator)

// WithSessionStore mirrors the conversation to disk after each request.
func WithSessionStore(store *storage.SessionStorage) Option {
	return func(o *Orchestrator) { o.store = store }
}

// WithStreamCallback forwards model text chunks as they arrive.
func WithStreamCallback(cb model.StreamCallback) Option {
	return func(o *Orchestrator) { o.onChunk = cb }
}

// WithRestoredSession resumes a previously saved conversation instead of
// starting empty. A nil record starts fresh.
func WithRestoredSession(rec *storage.Session) Option {
	return func(o *Orchestrator) {
		if rec != nil {
			o.adoptRecord(rec)
		}
	}
}

func WithMaxRounds(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxRounds = n
		}
	}
}

func NewOrchestrator(provider model.Provider, registry *tools.Registry, executor *tools.Executor, persona string, maxHistory int, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider:   provider,
		registry:   registry,
		executor:   executor,
		classifier: NewClassifier(),
		session:    NewSession(maxHistory),
		persona:    persona,
		maxRounds:  8,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.executor.SetSession(o.session.ID())
	return o
}

// GetModel reports the active model name for status displays.
func (o *Orchestrator) GetModel() string {
	return o.provider.GetModel()
}

// SessionID returns the identity of the active conversation.
func (o *Orchestrator) SessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.ID()
}

// History returns a copy of the retained conversation turns.
func (o *Orchestrator) History() []model.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.History()
}

// ResetSession discards the conversation and starts a new one. The next
// request re-issues the persona against an empty context.
func (o *Orchestrator) ResetSession() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session.Reset()
	o.record = nil
	o.executor.SetSession(o.session.ID())
}

// SwitchSession makes a stored conversation the active one and marks it
// as the session to resume on the next start.
func (o *Orchestrator) SwitchSession(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.store == nil {
		return fmt.Errorf("no session store configured")
	}
	rec, err := o.store.Load(id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	o.adoptRecord(rec)
	if err := o.store.SaveCurrentSessionID(rec.ID); err != nil {
		o.debugf("current session pointer update failed: %v", err)
	}
	return nil
}

// adoptRecord seeds the live conversation from a stored session,
// including the model it was running against.
func (o *Orchestrator) adoptRecord(rec *storage.Session) {
	turns := make([]model.Message, len(rec.Messages))
	for i, m := range rec.Messages {
		turns[i] = model.Message{
			Role:      m.Role,
			Content:   m.Content,
			ToolName:  m.ToolName,
			ToolArgs:  m.ToolArgs,
			Timestamp: m.Timestamp,
		}
	}
	o.session.Restore(rec.ID, turns)
	o.record = rec
	o.executor.SetSession(o.session.ID())
	if rec.Model != "" {
		o.provider.SetModel(rec.Model)
	}
}

// Submit processes one user utterance to completion and returns the final
// response text. Model-side failures (blocked, truncated, unreachable)
// come back as fixed safe messages with a nil error; the error return is
// reserved for caller mistakes such as an empty utterance.
func (o *Orchestrator) Submit(ctx context.Context, utterance string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return "", fmt.Errorf("empty utterance")
	}

	// Pre-fetch is an optimization only: its output rides along as
	// context and is never recorded as a turn.
	prefetch := o.maybePrefetch(ctx, utterance)

	o.session.Append(model.Message{Role: model.RoleUser, Content: utterance})

	state := stateAwaitingModel
	response := o.runLoop(ctx, prefetch, &state)

	o.persist()
	return response, nil
}

// runLoop is the model/tool cycle for a single request. At most maxRounds
// model exchanges happen; each is terminal unless it requests a tool.
func (o *Orchestrator) runLoop(ctx context.Context, prefetch string, state *loopState) string {
	for round := 1; round <= o.maxRounds; round++ {
		*state = stateAwaitingModel
		o.debugf("round %d/%d state=%s", round, o.maxRounds, *state)

		reply, err := o.provider.ChatWithTools(ctx, o.buildModelMessages(prefetch), o.registry.MCPTools(), o.onChunk)
		if err != nil {
			o.debugf("model unavailable: %v", err)
			*state = stateTerminal
			o.appendAssistant(UnavailableMessage)
			return UnavailableMessage
		}

		switch reply.Kind {
		case model.ReplyFinalText:
			*state = stateTerminal
			o.appendAssistant(reply.Text)
			return reply.Text

		case model.ReplyBlocked:
			// The user turn stays; no assistant turn is recorded for
			// blocked content.
			*state = stateTerminal
			o.debugf("model blocked the request")
			return BlockedMessage

		case model.ReplyPartialStop:
			*state = stateTerminal
			if text := strings.TrimSpace(reply.Text); text != "" {
				o.appendAssistant(reply.Text)
				return reply.Text
			}
			o.appendAssistant(TruncatedMessage)
			return TruncatedMessage

		case model.ReplyToolCall:
			*state = stateToolRequested
			call := reply.ToolCall
			o.debugf("tool requested: %s", call.Name)

			o.session.Append(model.Message{
				Role:     model.RoleAssistant,
				Content:  reply.Text,
				ToolName: call.Name,
				ToolArgs: call.Arguments,
			})

			*state = stateToolExecuting
			result := o.executor.Execute(ctx, call.Name, call.Arguments)

			o.session.Append(model.Message{
				Role:     model.RoleTool,
				ToolName: call.Name,
				Content:  result.Text(),
			})
			// Loop back: the model sees the result and decides what is next.

		default:
			*state = stateTerminal
			o.debugf("unexpected reply kind %s", reply.Kind)
			o.appendAssistant(UnavailableMessage)
			return UnavailableMessage
		}
	}

	*state = stateTerminal
	o.debugf("loop bound reached after %d rounds", o.maxRounds)
	o.appendAssistant(LoopLimitMessage)
	return LoopLimitMessage
}

// buildModelMessages layers the outgoing request: persona first, then any
// pre-fetched context, then the conversation history.
func (o *Orchestrator) buildModelMessages(prefetch string) []model.Message {
	history := o.session.History()
	messages := make([]model.Message, 0, len(history)+2)

	if o.persona != "" {
		messages = append(messages, model.Message{Role: model.RoleSystem, Content: o.persona})
	}
	if prefetch != "" {
		messages = append(messages, model.Message{
			Role:    model.RoleSystem,
			Content: "Context from a quick web search (may help answer the next question):\n" + prefetch,
		})
	}

	return append(messages, history...)
}

// maybePrefetch runs a web search ahead of the model call when the
// classifier is confident the utterance needs one. Failures are silent;
// the model can still call the tool itself.
func (o *Orchestrator) maybePrefetch(ctx context.Context, utterance string) string {
	cls := o.classifier.Classify(utterance)
	if cls.Intent != IntentWebSearch || !cls.Actionable() {
		return ""
	}

	if _, err := o.registry.Get("web_search"); err != nil {
		return ""
	}

	o.debugf("pre-fetching web search for intent %s (%.2f)", cls.Intent, cls.Confidence)
	result := o.executor.Execute(ctx, "web_search", map[string]any{"query": utterance})
	if result.Status != tools.StatusSuccess {
		o.debugf("pre-fetch skipped: %s", result.Status)
		return ""
	}
	return result.Text()
}

func (o *Orchestrator) appendAssistant(text string) {
	o.session.Append(model.Message{Role: model.RoleAssistant, Content: text})
}

// persist mirrors the in-memory session to the store when one is
// configured. Persistence failures are logged, never fatal.
func (o *Orchestrator) persist() {
	if o.store == nil {
		return
	}

	if o.record == nil {
		o.record = &storage.Session{
			ID:      o.session.ID(),
			Model:   o.provider.GetModel(),
			Persona: o.persona,
		}
	}

	history := o.session.History()
	o.record.Messages = make([]storage.Message, len(history))
	for i, msg := range history {
		o.record.Messages[i] = storage.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			ToolName:  msg.ToolName,
			ToolArgs:  msg.ToolArgs,
			Timestamp: msg.Timestamp,
		}
	}
	if o.record.Name == "" && len(history) > 0 && history[0].Role == model.RoleUser {
		o.record.Name = storage.GenerateSessionName(history[0].Content)
	}

	if err := o.store.Save(o.record); err != nil {
		o.debugf("session persist failed: %v", err)
		return
	}
	if err := o.store.SaveCurrentSessionID(o.record.ID); err != nil {
		o.debugf("current session pointer update failed: %v", err)
	}
}

func (o *Orchestrator) debugf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("orchestrator: "+format, args...)
	}
}
