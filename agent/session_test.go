package agent

import (
	"fmt"
	"testing"

	"cognito/model"
)

func TestSessionAppendPreservesOrder(t *testing.T) {
	s := NewSession(10)

	s.Append(model.Message{Role: model.RoleUser, Content: "first"})
	s.Append(model.Message{Role: model.RoleAssistant, Content: "second"})
	s.Append(model.Message{Role: model.RoleUser, Content: "third"})

	history := s.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}
	for i, want := range []string{"first", "second", "third"} {
		if history[i].Content != want {
			t.Errorf("turn %d: expected %q, got %q", i, want, history[i].Content)
		}
	}
	if history[0].Timestamp.IsZero() {
		t.Error("expected turns to be timestamped on append")
	}
}

func TestSessionHistoryIsACopy(t *testing.T) {
	s := NewSession(10)
	s.Append(model.Message{Role: model.RoleUser, Content: "original"})

	history := s.History()
	history[0].Content = "mutated"

	if s.History()[0].Content != "original" {
		t.Error("History() must return a copy, not the backing slice")
	}
}

func TestSessionEvictionKeepsPairs(t *testing.T) {
	s := NewSession(4)

	// Three exchanges of user + assistant; cap is 4 turns.
	for i := 0; i < 3; i++ {
		s.Append(model.Message{Role: model.RoleUser, Content: fmt.Sprintf("q%d", i)})
		s.Append(model.Message{Role: model.RoleAssistant, Content: fmt.Sprintf("a%d", i)})
	}

	history := s.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 retained turns, got %d", len(history))
	}
	if history[0].Role != model.RoleUser || history[0].Content != "q1" {
		t.Errorf("expected oldest exchange evicted whole, history starts with %s %q", history[0].Role, history[0].Content)
	}
	if s.TurnCount() != 6 {
		t.Errorf("TurnCount should be monotonic: expected 6, got %d", s.TurnCount())
	}
}

func TestSessionEvictionNeverSplitsToolPair(t *testing.T) {
	s := NewSession(4)

	s.Append(model.Message{Role: model.RoleUser, Content: "old question"})
	s.Append(model.Message{Role: model.RoleAssistant, Content: "old answer"})

	// One exchange containing a tool round-trip.
	s.Append(model.Message{Role: model.RoleUser, Content: "weather?"})
	s.Append(model.Message{Role: model.RoleAssistant, ToolName: "web_search", ToolArgs: map[string]any{"query": "weather"}})
	s.Append(model.Message{Role: model.RoleTool, ToolName: "web_search", Content: "sunny"})
	s.Append(model.Message{Role: model.RoleAssistant, Content: "It is sunny."})

	history := s.History()
	if len(history) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(history))
	}
	if history[0].Content != "weather?" {
		t.Errorf("expected the tool exchange kept intact, history starts with %q", history[0].Content)
	}
	// The assistant tool request must still be directly followed by its result.
	if history[1].Role != model.RoleAssistant || history[2].Role != model.RoleTool {
		t.Errorf("tool request/result pair split: roles %s, %s", history[1].Role, history[2].Role)
	}
}

func TestSessionCapHoldsInsideOversizedToolExchange(t *testing.T) {
	s := NewSession(4)

	// One exchange with enough tool round-trips to blow past the cap on
	// its own. The oldest completed request/result pairs must go while
	// the user turn survives.
	s.Append(model.Message{Role: model.RoleUser, Content: "do everything"})
	for i := 0; i < 3; i++ {
		s.Append(model.Message{Role: model.RoleAssistant, ToolName: "run_command", ToolArgs: map[string]any{"command": fmt.Sprintf("step%d", i)}})
		s.Append(model.Message{Role: model.RoleTool, ToolName: "run_command", Content: fmt.Sprintf("output %d", i)})
	}
	s.Append(model.Message{Role: model.RoleAssistant, Content: "done"})

	history := s.History()
	if len(history) > 4 {
		t.Fatalf("cap exceeded inside a single exchange: %d turns", len(history))
	}
	if history[0].Role != model.RoleUser || history[0].Content != "do everything" {
		t.Errorf("expected user turn kept, got %s %q", history[0].Role, history[0].Content)
	}
	for i, msg := range history {
		if msg.Role == model.RoleTool && (i == 0 || !history[i-1].IsToolRequest()) {
			t.Errorf("turn %d: tool result stranded without its request", i)
		}
	}
	if history[len(history)-1].Content != "done" {
		t.Errorf("expected final answer retained, got %q", history[len(history)-1].Content)
	}
}

func TestSessionKeepsLoneExchangePair(t *testing.T) {
	s := NewSession(1)

	// A plain user turn and its reply have no pair to evict; splitting
	// them would strand the answer, so both stay.
	s.Append(model.Message{Role: model.RoleUser, Content: "hello"})
	s.Append(model.Message{Role: model.RoleAssistant, Content: "hi"})

	if s.Len() != 2 {
		t.Errorf("expected the lone exchange kept intact, got %d turns", s.Len())
	}
}

func TestSessionRestoreAdoptsIdentityAndCap(t *testing.T) {
	s := NewSession(4)

	turns := make([]model.Message, 0, 6)
	for i := 0; i < 3; i++ {
		turns = append(turns,
			model.Message{Role: model.RoleUser, Content: fmt.Sprintf("q%d", i)},
			model.Message{Role: model.RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}
	s.Restore("saved-id", turns)

	if s.ID() != "saved-id" {
		t.Errorf("expected restored identity, got %q", s.ID())
	}
	history := s.History()
	if len(history) != 4 {
		t.Fatalf("restored history should honor the cap, got %d turns", len(history))
	}
	if history[0].Content != "q1" {
		t.Errorf("expected oldest exchange evicted on restore, history starts with %q", history[0].Content)
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession(10)
	originalID := s.ID()

	s.Append(model.Message{Role: model.RoleUser, Content: "hello"})
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("expected empty history after reset, got %d turns", s.Len())
	}
	if s.TurnCount() != 0 {
		t.Errorf("expected turn counter reset, got %d", s.TurnCount())
	}
	if s.ID() == originalID {
		t.Error("expected a new session ID after reset")
	}
}
