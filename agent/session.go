package agent

import (
	"time"

	"github.com/google/uuid"

	"cognito/model"
)

// Session holds the in-memory conversation state: an ordered, append-only
// list of turns with a bounded retention window. It is not safe for
// concurrent use; the orchestrator serializes access.
type Session struct {
	id       string
	maxTurns int
	turns    []model.Message
	counter  int
}

func NewSession(maxTurns int) *Session {
	if maxTurns <= 0 {
		maxTurns = 50
	}
	return &Session{
		id:       uuid.New().String(),
		maxTurns: maxTurns,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Append adds a turn, stamping it if needed, and evicts the oldest
// exchanges once the retention cap is exceeded.
func (s *Session) Append(msg model.Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	s.turns = append(s.turns, msg)
	s.counter++
	s.trim()
}

// History returns a copy of the retained turns in order.
func (s *Session) History() []model.Message {
	out := make([]model.Message, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) Len() int {
	return len(s.turns)
}

// TurnCount is the monotonic count of turns ever appended to this
// session; eviction does not decrease it.
func (s *Session) TurnCount() int {
	return s.counter
}

// Restore replaces the conversation with a previously saved one, adopting
// its identity. The retention cap applies to the restored turns too.
func (s *Session) Restore(id string, turns []model.Message) {
	if id != "" {
		s.id = id
	}
	s.turns = append([]model.Message(nil), turns...)
	s.counter = len(turns)
	s.trim()
}

// Reset clears the conversation and starts a fresh session identity. The
// next model request re-issues the persona against an empty context.
func (s *Session) Reset() {
	s.id = uuid.New().String()
	s.turns = nil
	s.counter = 0
}

// trim evicts whole exchanges from the front: the oldest user turn and
// everything up to the next user turn leave together, so an assistant
// tool request is never separated from its tool result. When a single
// exchange alone exceeds the cap, its oldest completed tool
// request/result pairs are dropped instead, pair by pair.
func (s *Session) trim() {
	for len(s.turns) > s.maxTurns {
		i := 1
		for i < len(s.turns) && s.turns[i].Role != model.RoleUser {
			i++
		}
		if i < len(s.turns) {
			s.turns = s.turns[i:]
			continue
		}
		if len(s.turns) > 2 && s.turns[1].IsToolRequest() && s.turns[2].Role == model.RoleTool {
			s.turns = append(s.turns[:1], s.turns[3:]...)
			continue
		}
		// a lone user turn and its reply cannot shrink further
		return
	}
}
