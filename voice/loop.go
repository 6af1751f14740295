package voice

import (
	"context"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"cognito/config"
)

// Utterance is one recognized user phrase entering the assistant.
type Utterance struct {
	Text string
}

// Response carries the assistant's reply back to the caller. Shutdown is
// set on the final response when the user spoke a shutdown phrase.
type Response struct {
	Text     string
	Shutdown bool
}

// Resolver turns one utterance into a response. The orchestrator
// satisfies this.
type Resolver interface {
	Submit(ctx context.Context, utterance string) (string, error)
}

const shutdownAck = "Shutting down. Goodbye."

// Loop is the caller boundary of the assistant: utterances go in on a
// bounded channel, responses come out on another, and a single worker
// resolves one utterance fully before picking up the next. Wake words
// are stripped and shutdown phrases recognized here so the resolver only
// ever sees clean requests.
type Loop struct {
	resolver Resolver

	wakeWords       []string
	shutdownPhrases []string

	in  chan Utterance
	out chan Response

	closeOnce sync.Once
}

func NewLoop(resolver Resolver, cfg *config.Config) *Loop {
	queue := cfg.VoiceQueueSize
	if queue <= 0 {
		queue = 16
	}
	return &Loop{
		resolver:        resolver,
		wakeWords:       normalizePhrases(cfg.WakeWords),
		shutdownPhrases: normalizePhrases(cfg.ShutdownPhrases),
		in:              make(chan Utterance, queue),
		out:             make(chan Response, queue),
	}
}

// In is the utterance intake. Closing it stops the loop after the
// in-flight utterance resolves.
func (l *Loop) In() chan<- Utterance {
	return l.in
}

// Out delivers responses in utterance order. It is closed when the loop
// stops.
func (l *Loop) Out() <-chan Response {
	return l.out
}

// Submit queues an utterance without blocking; it reports false when the
// queue is full.
func (l *Loop) Submit(u Utterance) bool {
	select {
	case l.in <- u:
		return true
	default:
		return false
	}
}

// Close stops intake. Safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.in) })
}

// Run drains the intake until it closes, the context is cancelled, or a
// shutdown phrase arrives. Each utterance resolves completely before the
// next is read.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.out)

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-l.in:
			if !ok {
				return
			}

			text := l.stripWakeWord(u.Text)
			if text == "" {
				continue
			}

			if l.isShutdown(text) {
				l.debugf("shutdown phrase recognized: %q", text)
				l.emit(ctx, Response{Text: shutdownAck, Shutdown: true})
				return
			}

			reply, err := l.resolver.Submit(ctx, text)
			if err != nil {
				l.debugf("resolver rejected utterance: %v", err)
				continue
			}
			if !l.emit(ctx, Response{Text: reply}) {
				return
			}
		}
	}
}

func (l *Loop) emit(ctx context.Context, r Response) bool {
	select {
	case l.out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}

// stripWakeWord removes a leading wake word and any separating
// punctuation. The wake word must end at a word boundary, so a longer
// word it happens to prefix is left alone. A bare wake word with
// nothing after it yields "".
func (l *Loop) stripWakeWord(text string) string {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	for _, wake := range l.wakeWords {
		if !strings.HasPrefix(lower, wake) {
			continue
		}
		rest := trimmed[len(wake):]
		if rest != "" {
			r, _ := utf8.DecodeRuneInString(rest)
			if !unicode.IsSpace(r) && !strings.ContainsRune(",.:;!?", r) {
				continue
			}
		}
		return strings.TrimLeft(rest, " ,.:;!?")
	}
	return trimmed
}

func (l *Loop) isShutdown(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	lower = strings.TrimRight(lower, " .!?")
	for _, phrase := range l.shutdownPhrases {
		if lower == phrase {
			return true
		}
	}
	return false
}

func normalizePhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (l *Loop) debugf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("voice: "+format, args...)
	}
}
