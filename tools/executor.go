package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cognito/config"
)

// Status classifies the outcome of a tool invocation.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusUnknownTool      Status = "unknown_tool"
	StatusInvalidArguments Status = "invalid_arguments"
	StatusDenied           Status = "denied"
	StatusTimeout          Status = "timeout"
	StatusError            Status = "error"
)

// Result is the uniform envelope every invocation produces. Failures are
// data, not errors: nothing escapes the executor as a panic or an error
// return.
type Result struct {
	Tool        string
	Status      Status
	Payload     any
	ErrorDetail string
	Duration    time.Duration
}

// Text renders the result as the plain text fed back to the model.
func (r Result) Text() string {
	switch r.Status {
	case StatusSuccess:
		if s, ok := r.Payload.(string); ok {
			return s
		}
		data, err := json.Marshal(r.Payload)
		if err != nil {
			return fmt.Sprintf("%v", r.Payload)
		}
		return string(data)
	case StatusDenied:
		return fmt.Sprintf("Tool denied: %s", r.ErrorDetail)
	case StatusTimeout:
		return fmt.Sprintf("Tool timed out: %s", r.ErrorDetail)
	default:
		return fmt.Sprintf("Error: %s", r.ErrorDetail)
	}
}

// Auditor records completed invocations. Implementations must not block
// the executor for long; failures to record are ignored.
type Auditor interface {
	RecordInvocation(sessionID, tool string, args map[string]any, status string, detail string, duration time.Duration) error
}

// Executor is the single gateway through which tools run. It validates
// arguments, enforces the shell allow-list and the wall-clock timeout,
// and converts every failure mode into a Result.
type Executor struct {
	registry        *Registry
	timeout         time.Duration
	allowedCommands []string
	auditor         Auditor

	sessionID string
}

type ExecutorOption func(*Executor)

func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithAllowedCommands(commands []string) ExecutorOption {
	return func(e *Executor) { e.allowedCommands = commands }
}

func WithAuditor(a Auditor) ExecutorOption {
	return func(e *Executor) { e.auditor = a }
}

func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry: registry,
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetSession tags subsequent audit records with a session ID.
func (e *Executor) SetSession(sessionID string) {
	e.sessionID = sessionID
}

// Execute runs the named tool. It always returns a Result; the only way
// the caller sees a failure is through Result.Status.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any) Result {
	start := time.Now()

	result := e.execute(ctx, name, args)
	result.Tool = name
	result.Duration = time.Since(start)

	if config.DebugLog != nil {
		config.DebugLog.Printf("tool %s finished: status=%s duration=%s", name, result.Status, result.Duration)
	}
	if e.auditor != nil {
		_ = e.auditor.RecordInvocation(e.sessionID, name, args, string(result.Status), result.ErrorDetail, result.Duration)
	}

	return result
}

func (e *Executor) execute(ctx context.Context, name string, args map[string]any) Result {
	spec, err := e.registry.Get(name)
	if err != nil {
		return Result{Status: StatusUnknownTool, ErrorDetail: fmt.Sprintf("no tool named %q is registered", name)}
	}

	if err := validateArgs(args, spec); err != nil {
		return Result{Status: StatusInvalidArguments, ErrorDetail: err.Error()}
	}

	if spec.ShellParam != "" {
		if detail, ok := e.checkAllowList(args, spec.ShellParam); !ok {
			return Result{Status: StatusDenied, ErrorDetail: detail}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type outcome struct {
		payload any
		err     error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("tool panicked: %v", r)}
			}
		}()
		payload, err := spec.Handler(ctx, args)
		done <- outcome{payload: payload, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return Result{Status: StatusTimeout, ErrorDetail: fmt.Sprintf("exceeded %s limit", e.timeout)}
			}
			return Result{Status: StatusError, ErrorDetail: out.err.Error()}
		}
		return Result{Status: StatusSuccess, Payload: out.payload}
	case <-ctx.Done():
		// Handlers that shell out use exec.CommandContext, so cancellation
		// kills the child process; the goroutine drains into the buffered
		// channel and exits.
		if ctx.Err() == context.DeadlineExceeded {
			return Result{Status: StatusTimeout, ErrorDetail: fmt.Sprintf("exceeded %s limit", e.timeout)}
		}
		return Result{Status: StatusError, ErrorDetail: ctx.Err().Error()}
	}
}

// checkAllowList enforces the command allow-list: only the first token of
// the requested command line is compared.
func (e *Executor) checkAllowList(args map[string]any, shellParam string) (string, bool) {
	raw, _ := args[shellParam].(string)
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "empty command", false
	}

	first := fields[0]
	for _, allowed := range e.allowedCommands {
		if first == allowed {
			return "", true
		}
	}
	return fmt.Sprintf("command %q is not in the allow-list", first), false
}
