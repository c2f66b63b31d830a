// Package agent runs the conversation loop: it owns the history, builds
// the outbound prompt, calls the model, and performs at most one tool
// round trip per user turn.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"notebookagent/config"
	"notebookagent/model"
	"notebookagent/tools"
)

// ContextSource produces the context text for a scope.
type ContextSource interface {
	Assemble(ctx context.Context, scope model.ContextScope, active string) (string, error)
}

// ToolRunner executes a parsed tool invocation.
type ToolRunner interface {
	Execute(ctx context.Context, inv model.ToolInvocation) model.ToolResult
}

// Turn is one user input and the selection state it was sent with.
type Turn struct {
	Input          string
	Scope          model.ContextScope
	ActiveDocument string // "" when no document is open
}

// TurnResult is the history after the turn plus what happened during it.
type TurnResult struct {
	History []model.Message
	Events  []model.Event
}

// Engine is the orchestration core for one session. Turns are expected to
// be single-flight: callers must not start a turn while State().Busy().
type Engine struct {
	generator model.Generator
	source    ContextSource
	tools     ToolRunner
	prompt    string
	sessionID string

	mu      sync.Mutex
	history model.History
	state   model.TurnState
	events  []model.Event
	onEvent func(model.Event)
}

// NewEngine wires a generator, context source and tool runner together.
// The system prompt is generated from the built-in tool definitions.
func NewEngine(generator model.Generator, source ContextSource, runner ToolRunner) *Engine {
	e := &Engine{
		generator: generator,
		source:    source,
		tools:     runner,
		prompt:    BuildSystemPrompt(tools.Definitions()),
		sessionID: uuid.NewString(),
	}
	if ns, ok := generator.(model.NoticeSource); ok {
		ns.SetNoticeHandler(func(text string) {
			e.emit(model.NoticeEvent{Text: text})
		})
	}
	return e
}

// SessionID identifies this conversation in logs.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// SystemPrompt returns the instructions prepended to every request.
func (e *Engine) SystemPrompt() string {
	return e.prompt
}

// SetEventHandler registers fn to observe events as they happen, in
// addition to receiving them in the TurnResult.
func (e *Engine) SetEventHandler(fn func(model.Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvent = fn
}

// State reports where the current turn is.
func (e *Engine) State() model.TurnState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// History returns a copy of the conversation so far.
func (e *Engine) History() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Messages()
}

// HandleUserTurn runs one turn to completion. It never fails: provider,
// context and tool errors all end up as text in the history. Blank input
// is ignored.
func (e *Engine) HandleUserTurn(ctx context.Context, turn Turn) TurnResult {
	if strings.TrimSpace(turn.Input) == "" {
		return TurnResult{History: e.History()}
	}

	e.mu.Lock()
	e.events = nil
	e.mu.Unlock()

	log := config.Log.WithFields(logrus.Fields{"session": e.sessionID, "scope": turn.Scope.String()})

	e.appendMessage(model.UserMessage(turn.Input))

	e.setState(model.StateContextLoading)
	contextText, err := e.source.Assemble(ctx, turn.Scope, turn.ActiveDocument)
	if err != nil {
		log.WithError(err).Error("context assembly failed")
		contextText = fmt.Sprintf("Error loading context: %v", err)
	}

	e.setState(model.StateAwaitingModel)
	reply := e.generator.Generate(ctx, e.outbound(contextText))

	inv, found, parseErr := tools.Detect(reply)
	switch {
	case !found:
		e.appendMessage(model.AssistantMessage(reply))

	case parseErr != nil:
		log.WithError(parseErr).Warn("tool block did not parse")
		e.appendMessage(model.AssistantMessage(fmt.Sprintf("Error parsing tool JSON: %v\nRaw: %s", parseErr, reply)))

	default:
		e.setState(model.StateToolDetected)
		e.appendMessage(model.AssistantMessage(reply))

		e.setState(model.StateToolExecuting)
		result := e.tools.Execute(ctx, inv)
		log.WithFields(logrus.Fields{"tool": inv.Tool, "success": result.Success}).Info("tool executed")
		e.emit(model.ToolExecutedEvent{Invocation: inv, Result: result})
		e.appendMessage(model.UserMessage(fmt.Sprintf("Tool '%s' Output:\n%s", inv.Tool, result.Message)))

		// The follow-up reply is never scanned for another tool call.
		e.setState(model.StateAwaitingFollowUp)
		e.appendMessage(model.AssistantMessage(e.generator.Generate(ctx, e.outbound(contextText))))
	}

	e.setState(model.StateIdle)

	e.mu.Lock()
	defer e.mu.Unlock()
	result := TurnResult{
		History: e.history.Messages(),
		Events:  e.events,
	}
	e.events = nil
	return result
}

// outbound builds instructions + context + the full history. Neither of
// the System messages is stored.
func (e *Engine) outbound(contextText string) []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()

	msgs := make([]model.Message, 0, e.history.Len()+2)
	msgs = append(msgs,
		model.SystemMessage(e.prompt),
		model.SystemMessage(ContextPrefix+contextText),
	)
	return append(msgs, e.history.Messages()...)
}

func (e *Engine) appendMessage(msg model.Message) {
	e.mu.Lock()
	e.history.Append(msg)
	ev := model.MessageAppendedEvent{Index: e.history.Len() - 1, Message: msg}
	e.mu.Unlock()
	e.emit(ev)
}

func (e *Engine) setState(state model.TurnState) {
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
	config.Log.WithFields(logrus.Fields{"session": e.sessionID, "state": state.String()}).Debug("turn state")
	e.emit(model.StateChangedEvent{State: state})
}

func (e *Engine) emit(ev model.Event) {
	e.mu.Lock()
	e.events = append(e.events, ev)
	fn := e.onEvent
	e.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}
