package model

// TurnState is a step of the per-turn orchestration state machine.
type TurnState int

const (
	StateIdle TurnState = iota
	StateContextLoading
	StateAwaitingModel
	StateToolDetected
	StateToolExecuting
	StateAwaitingFollowUp
)

func (s TurnState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateContextLoading:
		return "context_loading"
	case StateAwaitingModel:
		return "awaiting_model"
	case StateToolDetected:
		return "tool_detected"
	case StateToolExecuting:
		return "tool_executing"
	case StateAwaitingFollowUp:
		return "awaiting_follow_up"
	default:
		return "unknown"
	}
}

// Busy reports whether a turn is in flight.
func (s TurnState) Busy() bool {
	return s != StateIdle
}

// Event is emitted by the engine while a turn runs. Front ends consume
// events to render progress; they never mutate history through them.
type Event interface {
	isEvent()
}

type StateChangedEvent struct {
	State TurnState
}

type MessageAppendedEvent struct {
	Index   int
	Message Message
}

type ToolExecutedEvent struct {
	Invocation ToolInvocation
	Result     ToolResult
}

// NoticeEvent carries an out-of-band notification, such as a missing
// credential, that a front end may surface outside the transcript.
type NoticeEvent struct {
	Text string
}

func (StateChangedEvent) isEvent()    {}
func (MessageAppendedEvent) isEvent() {}
func (ToolExecutedEvent) isEvent()    {}
func (NoticeEvent) isEvent()          {}
