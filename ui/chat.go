// Package ui is the terminal chat front end. It renders the engine's history
// and events; it never mutates the conversation itself.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"notebookagent/agent"
	"notebookagent/model"
	"notebookagent/storage"
)

// Options seeds the initial selection state of a chat session.
type Options struct {
	Scope          model.ContextScope
	ActiveDocument string
	StoreLabel     string
	ProviderID     string
}

// ChatView is the bubbletea model for one chat session.
type ChatView struct {
	engine *agent.Engine
	store  storage.Store
	ctx    context.Context

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	scope      model.ContextScope
	active     string
	storeLabel string
	providerID string

	busy   bool
	state  model.TurnState
	status string
	notice string

	events chan model.Event

	// rendered caches Markdown output per history index for the current width.
	rendered map[int]string
}

// NewChatView builds the chat model. Engine events are forwarded into the
// program through an internal channel.
func NewChatView(ctx context.Context, engine *agent.Engine, store storage.Store, opts Options) *ChatView {
	ta := textarea.New()
	ta.Placeholder = "Ask something or tell me to create a document..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	v := &ChatView{
		engine:     engine,
		store:      store,
		ctx:        ctx,
		viewport:   viewport.New(0, 0),
		textarea:   ta,
		spinner:    sp,
		scope:      opts.Scope,
		active:     opts.ActiveDocument,
		storeLabel: opts.StoreLabel,
		providerID: opts.ProviderID,
		events:     make(chan model.Event, 64),
		rendered:   make(map[int]string),
	}

	engine.SetEventHandler(func(ev model.Event) {
		select {
		case v.events <- ev:
		default:
			// dropped events are recovered from History() when the turn completes
		}
	})
	return v
}

func (v *ChatView) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, v.waitForEvent())
}

// waitForEvent blocks until the engine emits an event.
func (v *ChatView) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-v.events:
			return engineEventMsg{event: ev}
		case <-v.ctx.Done():
			return nil
		}
	}
}

// runTurn executes one engine turn off the UI goroutine.
func (v *ChatView) runTurn(input string) tea.Cmd {
	turn := agent.Turn{Input: input, Scope: v.scope, ActiveDocument: v.active}
	return func() tea.Msg {
		return turnDoneMsg{result: v.engine.HandleUserTurn(v.ctx, turn)}
	}
}
