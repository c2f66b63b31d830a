package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"notebookagent/config"
	"notebookagent/model"
)

const inputHeight = 3

func (v *ChatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.textarea.SetWidth(msg.Width)
		// header + status + footer + borders
		v.viewport.Width = msg.Width
		v.viewport.Height = max(msg.Height-inputHeight-4, 1)
		v.ready = true
		v.rendered = make(map[int]string)
		v.refreshViewport(true)
		return v, nil

	case tea.KeyMsg:
		if cmd, handled := v.handleKey(msg); handled {
			return v, cmd
		}

	case engineEventMsg:
		v.applyEvent(msg.event)
		cmds = append(cmds, v.waitForEvent())

	case turnDoneMsg:
		v.busy = false
		v.state = model.StateIdle
		v.status = ""
		for _, ev := range msg.result.Events {
			if n, ok := ev.(model.NoticeEvent); ok {
				v.notice = n.Text
			}
		}
		v.refreshViewport(true)
		return v, nil

	case documentOpenedMsg:
		switch {
		case msg.err != nil:
			v.status = fmt.Sprintf("Open failed: %v", msg.err)
		case msg.path == "":
			v.status = fmt.Sprintf("No document matches '%s'", msg.query)
		default:
			v.active = msg.path
			v.status = "Active document: " + msg.path
		}
		return v, nil

	case spinner.TickMsg:
		if v.busy {
			var cmd tea.Cmd
			v.spinner, cmd = v.spinner.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.textarea, cmd = v.textarea.Update(msg)
	cmds = append(cmds, cmd)
	v.viewport, cmd = v.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

// handleKey processes global keys. handled is false when the key should
// fall through to the textarea.
func (v *ChatView) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return tea.Quit, true

	case "tab":
		if v.busy {
			return nil, true
		}
		v.scope = v.scope.Next()
		v.status = "Context: " + v.scope.Label()
		return nil, true

	case "ctrl+y":
		if reply, ok := v.lastAssistantReply(); ok {
			if err := clipboard.WriteAll(reply); err != nil {
				v.status = fmt.Sprintf("Copy failed: %v", err)
			} else {
				v.status = "Copied last reply"
			}
		}
		return nil, true

	case "enter":
		// Input is gated while a turn is in flight.
		if v.busy {
			return nil, true
		}
		input := v.textarea.Value()
		if strings.TrimSpace(input) == "" {
			return nil, true
		}
		v.textarea.Reset()
		v.notice = ""

		if strings.HasPrefix(strings.TrimSpace(input), "/") {
			return v.runCommand(strings.TrimSpace(input)), true
		}

		config.Log.WithField("session", v.engine.SessionID()).Debug("sending user turn")
		v.busy = true
		v.state = model.StateContextLoading
		v.status = "Reading context..."
		return tea.Batch(v.runTurn(input), v.spinner.Tick), true
	}
	return nil, false
}

func (v *ChatView) applyEvent(ev model.Event) {
	switch ev := ev.(type) {
	case model.StateChangedEvent:
		v.state = ev.State
		v.status = stateStatus(ev.State)
	case model.MessageAppendedEvent:
		v.refreshViewport(true)
	case model.ToolExecutedEvent:
		v.status = fmt.Sprintf("Executed tool: %s", ev.Invocation.Tool)
	case model.NoticeEvent:
		v.notice = ev.Text
	}
}

func stateStatus(state model.TurnState) string {
	switch state {
	case model.StateContextLoading:
		return "Reading context..."
	case model.StateAwaitingModel, model.StateAwaitingFollowUp:
		return "Thinking..."
	case model.StateToolDetected, model.StateToolExecuting:
		return "Executing tool..."
	default:
		return ""
	}
}

func (v *ChatView) lastAssistantReply() (string, bool) {
	history := v.engine.History()
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == model.RoleAssistant {
			return history[i].Content, true
		}
	}
	return "", false
}
