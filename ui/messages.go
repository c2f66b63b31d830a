package ui

import (
	"notebookagent/agent"
	"notebookagent/model"
)

// turnDoneMsg is sent when HandleUserTurn returns.
type turnDoneMsg struct {
	result agent.TurnResult
}

// engineEventMsg carries an engine event observed while a turn runs.
type engineEventMsg struct {
	event model.Event
}

// documentOpenedMsg reports the outcome of a /open lookup.
type documentOpenedMsg struct {
	query string
	path  string
	err   error
}
