package tools

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"notebookagent/config"
	"notebookagent/model"
	"notebookagent/storage"
)

// handler runs one tool. Precondition failures come back as an
// unsuccessful ToolResult; unexpected store failures as an error.
type handler func(ctx context.Context, store storage.Store, params map[string]any) (model.ToolResult, error)

// Dispatcher executes tool invocations against a document store. It is
// the only component that mutates the store.
type Dispatcher struct {
	store    storage.Store
	handlers map[string]handler
}

func NewDispatcher(store storage.Store) *Dispatcher {
	return &Dispatcher{
		store: store,
		handlers: map[string]handler{
			CreateDocument: createDocument,
			UpdateDocument: updateDocument,
			ListDocuments:  listDocuments,
		},
	}
}

// Execute runs inv and always returns a result; no fault escapes.
func (d *Dispatcher) Execute(ctx context.Context, inv model.ToolInvocation) (result model.ToolResult) {
	log := config.Log.WithFields(logrus.Fields{"tool": inv.Tool, "params": inv.Parameters})

	canonical, ok := Canonical(inv.Tool)
	if !ok {
		log.Warn("unknown tool")
		return model.ToolResult{Success: false, Message: fmt.Sprintf("Error: Tool '%s' not found.", inv.Tool)}
	}
	h, ok := d.handlers[canonical]
	if !ok {
		return model.ToolResult{Success: false, Message: fmt.Sprintf("Error: Tool '%s' not found.", inv.Tool)}
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("tool panicked")
			result = faultResult(inv.Tool, fmt.Errorf("%v", r))
		}
	}()

	params := inv.Parameters
	if params == nil {
		params = map[string]any{}
	}

	result, err := h(ctx, d.store, params)
	if err != nil {
		log.WithError(err).Error("tool execution failed")
		return faultResult(inv.Tool, err)
	}
	log.WithField("success", result.Success).Debug("tool executed")
	return result
}

func faultResult(name string, err error) model.ToolResult {
	return model.ToolResult{Success: false, Message: fmt.Sprintf("Error executing '%s': %v", name, err)}
}
