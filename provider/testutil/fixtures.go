package testutil

import (
	"notebookagent/model"
)

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		model.UserMessage("Hello, how are you?"),
		model.AssistantMessage("I'm doing well, thank you!"),
		model.UserMessage("Can you help me with a task?"),
	}
}

// SystemInterleaved returns a sequence with System messages at the front
// and in the middle, for adapters that hoist them into one field.
func SystemInterleaved() []model.Message {
	return []model.Message{
		model.SystemMessage("You are a helpful assistant."),
		model.SystemMessage("CURRENT CONTEXT:\nnotes"),
		model.UserMessage("first"),
		model.AssistantMessage("second"),
		model.SystemMessage("late instruction"),
		model.UserMessage("third"),
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{model.UserMessage(content)}
}

// EmptyMessages returns an empty message slice for edge case testing
func EmptyMessages() []model.Message {
	return []model.Message{}
}
