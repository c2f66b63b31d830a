package model

// History is the ordered conversation of a single session.
//
// It only grows: there is no way to reorder, edit, or remove an entry once
// appended. The zero value is an empty history ready to use.
type History struct {
	messages []Message
}

// Append adds a message to the end of the conversation.
func (h *History) Append(msg Message) {
	h.messages = append(h.messages, msg)
}

// Len returns the number of messages recorded so far.
func (h *History) Len() int {
	return len(h.messages)
}

// Messages returns a copy of the conversation in causal order.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}
