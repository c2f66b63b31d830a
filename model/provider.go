package model

import "context"

// Generator produces the next assistant reply for an outbound message
// sequence. Implementations never fail: every error path is folded into
// the returned text so the caller can record it like any other reply.
type Generator interface {
	Generate(ctx context.Context, messages []Message) string
}

// NoticeSource is implemented by generators that raise out-of-band
// notices (e.g. a missing API key) alongside their text reply.
type NoticeSource interface {
	SetNoticeHandler(func(text string))
}
