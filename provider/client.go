package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"notebookagent/config"
	"notebookagent/model"
)

// UnknownProviderReply is returned when the active provider id matches no adapter.
const UnknownProviderReply = "Error: Unknown provider selected."

// ChatClient forwards message sequences to the active provider's adapter.
// Generate never fails: every error is folded into the reply text.
type ChatClient struct {
	cfg      *config.Config
	adapters map[string]Adapter
	notice   func(text string)
}

// NewChatClient returns a client reading provider selection and
// credentials from cfg. cfg is treated as read-only.
func NewChatClient(cfg *config.Config) *ChatClient {
	return &ChatClient{
		cfg:      cfg,
		adapters: adapters,
	}
}

// SetNoticeHandler registers fn to receive out-of-band notices such as a
// missing API key.
func (c *ChatClient) SetNoticeHandler(fn func(text string)) {
	c.notice = fn
}

// ProviderID returns the active provider id.
func (c *ChatClient) ProviderID() string {
	return c.cfg.ActiveProvider
}

// Generate sends messages to the active provider and returns its reply.
func (c *ChatClient) Generate(ctx context.Context, messages []model.Message) string {
	providerID := c.cfg.ActiveProvider
	log := config.Log.WithFields(logrus.Fields{"provider": providerID, "messages": len(messages)})

	adapter, ok := c.adapters[providerID]
	if !ok {
		log.Warn("unknown provider selected")
		return UnknownProviderReply
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := adapter(ctx, messages, c.cfg.ProviderConfig(providerID))
	if err == nil {
		log.WithField("elapsed", time.Since(start)).Debug("provider call complete")
		return reply
	}

	display := config.ProviderDisplayName(providerID)

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		log.Warn("provider credential missing")
		if c.notice != nil {
			c.notice(fmt.Sprintf("%s API Key is missing.", display))
		}
		return fmt.Sprintf("Please provide %s %s API Key in settings.", article(display), display)
	}

	detail := err.Error()
	var provErr *ProviderError
	if errors.As(err, &provErr) {
		detail = provErr.Detail
		log = log.WithField("status", provErr.StatusCode)
	}
	log.WithError(err).Error("provider call failed")
	return fmt.Sprintf("Error calling %s: %s", display, detail)
}

func article(word string) string {
	if word != "" && strings.ContainsRune("AEIOUaeiou", rune(word[0])) {
		return "an"
	}
	return "a"
}
