package handlers

import (
	"context"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/auto-zakaz/intake-bot/internal/dialog"
)

// NewChoiceHandler feeds inline button presses into the dialog engine.
// The callback is acknowledged first so the client stops showing the
// loading spinner regardless of the dialog outcome.
func NewChoiceHandler(engine Engine, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil || c.Callback() == nil {
			log.Warn("choice handler invoked without callback context")
			return nil
		}

		if err := c.Respond(); err != nil {
			log.Warn("failed to acknowledge callback", slog.Int64("user_id", c.Sender().ID), slog.Any("error", err))
		}

		token := strings.TrimSpace(c.Callback().Data)
		if token == "" {
			return nil
		}

		return engine.Handle(context.Background(), c.Sender().ID, dialog.Event{Kind: dialog.EventChoice, Token: token})
	}
}
