package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/auto-zakaz/intake-bot/internal/dialog"
)

// NewStartHandler begins a fresh intake dialog, discarding any answers
// collected so far.
func NewStartHandler(engine Engine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("start handler invoked without sender")
			return nil
		}

		return engine.Handle(context.Background(), c.Sender().ID, dialog.Event{Kind: dialog.EventStart})
	}
}
