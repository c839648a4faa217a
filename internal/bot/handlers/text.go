package handlers

import (
	"context"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/auto-zakaz/intake-bot/internal/dialog"
)

// NewTextHandler feeds free-form message text into the dialog engine.
func NewTextHandler(engine Engine, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			log.Warn("text handler invoked without sender")
			return nil
		}

		text := strings.TrimSpace(c.Text())
		if text == "" {
			return nil
		}

		return engine.Handle(context.Background(), c.Sender().ID, dialog.Event{Kind: dialog.EventText, Text: text})
	}
}
