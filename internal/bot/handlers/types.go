// Package handlers adapts Telegram updates into dialog engine events.
package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/auto-zakaz/intake-bot/internal/dialog"
)

// Handler processes bot commands.
type Handler func(c telebot.Context) error

// CallbackHandler processes inline callback events.
type CallbackHandler func(c telebot.Context) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// Engine is the dialog entry point handlers drive.
type Engine interface {
	Handle(ctx context.Context, userID int64, ev dialog.Event) error
}
