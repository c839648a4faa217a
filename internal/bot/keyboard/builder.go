// Package keyboard renders dialog choices as Telegram inline keyboards.
package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/auto-zakaz/intake-bot/internal/dialog"
)

// Builder creates inline keyboards for dialog choice prompts.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}

	return &Builder{log: log}
}

// Choices renders one button per choice, one choice per row. Choices
// whose token exceeds the callback data limit are skipped with a log
// entry instead of breaking the whole keyboard.
func (b *Builder) Choices(choices []dialog.Choice) *telebot.ReplyMarkup {
	rows := make([][]telebot.InlineButton, 0, len(choices))

	for _, choice := range choices {
		data, err := EncodeCallback(choice.Token, "")
		if err != nil {
			b.log.Error("skipping oversized choice button",
				slog.String("token", choice.Token), slog.Any("error", err))
			continue
		}

		rows = append(rows, []telebot.InlineButton{
			{
				Text: choice.Label,
				Data: data,
			},
		})
	}

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = rows
	return markup
}
