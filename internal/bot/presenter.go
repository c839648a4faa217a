package bot

import (
	"context"
	"strconv"

	telebot "gopkg.in/telebot.v3"

	"github.com/auto-zakaz/intake-bot/internal/bot/keyboard"
	"github.com/auto-zakaz/intake-bot/internal/dialog"
	apperrors "github.com/auto-zakaz/intake-bot/internal/errors"
)

// userRecipient addresses a private chat by Telegram user ID.
type userRecipient int64

func (r userRecipient) Recipient() string {
	return strconv.FormatInt(int64(r), 10)
}

// editTarget satisfies telebot.Editable for a stored prompt reference.
type editTarget dialog.MessageRef

func (t editTarget) MessageSig() (string, int64) {
	return strconv.Itoa(t.MessageID), t.ChatID
}

// TelegramPresenter delivers dialog output through the Telegram Bot API.
type TelegramPresenter struct {
	bot      *telebot.Bot
	keyboard *keyboard.Builder
}

var _ dialog.Presenter = (*TelegramPresenter)(nil)

// NewTelegramPresenter builds a presenter on top of a connected bot.
func NewTelegramPresenter(bot *telebot.Bot, kb *keyboard.Builder) *TelegramPresenter {
	return &TelegramPresenter{bot: bot, keyboard: kb}
}

// SendText sends a plain text message to the user's private chat.
func (p *TelegramPresenter) SendText(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := p.bot.Send(userRecipient(userID), text); err != nil {
		return apperrors.NewDeliveryError("user chat", err)
	}

	return nil
}

// SendChoices sends a prompt with one inline button per choice and
// returns the reference needed to retract the keyboard later.
func (p *TelegramPresenter) SendChoices(ctx context.Context, userID int64, text string, choices []dialog.Choice) (dialog.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return dialog.MessageRef{}, err
	}

	msg, err := p.bot.Send(userRecipient(userID), text, p.keyboard.Choices(choices))
	if err != nil {
		return dialog.MessageRef{}, apperrors.NewDeliveryError("user chat", err)
	}

	ref := dialog.MessageRef{MessageID: msg.ID}
	if msg.Chat != nil {
		ref.ChatID = msg.Chat.ID
	}

	return ref, nil
}

// RetractChoices removes the inline keyboard from a previously sent
// prompt so its buttons cannot be pressed again.
func (p *TelegramPresenter) RetractChoices(ctx context.Context, ref dialog.MessageRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := p.bot.EditReplyMarkup(editTarget(ref), nil); err != nil {
		return apperrors.NewDeliveryError("user chat", err)
	}

	return nil
}
