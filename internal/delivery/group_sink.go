package delivery

import (
	"context"
	"strconv"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/auto-zakaz/intake-bot/internal/errors"
	"github.com/auto-zakaz/intake-bot/internal/lead"
)

// Sender is the slice of telebot.Bot the sink needs.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// groupRecipient addresses the manager group chat.
type groupRecipient int64

func (r groupRecipient) Recipient() string {
	return strconv.FormatInt(int64(r), 10)
}

// GroupSink posts lead records as text messages into the manager group.
type GroupSink struct {
	sender Sender
	chatID int64
}

// NewGroupSink builds a sink bound to the given group chat.
func NewGroupSink(sender Sender, chatID int64) *GroupSink {
	return &GroupSink{sender: sender, chatID: chatID}
}

// Send posts the formatted record into the group. Context cancellation
// is checked before the call since telebot sends are not ctx-aware.
func (s *GroupSink) Send(ctx context.Context, rec lead.Record) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewDeliveryError("manager group", err)
	}

	if _, err := s.sender.Send(groupRecipient(s.chatID), rec.ManagerMessage()); err != nil {
		return apperrors.NewDeliveryError("manager group", err)
	}

	return nil
}
