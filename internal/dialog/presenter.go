package dialog

import "context"

// MessageRef identifies a previously sent message so its inline
// choices can be retracted later.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Zero reports whether the reference points at nothing.
func (r MessageRef) Zero() bool {
	return r.ChatID == 0 && r.MessageID == 0
}

// Presenter is the outbound side of the transport: it renders prompts
// and choice keyboards to the user. Sends are fire-and-forget from the
// engine's perspective.
type Presenter interface {
	// SendText delivers a plain prompt to the user.
	SendText(ctx context.Context, userID int64, text string) error
	// SendChoices delivers a prompt with selectable options and returns
	// a reference to the sent message.
	SendChoices(ctx context.Context, userID int64, text string, choices []Choice) (MessageRef, error)
	// RetractChoices renders the options of a previously sent prompt
	// non-interactive.
	RetractChoices(ctx context.Context, ref MessageRef) error
}
