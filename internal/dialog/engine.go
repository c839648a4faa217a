// Package dialog implements the intake state machine: it advances a
// per-user session through the question sequence and hands finished
// leads to the delivery service.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/auto-zakaz/intake-bot/internal/errors"
	"github.com/auto-zakaz/intake-bot/internal/i18n"
	"github.com/auto-zakaz/intake-bot/internal/lead"
	"github.com/auto-zakaz/intake-bot/internal/phone"
	"github.com/auto-zakaz/intake-bot/internal/session"
	"github.com/auto-zakaz/intake-bot/pkg/metrics"
)

// Deliverer accepts a finished lead record. A non-nil error means the
// record took the fallback path; either way it is not lost.
type Deliverer interface {
	Submit(ctx context.Context, rec lead.Record) error
}

// Links holds the external references woven into outgoing texts.
type Links struct {
	// Channel is offered to not-yet-ready leads on the retention branch.
	Channel string
	// Group names the manager destination mentioned in the fallback ack.
	Group string
}

// Engine is the dialog state machine. It is driven one event at a time
// and never blocks waiting for user input.
type Engine struct {
	sessions  session.Storage
	locker    session.Locker
	delivery  Deliverer
	presenter Presenter
	texts     i18n.Translator
	links     Links
	log       *slog.Logger
}

// NewEngine wires the state machine with its collaborators.
func NewEngine(
	sessions session.Storage,
	locker session.Locker,
	delivery Deliverer,
	presenter Presenter,
	texts i18n.Translator,
	links Links,
	log *slog.Logger,
) *Engine {
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		sessions:  sessions,
		locker:    locker,
		delivery:  delivery,
		presenter: presenter,
		texts:     texts,
		links:     links,
		log:       log,
	}
}

// Handle processes one inbound event for one user. The per-user lock
// covers the whole read-modify-write; the delivery call runs after the
// lock is released since the session is already cleared by then.
func (e *Engine) Handle(ctx context.Context, userID int64, ev Event) error {
	release, err := e.locker.Lock(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionLocked) {
			e.log.Warn("dropping concurrent event", slog.Int64("user_id", userID), slog.String("kind", string(ev.Kind)))
			return nil
		}
		return err
	}

	completed, handleErr := e.handleLocked(ctx, userID, ev)
	release()

	if completed != nil {
		e.finishLead(ctx, userID, *completed)
	}

	return handleErr
}

func (e *Engine) handleLocked(ctx context.Context, userID int64, ev Event) (*lead.Record, error) {
	sess, err := e.sessions.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, apperrors.NewStorageError(err)
		}
		sess = nil
	}

	switch ev.Kind {
	case EventStart:
		return nil, e.startDialog(ctx, userID, sess)
	case EventCancel:
		return nil, e.cancelDialog(ctx, userID, sess)
	case EventText:
		return e.handleText(ctx, userID, sess, ev.Text)
	case EventChoice:
		return nil, e.handleChoice(ctx, userID, sess, ev.Token)
	default:
		e.log.Warn("unknown event kind", slog.Int64("user_id", userID), slog.String("kind", string(ev.Kind)))
		return nil, nil
	}
}

// startDialog resets any active session unconditionally: a new /start
// always begins from a clean slate.
func (e *Engine) startDialog(ctx context.Context, userID int64, prev *session.Session) error {
	from := session.StateIdle
	if prev != nil {
		from = prev.CurrentState
		e.log.Info("restarting active dialog", slog.Int64("user_id", userID), slog.String("state", string(from)))
	}

	next := &session.Session{
		UserID:       userID,
		CurrentState: session.StateAwaitingModel,
	}
	if err := e.sessions.Set(ctx, userID, next); err != nil {
		return apperrors.NewStorageError(err)
	}

	session.RecordTransition(from, session.StateAwaitingModel)
	return e.presenter.SendText(ctx, userID, e.texts.T("dialog.ask_model"))
}

func (e *Engine) cancelDialog(ctx context.Context, userID int64, sess *session.Session) error {
	if sess != nil {
		if err := e.sessions.Clear(ctx, userID); err != nil {
			return apperrors.NewStorageError(err)
		}
		session.RecordTransition(sess.CurrentState, session.StateIdle)
	}

	return e.presenter.SendText(ctx, userID, e.texts.T("dialog.cancelled"))
}

func (e *Engine) handleText(ctx context.Context, userID int64, sess *session.Session, text string) (*lead.Record, error) {
	if sess == nil {
		e.log.Info("ignoring free text without active dialog", slog.Int64("user_id", userID))
		return nil, nil
	}

	switch sess.CurrentState {
	case session.StateAwaitingModel:
		sess.Model = text
		if err := e.advance(ctx, sess, session.StateAwaitingSpecs); err != nil {
			return nil, err
		}
		return nil, e.presenter.SendText(ctx, userID, e.texts.T("dialog.ask_specs"))

	case session.StateAwaitingSpecs:
		sess.Specs = text
		return nil, e.promptChoices(ctx, sess, session.StateAwaitingBudget, e.texts.T("dialog.ask_budget"), BudgetChoices())

	case session.StateAwaitingName:
		sess.Name = text
		if err := e.advance(ctx, sess, session.StateAwaitingPhone); err != nil {
			return nil, err
		}
		return nil, e.presenter.SendText(ctx, userID, e.texts.T("dialog.ask_phone"))

	case session.StateAwaitingPhone:
		return e.handlePhone(ctx, userID, sess, text)

	default:
		// Free text while a choice keyboard is pending: ignore without
		// touching the session.
		e.log.Info("ignoring free text while awaiting choice",
			slog.Int64("user_id", userID), slog.String("state", string(sess.CurrentState)))
		return nil, nil
	}
}

func (e *Engine) handlePhone(ctx context.Context, userID int64, sess *session.Session, text string) (*lead.Record, error) {
	if !phone.IsValid(text) {
		return nil, e.presenter.SendText(ctx, userID, e.texts.T("dialog.invalid_phone"))
	}

	rec := lead.New(userID, sess.Name, phone.Normalize(text), sess.Model, sess.Specs, sess.Budget, sess.Timeframe)

	if err := e.sessions.Clear(ctx, userID); err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	session.RecordTransition(session.StateAwaitingPhone, session.StateIdle)

	return &rec, nil
}

func (e *Engine) handleChoice(ctx context.Context, userID int64, sess *session.Session, token string) error {
	if sess == nil {
		e.log.Info("ignoring choice without active dialog", slog.Int64("user_id", userID), slog.String("token", token))
		return nil
	}

	switch sess.CurrentState {
	case session.StateAwaitingBudget:
		label, ok := BudgetLabel(token)
		if !ok {
			e.log.Warn("unknown budget token", slog.Int64("user_id", userID), slog.String("token", token))
			return nil
		}

		e.retractPrompt(ctx, sess)
		sess.Budget = label
		return e.promptChoices(ctx, sess, session.StateAwaitingTimeframe, e.texts.T("dialog.ask_timeframe"), TimeframeChoices())

	case session.StateAwaitingTimeframe:
		label, ok := TimeframeLabel(token)
		if !ok {
			e.log.Warn("unknown timeframe token", slog.Int64("user_id", userID), slog.String("token", token))
			return nil
		}

		e.retractPrompt(ctx, sess)
		sess.Timeframe = label

		if !IsActionableTimeframe(token) {
			return e.retainLead(ctx, userID, sess)
		}

		if err := e.advance(ctx, sess, session.StateAwaitingName); err != nil {
			return err
		}
		return e.presenter.SendText(ctx, userID, e.texts.T("dialog.ask_name"))

	default:
		e.log.Info("ignoring choice in non-choice state",
			slog.Int64("user_id", userID), slog.String("state", string(sess.CurrentState)), slog.String("token", token))
		return nil
	}
}

// retainLead ends the dialog early for leads that are not close to a
// purchase decision: no record is built and the sink is never called.
func (e *Engine) retainLead(ctx context.Context, userID int64, sess *session.Session) error {
	if err := e.sessions.Clear(ctx, userID); err != nil {
		return apperrors.NewStorageError(err)
	}
	session.RecordTransition(sess.CurrentState, session.StateIdle)
	metrics.RecordLead(metrics.LeadOutcomeRetention)

	text := fmt.Sprintf(e.texts.T("dialog.retention"), e.links.Channel)
	return e.presenter.SendText(ctx, userID, text)
}

// promptChoices sends a choice keyboard, then persists the session in
// the target state with the prompt reference needed for retraction.
func (e *Engine) promptChoices(ctx context.Context, sess *session.Session, to session.State, text string, choices []Choice) error {
	ref, err := e.presenter.SendChoices(ctx, sess.UserID, text, choices)
	if err != nil {
		return err
	}

	sess.PromptChatID = ref.ChatID
	sess.PromptMessageID = ref.MessageID
	return e.advance(ctx, sess, to)
}

// retractPrompt disables the buttons of the last choice prompt so stale
// keyboards cannot be double-submitted.
func (e *Engine) retractPrompt(ctx context.Context, sess *session.Session) {
	ref := MessageRef{ChatID: sess.PromptChatID, MessageID: sess.PromptMessageID}
	if ref.Zero() {
		return
	}

	if err := e.presenter.RetractChoices(ctx, ref); err != nil {
		e.log.Warn("failed to retract choice prompt",
			slog.Int64("user_id", sess.UserID), slog.Int("message_id", ref.MessageID), slog.Any("error", err))
	}

	sess.PromptChatID = 0
	sess.PromptMessageID = 0
}

func (e *Engine) advance(ctx context.Context, sess *session.Session, to session.State) error {
	from := sess.CurrentState
	if !session.IsTransitionAllowed(from, to) {
		return apperrors.NewStateError(fmt.Sprintf("transition %s -> %s is not allowed", from, to))
	}

	sess.CurrentState = to
	if err := e.sessions.Set(ctx, sess.UserID, sess); err != nil {
		return apperrors.NewStorageError(err)
	}

	session.RecordTransition(from, to)
	return nil
}

// finishLead runs after the lock is released: the delivery outcome only
// affects which ack variant the user sees, never the dialog result.
func (e *Engine) finishLead(ctx context.Context, userID int64, rec lead.Record) {
	text := e.texts.T("dialog.accepted")

	if err := e.delivery.Submit(ctx, rec); err != nil {
		e.log.Error("lead delivery took fallback path",
			slog.Int64("user_id", userID), slog.String("lead_id", rec.ID), slog.Any("error", err))
		text = fmt.Sprintf(e.texts.T("dialog.accepted_fallback"), e.links.Group)
	}

	if err := e.presenter.SendText(ctx, userID, text); err != nil {
		e.log.Error("failed to send lead confirmation", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}
