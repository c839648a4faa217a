package dialog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-zakaz/intake-bot/internal/i18n"
	"github.com/auto-zakaz/intake-bot/internal/lead"
	"github.com/auto-zakaz/intake-bot/internal/session"
)

type fakePresenter struct {
	mu        sync.Mutex
	texts     []string
	choices   []string
	retracted []MessageRef
	nextRefID int
	sendErr   error
}

func (p *fakePresenter) SendText(_ context.Context, _ int64, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErr != nil {
		return p.sendErr
	}
	p.texts = append(p.texts, text)
	return nil
}

func (p *fakePresenter) SendChoices(_ context.Context, userID int64, text string, _ []Choice) (MessageRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.choices = append(p.choices, text)
	p.nextRefID++
	return MessageRef{ChatID: userID, MessageID: p.nextRefID}, nil
}

func (p *fakePresenter) RetractChoices(_ context.Context, ref MessageRef) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.retracted = append(p.retracted, ref)
	return nil
}

func (p *fakePresenter) lastText(t *testing.T) string {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.texts)
	return p.texts[len(p.texts)-1]
}

type fakeDeliverer struct {
	mu      sync.Mutex
	records []lead.Record
	err     error
}

func (d *fakeDeliverer) Submit(_ context.Context, rec lead.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, rec)
	return d.err
}

func (d *fakeDeliverer) submitted() []lead.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]lead.Record(nil), d.records...)
}

func newTestEngine(t *testing.T) (*Engine, *fakePresenter, *fakeDeliverer, session.Storage) {
	t.Helper()

	manager, err := i18n.Load("ru")
	require.NoError(t, err)

	storage := session.NewMemoryStorage()
	presenter := &fakePresenter{}
	deliverer := &fakeDeliverer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	links := Links{
		Channel: "https://t.me/auto_zakaz_dv",
		Group:   "@Zayvka_na_auto",
	}

	engine := NewEngine(storage, session.NewMemoryLocker(), deliverer, presenter, manager.Translator("ru"), links, log)
	return engine, presenter, deliverer, storage
}

func mustState(t *testing.T, storage session.Storage, userID int64, want session.State) {
	t.Helper()
	sess, err := storage.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, want, sess.CurrentState)
}

func mustIdle(t *testing.T, storage session.Storage, userID int64) {
	t.Helper()
	_, err := storage.Get(context.Background(), userID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func runHappyPath(t *testing.T, engine *Engine, userID int64) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventStart}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "Toyota Camry"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "2.5, белый, полный привод"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventChoice, Token: BudgetToken2to3M}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventChoice, Token: TimeframeTokenNow}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "Иван"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "89991234567"}))
}

func TestEngineHappyPath(t *testing.T) {
	engine, presenter, deliverer, storage := newTestEngine(t)
	userID := int64(100)

	runHappyPath(t, engine, userID)

	records := deliverer.submitted()
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, userID, rec.UserID)
	assert.Equal(t, "Иван", rec.Name)
	assert.Equal(t, "+79991234567", rec.Phone)
	assert.Equal(t, "Toyota Camry", rec.Model)
	assert.Equal(t, "2.5, белый, полный привод", rec.Specs)
	assert.Equal(t, "2-3 млн руб", rec.Budget)
	assert.Equal(t, "Срочно (готов купить сейчас)", rec.Timeframe)

	mustIdle(t, storage, userID)

	// both choice prompts get their buttons removed
	assert.Len(t, presenter.retracted, 2)
	assert.Contains(t, presenter.lastText(t), "принята")
}

func TestEngineRetentionBranch(t *testing.T) {
	engine, presenter, deliverer, storage := newTestEngine(t)
	ctx := context.Background()
	userID := int64(101)

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventStart}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "BMW X5"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "дизель"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventChoice, Token: BudgetToken3to5M}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventChoice, Token: TimeframeTokenLooking}))

	assert.Empty(t, deliverer.submitted())
	mustIdle(t, storage, userID)
	assert.Contains(t, presenter.lastText(t), "https://t.me/auto_zakaz_dv")
}

func TestEngineCancelMidDialog(t *testing.T) {
	engine, presenter, deliverer, storage := newTestEngine(t)
	ctx := context.Background()
	userID := int64(102)

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventStart}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "Lexus RX"}))
	mustState(t, storage, userID, session.StateAwaitingSpecs)

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventCancel}))

	mustIdle(t, storage, userID)
	assert.Empty(t, deliverer.submitted())
	assert.Contains(t, presenter.lastText(t), "прерван")
}

func TestEngineCancelWithoutDialog(t *testing.T) {
	engine, presenter, _, _ := newTestEngine(t)

	require.NoError(t, engine.Handle(context.Background(), 103, Event{Kind: EventCancel}))
	assert.Contains(t, presenter.lastText(t), "прерван")
}

func TestEngineRestartDiscardsCollectedFields(t *testing.T) {
	engine, _, _, storage := newTestEngine(t)
	ctx := context.Background()
	userID := int64(104)

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventStart}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "Audi Q7"}))

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventStart}))

	sess, err := storage.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, session.StateAwaitingModel, sess.CurrentState)
	assert.Empty(t, sess.Model)
}

func TestEngineInvalidPhoneKeepsState(t *testing.T) {
	engine, presenter, deliverer, storage := newTestEngine(t)
	ctx := context.Background()
	userID := int64(105)

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventStart}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "Kia Rio"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "базовая"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventChoice, Token: BudgetTokenUnder1M}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventChoice, Token: TimeframeTokenWeek}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "Анна"}))

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "12345"}))

	mustState(t, storage, userID, session.StateAwaitingPhone)
	assert.Empty(t, deliverer.submitted())
	assert.Contains(t, strings.ToLower(presenter.lastText(t)), "номер")

	// a correct number on the next attempt still completes the dialog
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "79991234567"}))
	require.Len(t, deliverer.submitted(), 1)
	assert.Equal(t, "+79991234567", deliverer.submitted()[0].Phone)
}

func TestEngineFreeTextDuringChoiceIsIgnored(t *testing.T) {
	engine, _, _, storage := newTestEngine(t)
	ctx := context.Background()
	userID := int64(106)

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventStart}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "Mazda CX-5"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "2.0"}))
	mustState(t, storage, userID, session.StateAwaitingBudget)

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "около двух миллионов"}))

	sess, err := storage.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, session.StateAwaitingBudget, sess.CurrentState)
	assert.Empty(t, sess.Budget)
}

func TestEngineUnknownTokenIsIgnored(t *testing.T) {
	engine, _, _, storage := newTestEngine(t)
	ctx := context.Background()
	userID := int64(107)

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventStart}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "Hyundai Solaris"}))
	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventText, Text: "автомат"}))

	require.NoError(t, engine.Handle(ctx, userID, Event{Kind: EventChoice, Token: "budget_bogus"}))

	mustState(t, storage, userID, session.StateAwaitingBudget)
}

func TestEngineChoiceWithoutDialogIsIgnored(t *testing.T) {
	engine, presenter, _, _ := newTestEngine(t)

	require.NoError(t, engine.Handle(context.Background(), 108, Event{Kind: EventChoice, Token: BudgetToken2to3M}))
	assert.Empty(t, presenter.texts)
}

func TestEngineTextWithoutDialogIsIgnored(t *testing.T) {
	engine, presenter, _, _ := newTestEngine(t)

	require.NoError(t, engine.Handle(context.Background(), 109, Event{Kind: EventText, Text: "привет"}))
	assert.Empty(t, presenter.texts)
}

func TestEngineDeliveryFailureSendsFallbackAck(t *testing.T) {
	engine, presenter, deliverer, storage := newTestEngine(t)
	deliverer.err = errors.New("group unreachable")
	userID := int64(110)

	runHappyPath(t, engine, userID)

	require.Len(t, deliverer.submitted(), 1)
	mustIdle(t, storage, userID)
	assert.Contains(t, presenter.lastText(t), "@Zayvka_na_auto")
}
