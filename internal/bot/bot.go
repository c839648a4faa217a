// Package bot wires the Telegram transport: update routing, middleware
// and the presenter used by the dialog engine.
package bot

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/auto-zakaz/intake-bot/internal/bot/handlers"
	apperrors "github.com/auto-zakaz/intake-bot/internal/errors"
	"github.com/auto-zakaz/intake-bot/internal/i18n"
	"github.com/auto-zakaz/intake-bot/internal/idempotency"
	"github.com/auto-zakaz/intake-bot/pkg/config"
)

// Bot wraps telebot.Bot with application dependencies required for handling updates.
type Bot struct {
	telebot     *telebot.Bot
	log         *slog.Logger
	router      *Router
	errHandler  *apperrors.Handler
	rateLimitMw *RateLimitMiddleware
}

// NewTelebot creates the underlying Telegram client with long polling.
// It is separate from New so the presenter can be constructed before
// the rest of the transport wiring.
func NewTelebot(cfg *config.Config) (*telebot.Bot, error) {
	tb, err := telebot.NewBot(telebot.Settings{
		Token: cfg.Bot.Token,
		Poller: &telebot.LongPoller{
			Timeout: cfg.Bot.PollTimeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	return tb, nil
}

// New assembles the transport around a connected Telegram client and
// the dialog engine.
func New(
	cfg *config.Config,
	log *slog.Logger,
	tb *telebot.Bot,
	engine handlers.Engine,
	deduper idempotency.Deduper,
	rateLimitMw *RateLimitMiddleware,
	texts i18n.Translator,
) *Bot {
	router := NewRouter(log)
	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:     tb,
		log:         log,
		router:      router,
		errHandler:  errHandler,
		rateLimitMw: rateLimitMw,
	}

	b.setupRouter(engine, deduper, texts, log)

	if b.rateLimitMw != nil {
		b.telebot.Use(b.rateLimitMw.Handle)
	}

	b.registerTelebotHandlers()

	return b
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func (b *Bot) setupRouter(engine handlers.Engine, deduper idempotency.Deduper, texts i18n.Translator, log *slog.Logger) {
	b.router.Use(RecoveryMiddleware(b.log, b.errHandler))
	b.router.Use(IdempotencyMiddleware(deduper, 24*time.Hour, b.log))
	b.router.Use(ErrorHandlingMiddleware(b.errHandler, texts.T("errors.internal")))
	b.router.Use(LoggingMiddleware(b.log))
	b.router.Use(MetricsMiddleware)

	b.router.RegisterCommand(CommandStart, handlers.NewStartHandler(engine, log))
	b.router.RegisterCommand(CommandCancel, handlers.NewCancelHandler(engine, log))

	choiceHandler := handlers.NewChoiceHandler(engine, log)
	b.router.RegisterCallback(CallbackBudgetPrefix, choiceHandler)
	b.router.RegisterCallback(CallbackTimeframePrefix, choiceHandler)

	b.router.SetTextHandler(handlers.NewTextHandler(engine, log))
}

func (b *Bot) registerTelebotHandlers() {
	if b.telebot == nil || b.router == nil {
		return
	}

	b.telebot.Handle(telebot.OnText, b.router.Route)
	b.telebot.Handle(telebot.OnCallback, b.router.Route)
}
