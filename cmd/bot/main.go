package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/auto-zakaz/intake-bot/internal/bot"
	"github.com/auto-zakaz/intake-bot/internal/bot/keyboard"
	"github.com/auto-zakaz/intake-bot/internal/database"
	"github.com/auto-zakaz/intake-bot/internal/delivery"
	"github.com/auto-zakaz/intake-bot/internal/dialog"
	"github.com/auto-zakaz/intake-bot/internal/health"
	"github.com/auto-zakaz/intake-bot/internal/i18n"
	"github.com/auto-zakaz/intake-bot/internal/idempotency"
	"github.com/auto-zakaz/intake-bot/internal/jobs"
	jobhandlers "github.com/auto-zakaz/intake-bot/internal/jobs/handlers"
	"github.com/auto-zakaz/intake-bot/internal/lifecycle"
	"github.com/auto-zakaz/intake-bot/internal/ratelimit"
	"github.com/auto-zakaz/intake-bot/internal/repository"
	"github.com/auto-zakaz/intake-bot/internal/session"
	"github.com/auto-zakaz/intake-bot/pkg/config"
	"github.com/auto-zakaz/intake-bot/pkg/graceful"
	"github.com/auto-zakaz/intake-bot/pkg/logger"
	"github.com/auto-zakaz/intake-bot/pkg/metrics"
	appredis "github.com/auto-zakaz/intake-bot/pkg/redis"

	_ "github.com/lib/pq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			slog.Error("failed to init sentry", slog.Any("error", err))
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log := logger.New(cfg)
	slog.SetDefault(log)

	log.Info("starting intake bot", slog.String("env", cfg.AppEnv))

	config.Watch(v, func(updated config.Config) {
		log.Info("config file reloaded", slog.String("file", v.ConfigFileUsed()))
	}, func(err error) {
		log.Error("config reload rejected", slog.Any("error", err))
	})

	shutdown := lifecycle.NewShutdown(log)

	// Session storage and supporting infra: Redis when configured,
	// in-process fallbacks otherwise.
	var (
		sessions session.Storage
		locker   session.Locker
		deduper  idempotency.Deduper
		limiter  ratelimit.Limiter
		redisCli *appredis.Client
	)

	if cfg.Redis.Addr != "" {
		redisCli, err = appredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		shutdown.Register("redis", func(context.Context) error { return redisCli.Close() })

		sessions = session.NewRedisStorage(redisCli.Client, log, cfg.Dialog.SessionTTL)
		locker = session.NewRedisLocker(redisCli.Client, log)
		deduper = idempotency.NewRedisDeduper(redisCli.Client, log)
		limiter = ratelimit.NewRedisLimiter(redisCli.Client, log)
	} else {
		log.Warn("redis not configured, using in-memory session storage")

		memStorage := session.NewMemoryStorage()
		memDeduper := idempotency.NewMemoryDeduper()
		memLimiter := ratelimit.NewMemoryLimiter(log)

		sessions = memStorage
		locker = session.NewMemoryLocker()
		deduper = memDeduper
		limiter = memLimiter

		go memDeduper.RunCleaner(ctx, 10*time.Minute)
		go memLimiter.RunCleaner(ctx, 10*time.Minute, time.Hour)
	}

	cleaner := session.NewCleaner(sessions, log, cfg.Dialog.SessionTTL, cfg.Dialog.CleanupInterval)
	go cleaner.Run(ctx)

	go metrics.NewSessionCollector(sessions).Run(ctx)

	// Optional lead archive.
	var archive delivery.Archiver
	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = sql.Open("postgres", cfg.Database.GetDSN())
		if err != nil {
			log.Error("failed to open database", slog.Any("error", err))
			os.Exit(1)
		}
		shutdown.Register("database", func(context.Context) error { return db.Close() })

		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to ping database", slog.Any("error", err))
			os.Exit(1)
		}

		migrator := database.NewMigrator(db, log)
		if err := migrator.ApplyDir(ctx, "migrations"); err != nil {
			log.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}

		archive = repository.NewLeadRepository(db, log)
	}

	// Telegram client and delivery pipeline.
	tb, err := bot.NewTelebot(cfg)
	if err != nil {
		log.Error("failed to initialize telegram bot", slog.Any("error", err))
		os.Exit(1)
	}

	sink := delivery.NewGroupSink(tb, cfg.Delivery.GroupChatID)
	journal := delivery.NewJournal(cfg.Delivery.JournalPath)
	shutdown.Register("journal", func(context.Context) error { return journal.Close() })

	deliveryOpts := []delivery.Option{}
	if archive != nil {
		deliveryOpts = append(deliveryOpts, delivery.WithArchiver(archive))
	}

	var worker jobs.Worker
	if redisCli != nil {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		jobsClient := jobs.NewClient(redisOpt, log)
		shutdown.Register("jobs-client", func(context.Context) error { return jobsClient.Close() })
		deliveryOpts = append(deliveryOpts, delivery.WithEnqueuer(jobsClient))

		worker = jobs.NewWorker(redisOpt, nil, log)
		worker.RegisterHandler(jobs.TaskTypeLeadRedeliver, jobhandlers.NewLeadRedeliverHandler(sink, log))
	}

	deliverySvc := delivery.NewService(sink, journal, cfg.Delivery.Timeout, log, deliveryOpts...)

	// Dialog engine.
	i18nManager, err := i18n.Load("ru")
	if err != nil {
		log.Error("failed to load locales", slog.Any("error", err))
		os.Exit(1)
	}
	texts := i18nManager.Translator("ru")

	presenter := bot.NewTelegramPresenter(tb, keyboard.NewBuilder(log))
	engine := dialog.NewEngine(sessions, locker, deliverySvc, presenter, texts, dialog.Links{
		Channel: cfg.Delivery.ChannelLink,
		Group:   cfg.Delivery.GroupName,
	}, log)

	var rateLimitMw *bot.RateLimitMiddleware
	if cfg.RateLimit.Enabled {
		rateLimitMw = bot.NewRateLimitMiddleware(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, texts.T("errors.rate_limited"), log)
	}

	app := bot.New(cfg, log, tb, engine, deduper, rateLimitMw, texts)

	// Health and metrics HTTP server.
	checker := health.NewChecker(log)
	if redisCli != nil {
		checker.AddCheck("redis", health.NewRedisChecker(redisCli.Client))
	}
	if db != nil {
		checker.AddCheck("database", health.NewDBChecker(db))
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(tb))

	httpSrv := graceful.NewServer(log, &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: logger.Middleware(healthMux(checker)),
	}, cfg.Server.ShutdownTimeout)

	go func() {
		if err := httpSrv.ListenAndServe(ctx); err != nil {
			log.Error("http server stopped with error", slog.Any("error", err))
		}
	}()

	if worker != nil {
		go func() {
			if err := worker.Run(); err != nil {
				log.Error("jobs worker stopped with error", slog.Any("error", err))
			}
		}()
		shutdown.Register("jobs-worker", func(context.Context) error {
			worker.Shutdown()
			return nil
		})
	}

	shutdown.Register("telegram-bot", func(context.Context) error {
		app.Stop()
		return nil
	})

	go app.Start()
	log.Info("intake bot is running")

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("intake bot stopped")
}

func healthMux(checker *health.Checker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		statuses := checker.Check(r.Context())

		code := http.StatusOK
		for _, status := range statuses {
			if status != "OK" {
				code = http.StatusServiceUnavailable
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(statuses)
	})

	return mux
}
