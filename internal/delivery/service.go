package delivery

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/auto-zakaz/intake-bot/internal/errors"
	"github.com/auto-zakaz/intake-bot/internal/lead"
	"github.com/auto-zakaz/intake-bot/pkg/metrics"
)

// Service drives lead delivery: retried synchronous send through a
// circuit breaker, falling back to the journal and a background
// redelivery task when the group stays unreachable. A non-nil error
// from Submit means the fallback path was taken, never that the lead
// was lost.
type Service struct {
	sink     Sink
	journal  *Journal
	enqueuer Enqueuer
	archive  Archiver
	breaker  *apperrors.CircuitBreaker
	timeout  time.Duration
	log      *slog.Logger
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithEnqueuer enables background redelivery for failed sends.
func WithEnqueuer(enqueuer Enqueuer) Option {
	return func(s *Service) { s.enqueuer = enqueuer }
}

// WithArchiver enables persisting every accepted lead to the archive.
func WithArchiver(archive Archiver) Option {
	return func(s *Service) { s.archive = archive }
}

// NewService builds the delivery service around a sink and a fallback
// journal.
func NewService(sink Sink, journal *Journal, timeout time.Duration, log *slog.Logger, opts ...Option) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Service{
		sink:    sink,
		journal: journal,
		breaker: apperrors.NewCircuitBreaker(),
		timeout: timeout,
		log:     log,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Submit delivers one record. Exactly one terminal outcome happens per
// record: delivered to the group, or journaled plus queued for
// redelivery. The returned error reports the fallback outcome to the
// caller.
func (s *Service) Submit(ctx context.Context, rec lead.Record) error {
	start := time.Now()

	sendCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := apperrors.WithRetry(sendCtx, func() error {
		return s.breaker.Call(func() error {
			return s.sink.Send(sendCtx, rec)
		})
	})

	metrics.RecordDeliveryDuration(time.Since(start))

	if err == nil {
		metrics.RecordLead(metrics.LeadOutcomeDelivered)
		s.archiveLead(ctx, rec)
		return nil
	}

	s.log.Error("lead delivery failed, journaling",
		slog.String("lead_id", rec.ID), slog.Int64("user_id", rec.UserID), slog.Any("error", err))
	metrics.RecordLead(metrics.LeadOutcomeFallback)

	if s.journal != nil {
		if jerr := s.journal.Record(rec, err.Error()); jerr != nil {
			s.log.Error("fallback journal write failed",
				slog.String("lead_id", rec.ID), slog.Any("error", jerr))
		}
	}

	if s.enqueuer != nil {
		if qerr := s.enqueuer.EnqueueRedelivery(context.WithoutCancel(ctx), rec); qerr != nil {
			s.log.Error("failed to queue lead redelivery",
				slog.String("lead_id", rec.ID), slog.Any("error", qerr))
		}
	}

	s.archiveLead(ctx, rec)

	return err
}

// archiveLead stores the record in the optional archive. Archive
// failures are logged and never surfaced: the journal already holds the
// authoritative fallback copy.
func (s *Service) archiveLead(ctx context.Context, rec lead.Record) {
	if s.archive == nil {
		return
	}

	if err := s.archive.SaveLead(context.WithoutCancel(ctx), rec); err != nil {
		s.log.Warn("lead archive write failed",
			slog.String("lead_id", rec.ID), slog.Any("error", err))
	}
}
