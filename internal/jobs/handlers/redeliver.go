package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/auto-zakaz/intake-bot/internal/delivery"
	"github.com/auto-zakaz/intake-bot/internal/jobs"
)

// LeadRedeliverHandler retries posting a journaled lead to the manager
// group. Returning an error lets asynq reschedule the task.
type LeadRedeliverHandler struct {
	sink delivery.Sink
	log  *slog.Logger
}

func NewLeadRedeliverHandler(sink delivery.Sink, log *slog.Logger) *LeadRedeliverHandler {
	return &LeadRedeliverHandler{sink: sink, log: log}
}

func (h *LeadRedeliverHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload jobs.LeadRedeliverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		if h.log != nil {
			h.log.ErrorContext(ctx, "lead redelivery: failed to decode payload",
				slog.String("task_type", t.Type()), slog.String("error", err.Error()))
		}
		// malformed payloads never become deliverable, drop them
		return nil
	}

	if err := h.sink.Send(ctx, payload.Lead); err != nil {
		if h.log != nil {
			h.log.WarnContext(ctx, "lead redelivery attempt failed",
				slog.String("lead_id", payload.Lead.ID), slog.String("error", err.Error()))
		}
		return err
	}

	if h.log != nil {
		h.log.InfoContext(ctx, "lead redelivered to manager group",
			slog.String("lead_id", payload.Lead.ID))
	}

	return nil
}
