package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/auto-zakaz/intake-bot/internal/lead"
)

// Client enqueues background tasks. It implements the delivery
// service's Enqueuer.
type Client struct {
	client *asynq.Client
	log    *slog.Logger
}

// NewClient constructs a Client backed by an asynq.Client.
func NewClient(redisOpt asynq.RedisConnOpt, log *slog.Logger) *Client {
	return &Client{
		client: asynq.NewClient(redisOpt),
		log:    log,
	}
}

// EnqueueRedelivery schedules a lead for background redelivery with
// asynq's own retry schedule on top.
func (c *Client) EnqueueRedelivery(ctx context.Context, rec lead.Record) error {
	task, err := NewLeadRedeliverTask(rec)
	if err != nil {
		return fmt.Errorf("build redelivery task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(10),
		asynq.ProcessIn(30*time.Second),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue redelivery task: %w", err)
	}

	if c.log != nil {
		c.log.InfoContext(ctx, "lead redelivery queued",
			slog.String("lead_id", rec.ID), slog.String("task_id", info.ID), slog.String("queue", info.Queue))
	}

	return nil
}

// Close releases the underlying asynq client connection.
func (c *Client) Close() error {
	return c.client.Close()
}
