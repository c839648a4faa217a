// Package delivery forwards finished lead records to the manager group
// and keeps them recoverable when the group is unreachable.
package delivery

import (
	"context"

	"github.com/auto-zakaz/intake-bot/internal/lead"
)

// Sink sends one lead record to its destination.
type Sink interface {
	Send(ctx context.Context, rec lead.Record) error
}

// Enqueuer schedules a lead for background redelivery.
type Enqueuer interface {
	EnqueueRedelivery(ctx context.Context, rec lead.Record) error
}

// Archiver persists an accepted lead for later reporting.
type Archiver interface {
	SaveLead(ctx context.Context, rec lead.Record) error
}
