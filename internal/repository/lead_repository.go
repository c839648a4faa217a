// Package repository holds SQL-backed persistence for accepted leads.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/auto-zakaz/intake-bot/internal/lead"
)

// LeadRepository defines persistence operations for lead records.
type LeadRepository interface {
	SaveLead(ctx context.Context, rec lead.Record) error
	CountSince(ctx context.Context, since string) (int64, error)
}

type leadRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewLeadRepository creates a new SQL-backed lead repository.
func NewLeadRepository(db *sql.DB, log *slog.Logger) LeadRepository {
	return &leadRepository{
		db:  db,
		log: log,
	}
}

// SaveLead stores an accepted lead. Re-inserting the same lead id is a
// no-op so redelivery never produces archive duplicates.
func (r *leadRepository) SaveLead(ctx context.Context, rec lead.Record) error {
	const query = `
		INSERT INTO leads (id, user_id, name, phone, model, specs, budget, timeframe, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`

	if _, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.UserID,
		rec.Name,
		rec.Phone,
		rec.Model,
		rec.Specs,
		rec.Budget,
		rec.Timeframe,
		rec.CreatedAt,
	); err != nil {
		if r.log != nil {
			r.log.Error("failed to archive lead", slog.String("lead_id", rec.ID), slog.Any("error", err))
		}
		return fmt.Errorf("insert lead: %w", err)
	}

	return nil
}

// CountSince returns the number of archived leads created on or after
// the given timestamp (any format Postgres can cast to timestamptz).
func (r *leadRepository) CountSince(ctx context.Context, since string) (int64, error) {
	const query = `SELECT COUNT(*) FROM leads WHERE created_at >= $1::timestamptz`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}

	return count, nil
}
