package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/auto-zakaz/intake-bot/internal/session"
)

// Lead outcome labels.
const (
	LeadOutcomeDelivered = "delivered"
	LeadOutcomeFallback  = "fallback"
	LeadOutcomeRetention = "retention"
)

var (
	botUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of bot updates received labeled by kind and status",
		},
		[]string{"kind", "status"},
	)
	updateDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "update_duration_seconds",
			Help:    "Duration of update handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	dialogTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dialog_transitions_total",
			Help: "Total number of dialog state transitions",
		},
		[]string{"from", "to"},
	)
	leadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_total",
			Help: "Total number of finished dialogs labeled by outcome",
		},
		[]string{"outcome"},
	)
	deliveryDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lead_delivery_duration_seconds",
			Help:    "Duration of lead delivery attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of in-flight dialog sessions",
		},
	)
	sessionsByState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sessions_by_state",
			Help: "Number of sessions per dialog state",
		},
		[]string{"state"},
	)
)

var trackedStates = []session.State{
	session.StateAwaitingModel,
	session.StateAwaitingSpecs,
	session.StateAwaitingBudget,
	session.StateAwaitingTimeframe,
	session.StateAwaitingName,
	session.StateAwaitingPhone,
}

func init() {
	session.RegisterTransitionRecorder(RecordDialogTransition)
}

// RecordUpdate increments update counters and records duration.
func RecordUpdate(kind, status string, duration time.Duration) {
	if kind == "" {
		kind = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botUpdatesTotal.WithLabelValues(kind, status).Inc()
	updateDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordDialogTransition tracks dialog state transitions.
func RecordDialogTransition(from, to string) {
	if from == "" {
		from = "unknown"
	}
	if to == "" {
		to = "unknown"
	}

	dialogTransitionsTotal.WithLabelValues(from, to).Inc()
}

// RecordLead increments the finished-dialog counter for an outcome.
func RecordLead(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}

	leadsTotal.WithLabelValues(outcome).Inc()
}

// RecordDeliveryDuration observes one delivery attempt.
func RecordDeliveryDuration(duration time.Duration) {
	deliveryDurationSeconds.Observe(duration.Seconds())
}

// SetActiveSessions updates the gauge for in-flight sessions.
func SetActiveSessions(count int) {
	activeSessions.Set(float64(count))
}

// SetSessionsByState updates the gauge for the given state.
func SetSessionsByState(state string, count int) {
	if state == "" {
		state = "unknown"
	}

	sessionsByState.WithLabelValues(state).Set(float64(count))
}

// SessionCollector periodically gathers session counts and emits gauge
// metrics.
type SessionCollector struct {
	storage session.Storage
}

// NewSessionCollector builds a collector bound to the session storage.
func NewSessionCollector(storage session.Storage) *SessionCollector {
	return &SessionCollector{storage: storage}
}

// Run polls the storage every 10 seconds, updating session gauges until
// ctx is cancelled.
func (c *SessionCollector) Run(ctx context.Context) {
	if c == nil || c.storage == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		_ = c.collect(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(10 * time.Second):
		}
	}
}

func (c *SessionCollector) collect(ctx context.Context) error {
	sessions, err := c.storage.GetAll(ctx)
	if err != nil {
		return err
	}

	SetActiveSessions(len(sessions))

	stateCounts := make(map[string]int, len(sessions))
	for _, sess := range sessions {
		label := "unknown"
		if sess != nil && sess.CurrentState != "" {
			label = string(sess.CurrentState)
		}
		stateCounts[label]++
	}

	sessionsByState.Reset()

	for _, tracked := range trackedStates {
		label := string(tracked)
		SetSessionsByState(label, stateCounts[label])
		delete(stateCounts, label)
	}

	for label, count := range stateCounts {
		SetSessionsByState(label, count)
	}

	return nil
}
