package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auto-zakaz/intake-bot/internal/jobs"
	"github.com/auto-zakaz/intake-bot/internal/lead"
)

type stubSink struct {
	sent []lead.Record
	err  error
}

func (s *stubSink) Send(_ context.Context, rec lead.Record) error {
	s.sent = append(s.sent, rec)
	return s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLeadRedeliverHandlerSendsLead(t *testing.T) {
	sink := &stubSink{}
	handler := NewLeadRedeliverHandler(sink, testLogger())

	rec := lead.New(7, "Анна", "+79991234567", "Kia Rio", "базовая", "До 1 млн руб", "В ближайшую неделю")
	task, err := jobs.NewLeadRedeliverTask(rec)
	require.NoError(t, err)

	require.NoError(t, handler.ProcessTask(context.Background(), task))
	require.Len(t, sink.sent, 1)
	assert.Equal(t, rec.ID, sink.sent[0].ID)
}

func TestLeadRedeliverHandlerPropagatesSinkError(t *testing.T) {
	sink := &stubSink{err: assert.AnError}
	handler := NewLeadRedeliverHandler(sink, testLogger())

	rec := lead.New(8, "Иван", "+79991234567", "BMW X5", "дизель", "3-5 млн руб", "В этом месяце")
	task, err := jobs.NewLeadRedeliverTask(rec)
	require.NoError(t, err)

	assert.Error(t, handler.ProcessTask(context.Background(), task))
}

func TestLeadRedeliverHandlerDropsMalformedPayload(t *testing.T) {
	sink := &stubSink{}
	handler := NewLeadRedeliverHandler(sink, testLogger())

	task := asynq.NewTask(jobs.TaskTypeLeadRedeliver, []byte("not json"))

	assert.NoError(t, handler.ProcessTask(context.Background(), task))
	assert.Empty(t, sink.sent)
}
