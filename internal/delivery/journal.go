package delivery

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/auto-zakaz/intake-bot/internal/lead"
)

// journalEntry is one line of the fallback journal.
type journalEntry struct {
	RecordedAt time.Time   `json:"recorded_at"`
	Reason     string      `json:"reason"`
	Lead       lead.Record `json:"lead"`
}

// Journal persists undeliverable leads as JSON lines to a rotated file
// so they can be replayed by hand if background redelivery also fails.
type Journal struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

// NewJournal creates a journal writing to path with rotation.
func NewJournal(path string) *Journal {
	return &Journal{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    20,
			MaxBackups: 10,
			MaxAge:     90,
		},
	}
}

// Record appends one lead with the failure reason. The write is
// fsync-free append-only JSONL, one object per line.
func (j *Journal) Record(rec lead.Record, reason string) error {
	entry := journalEntry{
		RecordedAt: time.Now().UTC(),
		Reason:     reason,
		Lead:       rec,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.out.Write(data); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.out.Close()
}
