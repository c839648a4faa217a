package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/auto-zakaz/intake-bot/internal/lead"
)

const (
	TaskTypeLeadRedeliver = "lead:redeliver"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

type LeadRedeliverPayload struct {
	Lead lead.Record `json:"lead"`
}

// NewLeadRedeliverTask builds a redelivery task for a lead that could
// not be posted to the manager group synchronously.
func NewLeadRedeliverTask(rec lead.Record) (*asynq.Task, error) {
	payload, err := json.Marshal(LeadRedeliverPayload{Lead: rec})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TaskTypeLeadRedeliver, payload, asynq.Queue(QueueCritical)), nil
}
