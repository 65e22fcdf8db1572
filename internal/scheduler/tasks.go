package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskMetricsSnapshot = "leads.metrics.snapshot"

const TaskInboxSweep = "leads.inbox.sweep"

type MetricsSnapshotPayload struct {
	Reason string `json:"reason,omitempty"`
}

// InboxSweepPayload narrows the sweep to one lead when LeadID is set.
type InboxSweepPayload struct {
	LeadID string `json:"leadId,omitempty"`
}

func NewMetricsSnapshotTask(payload MetricsSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMetricsSnapshot, data), nil
}

func ParseMetricsSnapshotPayload(task *asynq.Task) (MetricsSnapshotPayload, error) {
	var payload MetricsSnapshotPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return MetricsSnapshotPayload{}, err
	}
	return payload, nil
}

func NewInboxSweepTask(payload InboxSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInboxSweep, data), nil
}

func ParseInboxSweepPayload(task *asynq.Task) (InboxSweepPayload, error) {
	var payload InboxSweepPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return InboxSweepPayload{}, err
	}
	return payload, nil
}
