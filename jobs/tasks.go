package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTombstonePurge removes soft-deleted rows past their retention.
	TaskTombstonePurge = "tombstone:purge"
	// TaskAuditExport snapshots the recent audit trail to disk.
	TaskAuditExport = "audit:export"
)

// TombstonePurgePayload bounds one purge run.
type TombstonePurgePayload struct {
	Retention time.Duration `json:"retention"`
}

// NewTombstonePurgeTask constructs an Asynq task for the purge job.
func NewTombstonePurgeTask(retention time.Duration) (*asynq.Task, error) {
	body, err := json.Marshal(TombstonePurgePayload{Retention: retention})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTombstonePurge, body, asynq.Queue(QueueDefault)), nil
}

// AuditExportPayload bounds one export run.
type AuditExportPayload struct {
	Window time.Duration `json:"window"`
	Dir    string        `json:"dir,omitempty"`
}

// NewAuditExportTask constructs an Asynq task for the audit export job.
func NewAuditExportTask(window time.Duration, dir string) (*asynq.Task, error) {
	body, err := json.Marshal(AuditExportPayload{Window: window, Dir: dir})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditExport, body, asynq.Queue(QueueDefault)), nil
}
