package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-travel/meridian/internal/audit"
	jobmetrics "github.com/meridian-travel/meridian/internal/jobs"
)

// AuditExportJob writes a JSON-lines snapshot of the recent audit trail so
// it can be shipped off-box.
type AuditExportJob struct {
	Audit   *audit.Logger
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewAuditExportJob initialises the export handler.
func NewAuditExportJob(trail *audit.Logger, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditExportJob {
	return &AuditExportJob{
		Audit:   trail,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one export run.
func (j *AuditExportJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Audit == nil {
		return errors.New("audit export: handler not configured")
	}
	var payload AuditExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Window <= 0 {
		payload.Window = 24 * time.Hour
	}
	if payload.Dir == "" {
		payload.Dir = os.TempDir()
	}

	tracker := j.metrics().Track(TaskAuditExport)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	now := j.now()
	entries, err := j.Audit.ListSince(ctx, now.Add(-payload.Window))
	if err != nil {
		resultErr = err
		return resultErr
	}

	if err := os.MkdirAll(payload.Dir, 0o755); err != nil {
		resultErr = err
		return resultErr
	}
	path := filepath.Join(payload.Dir, fmt.Sprintf("audit-%s.jsonl", now.Format("20060102T150405")))
	f, err := os.Create(path)
	if err != nil {
		resultErr = err
		return resultErr
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, entry := range entries {
		if err := enc.Encode(entry); err != nil {
			resultErr = err
			return resultErr
		}
	}

	j.logger().Info("audit export complete",
		slog.String("path", path),
		slog.Int("entries", len(entries)),
	)
	return nil
}

func (j *AuditExportJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *AuditExportJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *AuditExportJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
