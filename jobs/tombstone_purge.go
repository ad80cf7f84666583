package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	jobmetrics "github.com/meridian-travel/meridian/internal/jobs"
)

// purgeTables lists every table carrying the soft-delete columns. Rows
// tombstoned longer than the retention window are removed for good.
var purgeTables = []string{
	"destinations",
	"accommodations",
	"events",
	"posts",
	"tags",
	"users",
	"billing_clients",
	"billing_subscriptions",
	"billing_invoices",
}

// TombstonePurgeJob hard-deletes rows whose tombstone has outlived the
// retention window.
type TombstonePurgeJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics

	// Tables overrides purgeTables, for tests.
	Tables []string
	clock  func() time.Time
}

// NewTombstonePurgeJob initialises the purge handler.
func NewTombstonePurgeJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *TombstonePurgeJob {
	return &TombstonePurgeJob{
		Pool:    pool,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one purge run.
func (j *TombstonePurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("tombstone purge: handler not configured")
	}
	var payload TombstonePurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Retention <= 0 {
		payload.Retention = 30 * 24 * time.Hour
	}

	tracker := j.metrics().Track(TaskTombstonePurge)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	cutoff := j.now().Add(-payload.Retention)
	tables := j.Tables
	if len(tables) == 0 {
		tables = purgeTables
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	var total atomic.Int64
	for _, table := range tables {
		table := table
		g.Go(func() error {
			tag, err := j.Pool.Exec(gctx,
				`DELETE FROM `+table+` WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
			if err != nil {
				j.logger().Error("tombstone purge",
					slog.String("table", table),
					slog.Any("error", err),
				)
				return err
			}
			removed := tag.RowsAffected()
			total.Add(removed)
			j.Metrics.AddPurged(table, removed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		resultErr = err
		return resultErr
	}

	j.logger().Info("tombstone purge complete",
		slog.Time("cutoff", cutoff),
		slog.Int64("removed", total.Load()),
	)
	return nil
}

func (j *TombstonePurgeJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *TombstonePurgeJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *TombstonePurgeJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
