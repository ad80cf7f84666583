// Package audit persists the mutation trail written by every entity
// service.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one row of the audit trail.
type Entry struct {
	ActorID    uuid.UUID      `json:"actorId"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   uuid.UUID      `json:"entityId"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Logger writes entries into audit_logs.
type Logger struct {
	pool *pgxpool.Pool
}

// NewLogger returns a Logger backed by the given pool.
func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{pool: pool}
}

// Record persists one trail entry. It satisfies entity.Recorder.
func (l *Logger) Record(ctx context.Context, actorID uuid.UUID, action, entity string, entityID uuid.UUID, meta map[string]any) error {
	if l == nil || l.pool == nil {
		return errors.New("audit: logger not initialised")
	}
	if action == "" || entity == "" {
		return errors.New("audit: action and entity are required")
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("audit: marshal meta: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, entity, entity_id, meta, occurred_at) VALUES ($1, $2, $3, $4, $5, NOW())`,
		actorID, action, entity, entityID, metaJSON)
	if err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}

// ListSince returns entries recorded at or after the cutoff, oldest first.
// The export job feeds on this.
func (l *Logger) ListSince(ctx context.Context, cutoff time.Time) ([]Entry, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT actor_id, action, entity, entity_id, meta, occurred_at FROM audit_logs WHERE occurred_at >= $1 ORDER BY occurred_at`,
		cutoff)
	if err != nil {
		return nil, fmt.Errorf("audit: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var metaJSON []byte
		if err := rows.Scan(&e.ActorID, &e.Action, &e.Entity, &e.EntityID, &metaJSON, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &e.Meta)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
