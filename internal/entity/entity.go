// Package entity provides the generic persistence store and service every
// catalog, content and billing entity is built from.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Meta holds the audit and tombstone fields every persisted entity carries.
// Server code assigns all of them; client-supplied values are ignored.
type Meta struct {
	ID        uuid.UUID  `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy uuid.UUID  `json:"createdBy"`
	UpdatedAt time.Time  `json:"updatedAt"`
	UpdatedBy uuid.UUID  `json:"updatedBy"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	DeletedBy *uuid.UUID `json:"deletedBy,omitempty"`
}

// EntityMeta exposes the audit fields to the generic service. Models embed
// Meta, so the method promotes onto every record pointer.
func (m *Meta) EntityMeta() *Meta {
	return m
}

// OwnerID identifies the creating actor for ownership checks.
func (m *Meta) OwnerID() uuid.UUID {
	return m.CreatedBy
}

// IsDeleted reports whether the tombstone is set.
func (m *Meta) IsDeleted() bool {
	return m.DeletedAt != nil
}

// columns lists the meta columns in their canonical order. Every entity
// table starts with these.
var metaColumns = []string{
	"id", "created_at", "created_by", "updated_at", "updated_by",
	"deleted_at", "deleted_by",
}

// metaValues returns the meta column values aligned with metaColumns.
func metaValues(m *Meta) []any {
	return []any{
		m.ID, m.CreatedAt, m.CreatedBy, m.UpdatedAt, m.UpdatedBy,
		m.DeletedAt, m.DeletedBy,
	}
}
