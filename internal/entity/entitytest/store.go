// Package entitytest provides an in-memory Store used by service tests
// across the domain modules.
package entitytest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
)

// MemStore is a map-backed entity.Store. E is the entity model, PT the
// pointer type the store traffics in. Records are cloned on the way in and
// out so tests observe persistence boundaries, not shared pointers.
type MemStore[E any, PT interface {
	entity.Record
	*E
}] struct {
	records map[uuid.UUID]PT
	order   []uuid.UUID

	// Match decides whether a live record satisfies a filter. When nil
	// every live record matches.
	Match func(rec PT, filter entity.Filter) bool

	// Error hooks for fault injection.
	CreateErr error
	FindErr   error

	CreateCalls int
	UpdateCalls int
	DeleteCalls int
}

// NewMemStore constructs an empty store.
func NewMemStore[E any, PT interface {
	entity.Record
	*E
}]() *MemStore[E, PT] {
	return &MemStore[E, PT]{records: make(map[uuid.UUID]PT)}
}

// Seed inserts a record directly, bypassing call counters.
func (m *MemStore[E, PT]) Seed(rec PT) {
	clone := *rec
	id := rec.EntityMeta().ID
	m.records[id] = PT(&clone)
	m.order = append(m.order, id)
}

// Get returns the stored record without cloning, for assertions.
func (m *MemStore[E, PT]) Get(id uuid.UUID) (PT, bool) {
	rec, ok := m.records[id]
	return rec, ok
}

func (m *MemStore[E, PT]) FindByID(ctx context.Context, id uuid.UUID) (PT, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	rec, ok := m.records[id]
	if !ok || rec.EntityMeta().IsDeleted() {
		return nil, entity.ErrRecordNotFound
	}
	clone := *rec
	return PT(&clone), nil
}

func (m *MemStore[E, PT]) FindTombstoned(ctx context.Context, id uuid.UUID) (PT, error) {
	rec, ok := m.records[id]
	if !ok || !rec.EntityMeta().IsDeleted() {
		return nil, entity.ErrRecordNotFound
	}
	clone := *rec
	return PT(&clone), nil
}

func (m *MemStore[E, PT]) FindOne(ctx context.Context, filter entity.Filter) (PT, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	matches := m.matchAll(filter)
	if len(matches) == 0 {
		return nil, entity.ErrRecordNotFound
	}
	clone := *matches[0]
	return PT(&clone), nil
}

func (m *MemStore[E, PT]) FindAll(ctx context.Context, filter entity.Filter, page shared.PageRequest) ([]PT, error) {
	page = page.Normalize()
	matches := m.matchAll(filter)
	start := page.Offset()
	if start >= len(matches) {
		return nil, nil
	}
	end := start + page.PageSize
	if end > len(matches) {
		end = len(matches)
	}
	out := make([]PT, 0, end-start)
	for _, rec := range matches[start:end] {
		clone := *rec
		out = append(out, PT(&clone))
	}
	return out, nil
}

func (m *MemStore[E, PT]) Count(ctx context.Context, filter entity.Filter) (int, error) {
	return len(m.matchAll(filter)), nil
}

func (m *MemStore[E, PT]) Create(ctx context.Context, rec PT) error {
	m.CreateCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	clone := *rec
	id := rec.EntityMeta().ID
	m.records[id] = PT(&clone)
	m.order = append(m.order, id)
	return nil
}

func (m *MemStore[E, PT]) Update(ctx context.Context, rec PT) error {
	m.UpdateCalls++
	id := rec.EntityMeta().ID
	existing, ok := m.records[id]
	if !ok || existing.EntityMeta().IsDeleted() {
		return entity.ErrRecordNotFound
	}
	clone := *rec
	m.records[id] = PT(&clone)
	return nil
}

func (m *MemStore[E, PT]) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by uuid.UUID) error {
	m.DeleteCalls++
	rec, ok := m.records[id]
	if !ok || rec.EntityMeta().IsDeleted() {
		return entity.ErrRecordNotFound
	}
	meta := rec.EntityMeta()
	meta.DeletedAt = &at
	meta.DeletedBy = &by
	return nil
}

func (m *MemStore[E, PT]) Restore(ctx context.Context, id uuid.UUID) error {
	rec, ok := m.records[id]
	if !ok || !rec.EntityMeta().IsDeleted() {
		return entity.ErrRecordNotFound
	}
	meta := rec.EntityMeta()
	meta.DeletedAt = nil
	meta.DeletedBy = nil
	return nil
}

func (m *MemStore[E, PT]) HardDelete(ctx context.Context, id uuid.UUID) error {
	m.DeleteCalls++
	if _, ok := m.records[id]; !ok {
		return entity.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MemStore[E, PT]) matchAll(filter entity.Filter) []PT {
	var out []PT
	for _, id := range m.order {
		rec, ok := m.records[id]
		if !ok || rec.EntityMeta().IsDeleted() {
			continue
		}
		if m.Match != nil && !m.Match(rec, filter) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
