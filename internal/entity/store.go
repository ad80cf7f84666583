package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/shared"
)

// Record is satisfied by a pointer to any persisted entity model. Ownership
// and visibility feed the permission evaluator; the meta accessor lets the
// service assign audit fields.
type Record interface {
	EntityMeta() *Meta
	OwnerID() uuid.UUID
	Visibility() shared.Visibility
}

// Sentinel errors shared by every store implementation.
var (
	// ErrRecordNotFound indicates the id or predicate matched nothing that
	// is visible under the soft-delete rules of the operation.
	ErrRecordNotFound = errors.New("entity: record not found")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("entity: duplicate record")
)

// Op names a comparison operator in a filter clause.
type Op string

const (
	OpEq       Op = "="
	OpNotEq    Op = "<>"
	OpGte      Op = ">="
	OpLte      Op = "<="
	OpContains Op = "ILIKE"
)

// Clause is one column predicate of a filter.
type Clause struct {
	Column string
	Op     Op
	Value  any
}

// Filter is the persistence-layer predicate a search input translates to.
// The soft-delete predicate is not part of it: stores apply `deleted_at IS
// NULL` themselves, uniformly, so no call site can forget it.
type Filter struct {
	Clauses []Clause
	// Search is matched case-insensitively against the table's configured
	// search columns.
	Search string
	// OrderBy overrides the table's default ordering when set.
	OrderBy string
	Desc    bool
}

// Where appends an equality-style clause and returns the filter for
// chaining.
func (f Filter) Where(column string, op Op, value any) Filter {
	f.Clauses = append(f.Clauses, Clause{Column: column, Op: op, Value: value})
	return f
}

// Store abstracts persistence for one entity type. T is the pointer to the
// entity model. Reads exclude soft-deleted rows except where noted.
type Store[T Record] interface {
	FindByID(ctx context.Context, id uuid.UUID) (T, error)
	// FindTombstoned fetches a soft-deleted row, for restore.
	FindTombstoned(ctx context.Context, id uuid.UUID) (T, error)
	FindOne(ctx context.Context, filter Filter) (T, error)
	FindAll(ctx context.Context, filter Filter, page shared.PageRequest) ([]T, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Create(ctx context.Context, rec T) error
	Update(ctx context.Context, rec T) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	HardDelete(ctx context.Context, id uuid.UUID) error
}
