package entity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meridian-travel/meridian/internal/shared"
)

// Querier is the subset of pgx the store needs. Both *pgxpool.Pool and
// pgx.Tx satisfy it, so a store can run inside an enclosing transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Table describes the relational mapping for one entity type: the table
// name, the entity-specific columns that follow the standard meta columns,
// and the scan/values adapters between rows and the model.
type Table[T Record] struct {
	Name          string
	Columns       []string
	SearchColumns []string
	DefaultOrder  string
	Scan          func(row pgx.CollectableRow) (T, error)
	Values        func(rec T) []any
}

// PgStore is the pgx-backed Store implementation. The soft-delete predicate
// is applied inside every read and mutation here, never by callers.
type PgStore[T Record] struct {
	db    Querier
	table Table[T]
	cols  string
}

// NewPgStore builds a store for the given table mapping.
func NewPgStore[T Record](db Querier, table Table[T]) *PgStore[T] {
	all := append(append([]string{}, metaColumns...), table.Columns...)
	if table.DefaultOrder == "" {
		table.DefaultOrder = "created_at DESC"
	}
	return &PgStore[T]{db: db, table: table, cols: strings.Join(all, ", ")}
}

// WithQuerier returns a copy of the store bound to q, typically a
// transaction started with platform/db.WithTx.
func (s *PgStore[T]) WithQuerier(q Querier) *PgStore[T] {
	clone := *s
	clone.db = q
	return &clone
}

func (s *PgStore[T]) FindByID(ctx context.Context, id uuid.UUID) (T, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL", s.cols, s.table.Name)
	return s.queryOne(ctx, sql, id)
}

func (s *PgStore[T]) FindTombstoned(ctx context.Context, id uuid.UUID) (T, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NOT NULL", s.cols, s.table.Name)
	return s.queryOne(ctx, sql, id)
}

func (s *PgStore[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	where, args := s.buildWhere(filter)
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1", s.cols, s.table.Name, where)
	return s.queryOne(ctx, sql, args...)
}

func (s *PgStore[T]) FindAll(ctx context.Context, filter Filter, page shared.PageRequest) ([]T, error) {
	page = page.Normalize()
	where, args := s.buildWhere(filter)
	order := s.table.DefaultOrder
	if filter.OrderBy != "" {
		order = filter.OrderBy
		if filter.Desc {
			order += " DESC"
		}
	}
	args = append(args, page.PageSize, page.Offset())
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		s.cols, s.table.Name, where, order, len(args)-1, len(args))

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("entity: query %s: %w", s.table.Name, err)
	}
	return pgx.CollectRows(rows, s.table.Scan)
}

func (s *PgStore[T]) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := s.buildWhere(filter)
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", s.table.Name, where)
	var total int
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("entity: count %s: %w", s.table.Name, err)
	}
	return total, nil
}

func (s *PgStore[T]) Create(ctx context.Context, rec T) error {
	values := append(metaValues(rec.EntityMeta()), s.table.Values(rec)...)
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table.Name, s.cols, strings.Join(placeholders, ", "))
	if _, err := s.db.Exec(ctx, sql, values...); err != nil {
		return mapPgError(s.table.Name, err)
	}
	return nil
}

func (s *PgStore[T]) Update(ctx context.Context, rec T) error {
	meta := rec.EntityMeta()
	cols := append([]string{"updated_at", "updated_by"}, s.table.Columns...)
	values := append([]any{meta.UpdatedAt, meta.UpdatedBy}, s.table.Values(rec)...)

	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	values = append(values, meta.ID)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND deleted_at IS NULL",
		s.table.Name, strings.Join(assignments, ", "), len(values))

	tag, err := s.db.Exec(ctx, sql, values...)
	if err != nil {
		return mapPgError(s.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *PgStore[T]) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by uuid.UUID) error {
	sql := fmt.Sprintf("UPDATE %s SET deleted_at = $1, deleted_by = $2 WHERE id = $3 AND deleted_at IS NULL", s.table.Name)
	tag, err := s.db.Exec(ctx, sql, at, by, id)
	if err != nil {
		return fmt.Errorf("entity: soft delete %s: %w", s.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *PgStore[T]) Restore(ctx context.Context, id uuid.UUID) error {
	sql := fmt.Sprintf("UPDATE %s SET deleted_at = NULL, deleted_by = NULL WHERE id = $1 AND deleted_at IS NOT NULL", s.table.Name)
	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("entity: restore %s: %w", s.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *PgStore[T]) HardDelete(ctx context.Context, id uuid.UUID) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table.Name)
	tag, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("entity: hard delete %s: %w", s.table.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// buildWhere renders the filter clauses plus the uniform tombstone
// predicate. Column names come from table mappings, never from request
// input, so interpolating them is safe.
func (s *PgStore[T]) buildWhere(filter Filter) (string, []any) {
	conditions := []string{"deleted_at IS NULL"}
	args := []any{}

	for _, clause := range filter.Clauses {
		args = append(args, clause.Value)
		conditions = append(conditions, fmt.Sprintf("%s %s $%d", clause.Column, clause.Op, len(args)))
	}

	if filter.Search != "" && len(s.table.SearchColumns) > 0 {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		matches := make([]string, len(s.table.SearchColumns))
		for i, col := range s.table.SearchColumns {
			matches[i] = fmt.Sprintf("%s ILIKE $%d", col, n)
		}
		conditions = append(conditions, "("+strings.Join(matches, " OR ")+")")
	}

	return strings.Join(conditions, " AND "), args
}

func (s *PgStore[T]) queryOne(ctx context.Context, sql string, args ...any) (T, error) {
	var zero T
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return zero, fmt.Errorf("entity: query %s: %w", s.table.Name, err)
	}
	rec, err := pgx.CollectOneRow(rows, s.table.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrRecordNotFound
		}
		return zero, fmt.Errorf("entity: scan %s: %w", s.table.Name, err)
	}
	return rec, nil
}

func mapPgError(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return fmt.Errorf("entity: write %s: %w", table, err)
}
