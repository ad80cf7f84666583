package entity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Searchable is satisfied by search inputs that embed shared.PageRequest.
type Searchable interface {
	PageReq() shared.PageRequest
}

// Normalizer is implemented by inputs that canonicalize themselves before
// validation, so sloppy-but-valid values (a padded email, odd casing) pass
// instead of bouncing with VALIDATION_ERROR.
type Normalizer interface {
	Normalize()
}

func normalize[I any](input *I) {
	if n, ok := any(input).(Normalizer); ok {
		n.Normalize()
	}
}

// Hooks let an entity module attach behavior around the generic lifecycle:
// slug assignment, relation upkeep, notifications. A hook error aborts the
// operation.
type Hooks[T Record] struct {
	BeforeCreate func(ctx context.Context, actor shared.Actor, rec T) error
	AfterCreate  func(ctx context.Context, actor shared.Actor, rec T) error
	BeforeUpdate func(ctx context.Context, actor shared.Actor, rec T) error
	AfterUpdate  func(ctx context.Context, actor shared.Actor, rec T) error
	AfterDelete  func(ctx context.Context, actor shared.Actor, rec T) error
}

// Recorder persists an audit trail entry for a successful mutation.
type Recorder interface {
	Record(ctx context.Context, actorID uuid.UUID, action, entity string, entityID uuid.UUID, meta map[string]any) error
}

// Config assembles one entity service. New builds a model from a validated
// create input; Apply merges a validated partial input into an existing
// model; Predicate translates a search input to a store filter.
type Config[T Record, C any, U any, S Searchable] struct {
	Entity    string
	Store     Store[T]
	Access    *access.Evaluator
	Validator *validator.Validate
	Logger    *slog.Logger
	Audit     Recorder
	New       func(input C) T
	Apply     func(rec T, input U)
	Predicate func(input S) Filter
	Hooks     Hooks[T]
	Clock     func() time.Time
}

// Service is the single orchestration point for one entity type's CRUD
// behavior: validation, permission evaluation, persistence and hooks. Every
// operation takes the acting identity explicitly and returns either a value
// or a coded *shared.Error, never a raw failure.
type Service[T Record, C any, U any, S Searchable] struct {
	cfg Config[T, C, U, S]
}

// NewService constructs a Service from its configuration.
func NewService[T Record, C any, U any, S Searchable](cfg Config[T, C, U, S]) *Service[T, C, U, S] {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service[T, C, U, S]{cfg: cfg}
}

// Create validates input, checks the create permission, assigns the audit
// fields server-side and persists the record. Client-supplied id or audit
// values never survive: the meta block is overwritten wholesale.
func (s *Service[T, C, U, S]) Create(ctx context.Context, actor shared.Actor, input C) (T, error) {
	var zero T
	normalize(&input)
	if verr := shared.Validate(s.cfg.Validator, input); verr != nil {
		return zero, verr
	}
	if err := s.authorize(actor, shared.OpCreate, nil); err != nil {
		return zero, err
	}

	rec := s.cfg.New(input)
	now := s.cfg.Clock().UTC()
	*rec.EntityMeta() = Meta{
		ID:        uuid.New(),
		CreatedAt: now,
		CreatedBy: actor.ID,
		UpdatedAt: now,
		UpdatedBy: actor.ID,
	}

	err := s.guard(ctx, "create", func(ctx context.Context) error {
		if err := s.runHook(ctx, actor, rec, s.cfg.Hooks.BeforeCreate); err != nil {
			return err
		}
		if err := s.cfg.Store.Create(ctx, rec); err != nil {
			return err
		}
		return s.runHook(ctx, actor, rec, s.cfg.Hooks.AfterCreate)
	})
	if err != nil {
		return zero, err
	}

	s.finish(ctx, actor, "create", rec.EntityMeta().ID)
	return rec, nil
}

// GetByID fetches a record. Soft-deleted records are invisible here: they
// yield NOT_FOUND, not FORBIDDEN.
func (s *Service[T, C, U, S]) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (T, error) {
	var zero T
	rec, err := s.fetch(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := s.authorize(actor, shared.OpView, rec); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update fetches the existing record, validates the partial input, checks
// the update permission against the existing record (ownership-aware),
// merges and persists.
func (s *Service[T, C, U, S]) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, input U) (T, error) {
	var zero T
	rec, err := s.fetch(ctx, id)
	if err != nil {
		return zero, err
	}
	normalize(&input)
	if verr := shared.Validate(s.cfg.Validator, input); verr != nil {
		return zero, verr
	}
	if err := s.authorize(actor, shared.OpUpdate, rec); err != nil {
		return zero, err
	}

	s.cfg.Apply(rec, input)
	meta := rec.EntityMeta()
	meta.UpdatedAt = s.cfg.Clock().UTC()
	meta.UpdatedBy = actor.ID

	err = s.guard(ctx, "update", func(ctx context.Context) error {
		if err := s.runHook(ctx, actor, rec, s.cfg.Hooks.BeforeUpdate); err != nil {
			return err
		}
		if err := s.cfg.Store.Update(ctx, rec); err != nil {
			return err
		}
		return s.runHook(ctx, actor, rec, s.cfg.Hooks.AfterUpdate)
	})
	if err != nil {
		return zero, err
	}

	s.finish(ctx, actor, "update", meta.ID)
	return rec, nil
}

// SoftDelete sets the tombstone, removing the record from default
// visibility while keeping the row.
func (s *Service[T, C, U, S]) SoftDelete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	rec, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, shared.OpDelete, rec); err != nil {
		return err
	}

	now := s.cfg.Clock().UTC()
	err = s.guard(ctx, "soft_delete", func(ctx context.Context) error {
		if err := s.cfg.Store.SoftDelete(ctx, id, now, actor.ID); err != nil {
			return err
		}
		return s.runHook(ctx, actor, rec, s.cfg.Hooks.AfterDelete)
	})
	if err != nil {
		return err
	}

	s.finish(ctx, actor, "soft_delete", id)
	return nil
}

// Restore clears the tombstone on a soft-deleted record. The record comes
// back otherwise unchanged.
func (s *Service[T, C, U, S]) Restore(ctx context.Context, actor shared.Actor, id uuid.UUID) (T, error) {
	var zero T
	rec, err := s.cfg.Store.FindTombstoned(ctx, id)
	if err != nil {
		return zero, s.coerce(err)
	}
	if err := s.authorize(actor, shared.OpRestore, rec); err != nil {
		return zero, err
	}

	err = s.guard(ctx, "restore", func(ctx context.Context) error {
		return s.cfg.Store.Restore(ctx, id)
	})
	if err != nil {
		return zero, err
	}

	meta := rec.EntityMeta()
	meta.DeletedAt = nil
	meta.DeletedBy = nil
	s.finish(ctx, actor, "restore", id)
	return rec, nil
}

// HardDelete removes the row permanently. It reaches soft-deleted records
// too, so a tombstoned row can still be purged.
func (s *Service[T, C, U, S]) HardDelete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	rec, err := s.cfg.Store.FindByID(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		rec, err = s.cfg.Store.FindTombstoned(ctx, id)
	}
	if err != nil {
		return s.coerce(err)
	}
	if err := s.authorize(actor, shared.OpPurge, rec); err != nil {
		return err
	}

	err = s.guard(ctx, "hard_delete", func(ctx context.Context) error {
		if err := s.cfg.Store.HardDelete(ctx, id); err != nil {
			return err
		}
		return s.runHook(ctx, actor, rec, s.cfg.Hooks.AfterDelete)
	})
	if err != nil {
		return err
	}

	s.finish(ctx, actor, "hard_delete", id)
	return nil
}

// List validates the search input, fetches one page and filters it down to
// the records the actor may view. The view filter runs in memory over the
// fetched page, so a page can come back short when it contains restricted
// records; the reported total still counts them.
func (s *Service[T, C, U, S]) List(ctx context.Context, actor shared.Actor, input S) ([]T, shared.Pagination, error) {
	if verr := shared.Validate(s.cfg.Validator, input); verr != nil {
		return nil, shared.Pagination{}, verr
	}
	if err := s.authorize(actor, shared.OpList, nil); err != nil {
		return nil, shared.Pagination{}, err
	}

	filter := s.cfg.Predicate(input)
	page := input.PageReq().Normalize()

	total, err := s.cfg.Store.Count(ctx, filter)
	if err != nil {
		return nil, shared.Pagination{}, s.coerce(err)
	}
	recs, err := s.cfg.Store.FindAll(ctx, filter, page)
	if err != nil {
		return nil, shared.Pagination{}, s.coerce(err)
	}

	visible := make([]T, 0, len(recs))
	for _, rec := range recs {
		decision, err := s.cfg.Access.CanPerform(actor, s.cfg.Entity, shared.OpView, rec)
		if err != nil {
			return nil, shared.Pagination{}, s.internal("list", err)
		}
		if decision.Allowed {
			visible = append(visible, rec)
		}
	}

	return visible, shared.NewPagination(page.Page, page.PageSize, total), nil
}

// Count runs the same validation and permission path as List and returns
// the scalar match count.
func (s *Service[T, C, U, S]) Count(ctx context.Context, actor shared.Actor, input S) (int, error) {
	if verr := shared.Validate(s.cfg.Validator, input); verr != nil {
		return 0, verr
	}
	if err := s.authorize(actor, shared.OpCount, nil); err != nil {
		return 0, err
	}
	total, err := s.cfg.Store.Count(ctx, s.cfg.Predicate(input))
	if err != nil {
		return 0, s.coerce(err)
	}
	return total, nil
}

func (s *Service[T, C, U, S]) fetch(ctx context.Context, id uuid.UUID) (T, error) {
	rec, err := s.cfg.Store.FindByID(ctx, id)
	if err != nil {
		var zero T
		return zero, s.coerce(err)
	}
	return rec, nil
}

// authorize runs the permission evaluator. Denial maps to FORBIDDEN, a
// missing identity on a mutating operation to UNAUTHORIZED, and an
// evaluator failure (unknown visibility) to INTERNAL_ERROR.
func (s *Service[T, C, U, S]) authorize(actor shared.Actor, op shared.Operation, subject access.Subject) error {
	if actor.IsAnonymous() && mutating(op) {
		return shared.UnauthorizedError("authentication required")
	}
	decision, err := s.cfg.Access.CanPerform(actor, s.cfg.Entity, op, subject)
	if err != nil {
		return s.internal(string(op), err)
	}
	if !decision.Allowed {
		return shared.ForbiddenError(decision.Reason)
	}
	return nil
}

func mutating(op shared.Operation) bool {
	switch op {
	case shared.OpCreate, shared.OpUpdate, shared.OpDelete, shared.OpRestore, shared.OpPurge:
		return true
	}
	return false
}

// guard runs fn, converting panics and unrecognized errors so no raw
// failure ever escapes to the transport layer.
func (s *Service[T, C, U, S]) guard(ctx context.Context, op string, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = s.internal(op, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(ctx); err != nil {
		return s.coerce(err)
	}
	return nil
}

// coerce maps store and hook failures onto the closed error code set.
func (s *Service[T, C, U, S]) coerce(err error) error {
	var coded *shared.Error
	switch {
	case errors.As(err, &coded):
		return coded
	case errors.Is(err, ErrRecordNotFound):
		return shared.NotFoundError(s.cfg.Entity + " not found")
	case errors.Is(err, ErrDuplicate):
		return shared.ValidationError(s.cfg.Entity + " already exists")
	default:
		return s.internal("persistence", err)
	}
}

func (s *Service[T, C, U, S]) internal(op string, err error) error {
	s.cfg.Logger.Error("entity operation failed",
		slog.String("entity", s.cfg.Entity),
		slog.String("op", op),
		slog.Any("error", err),
	)
	return shared.InternalError(err)
}

func (s *Service[T, C, U, S]) runHook(ctx context.Context, actor shared.Actor, rec T, hook func(context.Context, shared.Actor, T) error) error {
	if hook == nil {
		return nil
	}
	return hook(ctx, actor, rec)
}

// finish emits the operation log line and the audit trail entry for a
// successful mutation.
func (s *Service[T, C, U, S]) finish(ctx context.Context, actor shared.Actor, action string, id uuid.UUID) {
	s.cfg.Logger.Info("entity operation",
		slog.String("entity", s.cfg.Entity),
		slog.String("op", action),
		slog.String("actor", actor.ID.String()),
		slog.String("id", id.String()),
	)
	if s.cfg.Audit != nil {
		if err := s.cfg.Audit.Record(ctx, actor.ID, action, s.cfg.Entity, id, nil); err != nil {
			s.cfg.Logger.Warn("audit record failed",
				slog.String("entity", s.cfg.Entity),
				slog.Any("error", err),
			)
		}
	}
}
