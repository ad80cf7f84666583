package events

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/platform/httpx"
	"github.com/meridian-travel/meridian/internal/shared"
)

// CreateInput is the validated payload for creating an event. The
// struct-level rule registered by RegisterValidations enforces that the end
// is after the start.
type CreateInput struct {
	Title         string            `json:"title" validate:"required,min=2,max=200"`
	DestinationID *uuid.UUID        `json:"destinationId"`
	Description   string            `json:"description" validate:"max=4000"`
	StartsAt      time.Time         `json:"startsAt" validate:"required"`
	EndsAt        time.Time         `json:"endsAt" validate:"required"`
	Price         float64           `json:"price" validate:"gte=0,lte=100000"`
	Capacity      int               `json:"capacity" validate:"gte=0,max=100000"`
	Visibility    shared.Visibility `json:"visibility" validate:"omitempty,oneof=public private draft"`
}

// UpdateInput is the partial payload; every field is optional.
type UpdateInput struct {
	Title         *string            `json:"title" validate:"omitempty,min=2,max=200"`
	DestinationID *uuid.UUID         `json:"destinationId"`
	Description   *string            `json:"description" validate:"omitempty,max=4000"`
	StartsAt      *time.Time         `json:"startsAt"`
	EndsAt        *time.Time         `json:"endsAt"`
	Price         *float64           `json:"price" validate:"omitempty,gte=0,lte=100000"`
	Capacity      *int               `json:"capacity" validate:"omitempty,gte=0,max=100000"`
	Visibility    *shared.Visibility `json:"visibility" validate:"omitempty,oneof=public private draft"`
}

// SearchInput carries the optional listing filters plus pagination.
type SearchInput struct {
	shared.PageRequest
	Query         string    `json:"query" validate:"max=200"`
	DestinationID uuid.UUID `json:"destinationId"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
}

// Service is the event instantiation of the generic entity service.
type Service = entity.Service[*Event, CreateInput, UpdateInput, SearchInput]

// Handler is the event instantiation of the generic REST handler.
type Handler = entity.Handler[*Event, CreateInput, UpdateInput, SearchInput]

// RegisterValidations installs the cross-field date rules on v. Call once
// per validator instance, before any event input passes through it.
func RegisterValidations(v *validator.Validate) {
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(CreateInput)
		if !in.StartsAt.IsZero() && !in.EndsAt.After(in.StartsAt) {
			sl.ReportError(in.EndsAt, "EndsAt", "endsAt", "gtfield", "StartsAt")
		}
	}, CreateInput{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(UpdateInput)
		if in.StartsAt != nil && in.EndsAt != nil && !in.EndsAt.After(*in.StartsAt) {
			sl.ReportError(*in.EndsAt, "EndsAt", "endsAt", "gtfield", "StartsAt")
		}
	}, UpdateInput{})
}

// Deps collects what NewService needs beyond the store.
type Deps struct {
	Store     entity.Store[*Event]
	Access    *access.Evaluator
	Validator *validator.Validate
	Logger    *slog.Logger
	Audit     entity.Recorder
}

// NewService wires the event service. The before-update hook re-checks the
// date ordering because a partial update may touch only one endpoint.
func NewService(deps Deps) *Service {
	return entity.NewService(entity.Config[*Event, CreateInput, UpdateInput, SearchInput]{
		Entity:    shared.EntityEvent,
		Store:     deps.Store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in CreateInput) *Event {
			vis := in.Visibility
			if vis == "" {
				vis = shared.VisibilityPublic
			}
			return &Event{
				Title:         in.Title,
				DestinationID: in.DestinationID,
				Description:   in.Description,
				StartsAt:      in.StartsAt.UTC(),
				EndsAt:        in.EndsAt.UTC(),
				Price:         in.Price,
				Capacity:      in.Capacity,
				Vis:           vis,
			}
		},
		Apply: func(e *Event, in UpdateInput) {
			if in.Title != nil {
				e.Title = *in.Title
			}
			if in.DestinationID != nil {
				e.DestinationID = in.DestinationID
			}
			if in.Description != nil {
				e.Description = *in.Description
			}
			if in.StartsAt != nil {
				e.StartsAt = in.StartsAt.UTC()
			}
			if in.EndsAt != nil {
				e.EndsAt = in.EndsAt.UTC()
			}
			if in.Price != nil {
				e.Price = *in.Price
			}
			if in.Capacity != nil {
				e.Capacity = *in.Capacity
			}
			if in.Visibility != nil {
				e.Vis = *in.Visibility
			}
		},
		Predicate: func(in SearchInput) entity.Filter {
			filter := entity.Filter{Search: in.Query, OrderBy: "starts_at"}
			if in.DestinationID != uuid.Nil {
				filter = filter.Where("destination_id", entity.OpEq, in.DestinationID)
			}
			if !in.From.IsZero() {
				filter = filter.Where("starts_at", entity.OpGte, in.From)
			}
			if !in.To.IsZero() {
				filter = filter.Where("starts_at", entity.OpLte, in.To)
			}
			return filter
		},
		Hooks: entity.Hooks[*Event]{
			BeforeUpdate: func(ctx context.Context, actor shared.Actor, e *Event) error {
				if !e.EndsAt.After(e.StartsAt) {
					return shared.ValidationError("EndsAt must be after StartsAt")
				}
				return nil
			},
		},
	})
}

// ParseSearch reads the listing filters from the query string.
func ParseSearch(r *http.Request) (SearchInput, error) {
	q := r.URL.Query()
	in := SearchInput{
		PageRequest: httpx.ParsePage(r),
		Query:       q.Get("q"),
	}
	if v := q.Get("destinationId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return in, err
		}
		in.DestinationID = id
	}
	for param, dst := range map[string]*time.Time{"from": &in.From, "to": &in.To} {
		if v := q.Get(param); v != "" {
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return in, err
			}
			*dst = ts
		}
	}
	return in, nil
}
