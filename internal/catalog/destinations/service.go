package destinations

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/platform/httpx"
	"github.com/meridian-travel/meridian/internal/shared"
)

// CreateInput is the validated payload for creating a destination.
type CreateInput struct {
	Name        string            `json:"name" validate:"required,min=2,max=160"`
	Slug        string            `json:"slug" validate:"omitempty,min=2,max=160"`
	Country     string            `json:"country" validate:"required,min=2,max=80"`
	Region      string            `json:"region" validate:"max=80"`
	Description string            `json:"description" validate:"max=4000"`
	Featured    bool              `json:"featured"`
	Visibility  shared.Visibility `json:"visibility" validate:"omitempty,oneof=public private draft"`
}

// UpdateInput is the partial payload; every field is optional.
type UpdateInput struct {
	Name        *string            `json:"name" validate:"omitempty,min=2,max=160"`
	Slug        *string            `json:"slug" validate:"omitempty,min=2,max=160"`
	Country     *string            `json:"country" validate:"omitempty,min=2,max=80"`
	Region      *string            `json:"region" validate:"omitempty,max=80"`
	Description *string            `json:"description" validate:"omitempty,max=4000"`
	Featured    *bool              `json:"featured"`
	Visibility  *shared.Visibility `json:"visibility" validate:"omitempty,oneof=public private draft"`
}

// SearchInput carries the optional listing filters plus pagination.
type SearchInput struct {
	shared.PageRequest
	Query    string `json:"query" validate:"max=200"`
	Country  string `json:"country" validate:"max=80"`
	Featured *bool  `json:"featured"`
}

// Service is the destination instantiation of the generic entity service.
type Service = entity.Service[*Destination, CreateInput, UpdateInput, SearchInput]

// Handler is the destination instantiation of the generic REST handler.
type Handler = entity.Handler[*Destination, CreateInput, UpdateInput, SearchInput]

// Deps collects what NewService needs beyond the store.
type Deps struct {
	Store     entity.Store[*Destination]
	Access    *access.Evaluator
	Validator *validator.Validate
	Logger    *slog.Logger
	Audit     entity.Recorder
}

// NewService wires the destination service. The before-create and
// before-update hooks derive the slug from the name when absent and keep it
// unique.
func NewService(deps Deps) *Service {
	hooks := entity.Hooks[*Destination]{
		BeforeCreate: func(ctx context.Context, actor shared.Actor, d *Destination) error {
			return ensureSlug(ctx, deps.Store, d)
		},
		BeforeUpdate: func(ctx context.Context, actor shared.Actor, d *Destination) error {
			return ensureSlug(ctx, deps.Store, d)
		},
	}
	return entity.NewService(entity.Config[*Destination, CreateInput, UpdateInput, SearchInput]{
		Entity:    shared.EntityDestination,
		Store:     deps.Store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in CreateInput) *Destination {
			vis := in.Visibility
			if vis == "" {
				vis = shared.VisibilityPublic
			}
			return &Destination{
				Name:        in.Name,
				Slug:        in.Slug,
				Country:     in.Country,
				Region:      in.Region,
				Description: in.Description,
				Featured:    in.Featured,
				Vis:         vis,
			}
		},
		Apply: func(d *Destination, in UpdateInput) {
			if in.Name != nil {
				d.Name = *in.Name
			}
			if in.Slug != nil {
				d.Slug = *in.Slug
			}
			if in.Country != nil {
				d.Country = *in.Country
			}
			if in.Region != nil {
				d.Region = *in.Region
			}
			if in.Description != nil {
				d.Description = *in.Description
			}
			if in.Featured != nil {
				d.Featured = *in.Featured
			}
			if in.Visibility != nil {
				d.Vis = *in.Visibility
			}
		},
		Predicate: func(in SearchInput) entity.Filter {
			filter := entity.Filter{Search: in.Query}
			if in.Country != "" {
				filter = filter.Where("country", entity.OpEq, in.Country)
			}
			if in.Featured != nil {
				filter = filter.Where("featured", entity.OpEq, *in.Featured)
			}
			return filter
		},
		Hooks: hooks,
	})
}

// ensureSlug fills the slug from the name and rejects collisions with other
// live destinations.
func ensureSlug(ctx context.Context, store entity.Store[*Destination], d *Destination) error {
	if d.Slug == "" {
		d.Slug = shared.Slugify(d.Name)
	}
	if d.Slug == "" {
		return shared.ValidationError("slug cannot be derived from name")
	}
	existing, err := store.FindOne(ctx, entity.Filter{}.Where("slug", entity.OpEq, d.Slug))
	if err != nil {
		if errors.Is(err, entity.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != d.ID {
		return shared.ValidationError("slug already in use")
	}
	return nil
}

// ParseSearch reads the listing filters from the query string.
func ParseSearch(r *http.Request) (SearchInput, error) {
	in := SearchInput{
		PageRequest: httpx.ParsePage(r),
		Query:       r.URL.Query().Get("q"),
		Country:     r.URL.Query().Get("country"),
	}
	if v := r.URL.Query().Get("featured"); v != "" {
		featured := v == "true"
		in.Featured = &featured
	}
	return in, nil
}
