package tags

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

// CreateInput is the validated payload for creating a tag.
type CreateInput struct {
	Name  string `json:"name" validate:"required,min=1,max=60"`
	Slug  string `json:"slug" validate:"omitempty,min=1,max=60"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateInput is the partial payload; every field is optional.
type UpdateInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=60"`
	Slug  *string `json:"slug" validate:"omitempty,min=1,max=60"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// SearchInput carries the optional listing filters plus pagination.
type SearchInput struct {
	shared.PageRequest
	Query string `json:"query" validate:"max=200"`
}

// Service is the tag instantiation of the generic entity service.
type Service = entity.Service[*Tag, CreateInput, UpdateInput, SearchInput]

// Handler is the tag instantiation of the generic REST handler.
type Handler = entity.Handler[*Tag, CreateInput, UpdateInput, SearchInput]

// Deps collects what NewService needs beyond the store.
type Deps struct {
	Store     entity.Store[*Tag]
	Access    *access.Evaluator
	Validator *validator.Validate
	Logger    *slog.Logger
	Audit     entity.Recorder
}

// NewService wires the tag service.
func NewService(deps Deps) *Service {
	return entity.NewService(entity.Config[*Tag, CreateInput, UpdateInput, SearchInput]{
		Entity:    shared.EntityTag,
		Store:     deps.Store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in CreateInput) *Tag {
			return &Tag{Name: in.Name, Slug: in.Slug, Color: in.Color}
		},
		Apply: func(t *Tag, in UpdateInput) {
			if in.Name != nil {
				t.Name = *in.Name
			}
			if in.Slug != nil {
				t.Slug = *in.Slug
			}
			if in.Color != nil {
				t.Color = *in.Color
			}
		},
		Predicate: func(in SearchInput) entity.Filter {
			return entity.Filter{Search: in.Query}
		},
		Hooks: entity.Hooks[*Tag]{
			BeforeCreate: func(ctx context.Context, actor shared.Actor, t *Tag) error {
				return ensureSlug(ctx, deps.Store, t)
			},
			BeforeUpdate: func(ctx context.Context, actor shared.Actor, t *Tag) error {
				return ensureSlug(ctx, deps.Store, t)
			},
		},
	})
}

func ensureSlug(ctx context.Context, store entity.Store[*Tag], t *Tag) error {
	if t.Slug == "" {
		t.Slug = shared.Slugify(t.Name)
	}
	if t.Slug == "" {
		return shared.ValidationError("slug cannot be derived from name")
	}
	existing, err := store.FindOne(ctx, entity.Filter{}.Where("slug", entity.OpEq, t.Slug))
	if err != nil {
		if errors.Is(err, entity.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != t.ID {
		return shared.ValidationError("slug already in use")
	}
	return nil
}

// ParseSearch reads the listing filters from the query string.
func ParseSearch(r *http.Request) (SearchInput, error) {
	return SearchInput{
		PageRequest: httpx.ParsePage(r),
		Query:       r.URL.Query().Get("q"),
	}, nil
}
