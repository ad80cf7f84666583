package posts

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

// CreateInput is the validated payload for creating a post. New posts
// always enter moderation as pending.
type CreateInput struct {
	Title      string            `json:"title" validate:"required,min=2,max=200"`
	Slug       string            `json:"slug" validate:"omitempty,min=2,max=200"`
	Excerpt    string            `json:"excerpt" validate:"max=500"`
	Body       string            `json:"body" validate:"required,min=1,max=100000"`
	Visibility shared.Visibility `json:"visibility" validate:"omitempty,oneof=public private draft"`
}

// UpdateInput is the partial payload; a status change is a moderation act
// and requires the moderation permission.
type UpdateInput struct {
	Title      *string            `json:"title" validate:"omitempty,min=2,max=200"`
	Slug       *string            `json:"slug" validate:"omitempty,min=2,max=200"`
	Excerpt    *string            `json:"excerpt" validate:"omitempty,max=500"`
	Body       *string            `json:"body" validate:"omitempty,min=1,max=100000"`
	Status     *string            `json:"status" validate:"omitempty,oneof=pending approved rejected"`
	Visibility *shared.Visibility `json:"visibility" validate:"omitempty,oneof=public private draft"`
}

// SearchInput carries the optional listing filters plus pagination.
type SearchInput struct {
	shared.PageRequest
	Query  string `json:"query" validate:"max=200"`
	Status string `json:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// Service is the post instantiation of the generic entity service.
type Service = entity.Service[*Post, CreateInput, UpdateInput, SearchInput]

// Handler is the post instantiation of the generic REST handler.
type Handler = entity.Handler[*Post, CreateInput, UpdateInput, SearchInput]

// Deps collects what NewService needs beyond the store.
type Deps struct {
	Store     entity.Store[*Post]
	Access    *access.Evaluator
	Validator *validator.Validate
	Logger    *slog.Logger
	Audit     entity.Recorder
}

// NewService wires the post service. Hooks keep the slug unique and gate
// moderation transitions behind the post.moderate permission.
func NewService(deps Deps) *Service {
	return entity.NewService(entity.Config[*Post, CreateInput, UpdateInput, SearchInput]{
		Entity:    shared.EntityPost,
		Store:     deps.Store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in CreateInput) *Post {
			vis := in.Visibility
			if vis == "" {
				vis = shared.VisibilityDraft
			}
			return &Post{
				Title:   in.Title,
				Slug:    in.Slug,
				Excerpt: in.Excerpt,
				Body:    in.Body,
				Status:  StatusPending,
				Vis:     vis,
			}
		},
		Apply: func(p *Post, in UpdateInput) {
			p.prevStatus = p.Status
			if in.Title != nil {
				p.Title = *in.Title
			}
			if in.Slug != nil {
				p.Slug = *in.Slug
			}
			if in.Excerpt != nil {
				p.Excerpt = *in.Excerpt
			}
			if in.Body != nil {
				p.Body = *in.Body
			}
			if in.Status != nil {
				p.Status = *in.Status
			}
			if in.Visibility != nil {
				p.Vis = *in.Visibility
			}
		},
		Predicate: func(in SearchInput) entity.Filter {
			filter := entity.Filter{Search: in.Query}
			if in.Status != "" {
				filter = filter.Where("status", entity.OpEq, in.Status)
			}
			return filter
		},
		Hooks: entity.Hooks[*Post]{
			BeforeCreate: func(ctx context.Context, actor shared.Actor, p *Post) error {
				return ensureSlug(ctx, deps.Store, p)
			},
			BeforeUpdate: func(ctx context.Context, actor shared.Actor, p *Post) error {
				if p.Status != p.prevStatus && !actor.IsAdmin() && !actor.HasPermission(shared.PermPostModerate) {
					return shared.ForbiddenError("changing moderation status requires " + shared.PermPostModerate)
				}
				return ensureSlug(ctx, deps.Store, p)
			},
		},
	})
}

func ensureSlug(ctx context.Context, store entity.Store[*Post], p *Post) error {
	if p.Slug == "" {
		p.Slug = shared.Slugify(p.Title)
	}
	if p.Slug == "" {
		return shared.ValidationError("slug cannot be derived from title")
	}
	existing, err := store.FindOne(ctx, entity.Filter{}.Where("slug", entity.OpEq, p.Slug))
	if err != nil {
		if errors.Is(err, entity.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != p.ID {
		return shared.ValidationError("slug already in use")
	}
	return nil
}

// ParseSearch reads the listing filters from the query string.
func ParseSearch(r *http.Request) (SearchInput, error) {
	return SearchInput{
		PageRequest: httpx.ParsePage(r),
		Query:       r.URL.Query().Get("q"),
		Status:      r.URL.Query().Get("status"),
	}, nil
}
