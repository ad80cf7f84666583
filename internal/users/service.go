package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/platform/httpx"
	"github.com/meridian-travel/meridian/internal/shared"
)

// CreateInput is the validated payload for creating an account.
type CreateInput struct {
	Email       string      `json:"email" validate:"required,email,max=254"`
	Name        string      `json:"name" validate:"required,min=1,max=160"`
	Role        shared.Role `json:"role" validate:"required,oneof=admin editor member"`
	Password    string      `json:"password" validate:"required,min=8,max=72"`
	Permissions []string    `json:"permissions" validate:"max=100,dive,min=3,max=80"`
}

// Normalize canonicalizes the email ahead of validation, so padding or
// casing never rejects an otherwise valid address.
func (in *CreateInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// UpdateInput is the partial payload; a new password triggers a rehash.
type UpdateInput struct {
	Email       *string      `json:"email" validate:"omitempty,email,max=254"`
	Name        *string      `json:"name" validate:"omitempty,min=1,max=160"`
	Role        *shared.Role `json:"role" validate:"omitempty,oneof=admin editor member"`
	Password    *string      `json:"password" validate:"omitempty,min=8,max=72"`
	Permissions *[]string    `json:"permissions" validate:"omitempty,max=100,dive,min=3,max=80"`
	Active      *bool        `json:"active"`
}

// Normalize mirrors the create-side email canonicalization.
func (in *UpdateInput) Normalize() {
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
	}
}

// SearchInput carries the optional listing filters plus pagination.
type SearchInput struct {
	shared.PageRequest
	Query  string      `json:"query" validate:"max=200"`
	Role   shared.Role `json:"role" validate:"omitempty,oneof=admin editor member"`
	Active *bool       `json:"active"`
}

// Service is the user instantiation of the generic entity service.
type Service = entity.Service[*User, CreateInput, UpdateInput, SearchInput]

// Handler is the user instantiation of the generic REST handler.
type Handler = entity.Handler[*User, CreateInput, UpdateInput, SearchInput]

// Deps collects what NewService needs beyond the store.
type Deps struct {
	Store     entity.Store[*User]
	Access    *access.Evaluator
	Validator *validator.Validate
	Logger    *slog.Logger
	Audit     entity.Recorder
}

// NewService wires the user service. The hashing hooks consume the staged
// plaintext password so it never reaches the store.
func NewService(deps Deps) *Service {
	return entity.NewService(entity.Config[*User, CreateInput, UpdateInput, SearchInput]{
		Entity:    shared.EntityUser,
		Store:     deps.Store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in CreateInput) *User {
			return &User{
				Email:       in.Email,
				Name:        in.Name,
				Role:        in.Role,
				Permissions: in.Permissions,
				Active:      true,
				rawPassword: in.Password,
			}
		},
		Apply: func(u *User, in UpdateInput) {
			if in.Email != nil {
				u.Email = *in.Email
			}
			if in.Name != nil {
				u.Name = *in.Name
			}
			if in.Role != nil {
				u.Role = *in.Role
			}
			if in.Password != nil {
				u.rawPassword = *in.Password
			}
			if in.Permissions != nil {
				u.Permissions = *in.Permissions
			}
			if in.Active != nil {
				u.Active = *in.Active
			}
		},
		Predicate: func(in SearchInput) entity.Filter {
			filter := entity.Filter{Search: in.Query}
			if in.Role != "" {
				filter = filter.Where("role", entity.OpEq, in.Role)
			}
			if in.Active != nil {
				filter = filter.Where("active", entity.OpEq, *in.Active)
			}
			return filter
		},
		Hooks: entity.Hooks[*User]{
			BeforeCreate: hashPassword,
			BeforeUpdate: hashPassword,
		},
	})
}

func hashPassword(ctx context.Context, actor shared.Actor, u *User) error {
	if u.rawPassword == "" {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.rawPassword = ""
	return nil
}

// Directory answers credential checks for the auth module without exposing
// the full service surface.
type Directory struct {
	store entity.Store[*User]
}

// NewDirectory constructs a Directory over the user store.
func NewDirectory(store entity.Store[*User]) *Directory {
	return &Directory{store: store}
}

// Authenticate verifies email and password against a live, active account.
// Every failure mode reports the same UNAUTHORIZED error so callers cannot
// probe which addresses exist.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (*User, error) {
	invalid := shared.UnauthorizedError("invalid credentials")

	u, err := d.store.FindOne(ctx, entity.Filter{}.Where("email", entity.OpEq, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if errors.Is(err, entity.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, shared.InternalError(err)
	}
	if !u.Active {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}
	return u, nil
}

// ParseSearch reads the listing filters from the query string.
func ParseSearch(r *http.Request) (SearchInput, error) {
	q := r.URL.Query()
	in := SearchInput{
		PageRequest: httpx.ParsePage(r),
		Query:       q.Get("q"),
		Role:        shared.Role(q.Get("role")),
	}
	if v := q.Get("active"); v != "" {
		active := v == "true"
		in.Active = &active
	}
	return in, nil
}
