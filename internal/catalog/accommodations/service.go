package accommodations

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/platform/httpx"
	"github.com/meridian-travel/meridian/internal/shared"
)

// CreateInput is the validated payload for creating an accommodation.
type CreateInput struct {
	Name          string            `json:"name" validate:"required,min=2,max=160"`
	DestinationID uuid.UUID         `json:"destinationId" validate:"required"`
	Type          string            `json:"type" validate:"required,oneof=hotel hostel apartment cabin camping"`
	Description   string            `json:"description" validate:"max=4000"`
	PricePerNight float64           `json:"pricePerNight" validate:"gte=0,lte=100000"`
	Capacity      int               `json:"capacity" validate:"required,min=1,max=50"`
	Amenities     []string          `json:"amenities" validate:"max=30,dive,min=1,max=60"`
	Visibility    shared.Visibility `json:"visibility" validate:"omitempty,oneof=public private draft"`
}

// UpdateInput is the partial payload; every field is optional.
type UpdateInput struct {
	Name          *string            `json:"name" validate:"omitempty,min=2,max=160"`
	DestinationID *uuid.UUID         `json:"destinationId"`
	Type          *string            `json:"type" validate:"omitempty,oneof=hotel hostel apartment cabin camping"`
	Description   *string            `json:"description" validate:"omitempty,max=4000"`
	PricePerNight *float64           `json:"pricePerNight" validate:"omitempty,gte=0,lte=100000"`
	Capacity      *int               `json:"capacity" validate:"omitempty,min=1,max=50"`
	Amenities     *[]string          `json:"amenities" validate:"omitempty,max=30,dive,min=1,max=60"`
	Visibility    *shared.Visibility `json:"visibility" validate:"omitempty,oneof=public private draft"`
}

// SearchInput carries the optional listing filters plus pagination.
type SearchInput struct {
	shared.PageRequest
	Query         string    `json:"query" validate:"max=200"`
	DestinationID uuid.UUID `json:"destinationId"`
	Type          string    `json:"type" validate:"omitempty,oneof=hotel hostel apartment cabin camping"`
	MaxPrice      float64   `json:"maxPrice" validate:"gte=0"`
	MinCapacity   int       `json:"minCapacity" validate:"gte=0"`
}

// Service is the accommodation instantiation of the generic entity service.
type Service = entity.Service[*Accommodation, CreateInput, UpdateInput, SearchInput]

// Handler is the accommodation instantiation of the generic REST handler.
type Handler = entity.Handler[*Accommodation, CreateInput, UpdateInput, SearchInput]

// DestinationChecker reports whether a referenced destination exists and is
// live. The destinations module provides it.
type DestinationChecker func(ctx context.Context, id uuid.UUID) error

// Deps collects what NewService needs beyond the store.
type Deps struct {
	Store            entity.Store[*Accommodation]
	Access           *access.Evaluator
	Validator        *validator.Validate
	Logger           *slog.Logger
	Audit            entity.Recorder
	CheckDestination DestinationChecker
}

// NewService wires the accommodation service. Hooks verify the destination
// reference on create and whenever it changes.
func NewService(deps Deps) *Service {
	checkRef := func(ctx context.Context, actor shared.Actor, a *Accommodation) error {
		if deps.CheckDestination == nil {
			return nil
		}
		return deps.CheckDestination(ctx, a.DestinationID)
	}
	return entity.NewService(entity.Config[*Accommodation, CreateInput, UpdateInput, SearchInput]{
		Entity:    shared.EntityAccommodation,
		Store:     deps.Store,
		Access:    deps.Access,
		Validator: deps.Validator,
		Logger:    deps.Logger,
		Audit:     deps.Audit,
		New: func(in CreateInput) *Accommodation {
			vis := in.Visibility
			if vis == "" {
				vis = shared.VisibilityPublic
			}
			return &Accommodation{
				Name:          in.Name,
				DestinationID: in.DestinationID,
				Type:          in.Type,
				Description:   in.Description,
				PricePerNight: in.PricePerNight,
				Capacity:      in.Capacity,
				Amenities:     in.Amenities,
				Vis:           vis,
			}
		},
		Apply: func(a *Accommodation, in UpdateInput) {
			if in.Name != nil {
				a.Name = *in.Name
			}
			if in.DestinationID != nil {
				a.DestinationID = *in.DestinationID
			}
			if in.Type != nil {
				a.Type = *in.Type
			}
			if in.Description != nil {
				a.Description = *in.Description
			}
			if in.PricePerNight != nil {
				a.PricePerNight = *in.PricePerNight
			}
			if in.Capacity != nil {
				a.Capacity = *in.Capacity
			}
			if in.Amenities != nil {
				a.Amenities = *in.Amenities
			}
			if in.Visibility != nil {
				a.Vis = *in.Visibility
			}
		},
		Predicate: func(in SearchInput) entity.Filter {
			filter := entity.Filter{Search: in.Query}
			if in.DestinationID != uuid.Nil {
				filter = filter.Where("destination_id", entity.OpEq, in.DestinationID)
			}
			if in.Type != "" {
				filter = filter.Where("type", entity.OpEq, in.Type)
			}
			if in.MaxPrice > 0 {
				filter = filter.Where("price_per_night", entity.OpLte, in.MaxPrice)
			}
			if in.MinCapacity > 0 {
				filter = filter.Where("capacity", entity.OpGte, in.MinCapacity)
			}
			return filter
		},
		Hooks: entity.Hooks[*Accommodation]{
			BeforeCreate: checkRef,
			BeforeUpdate: checkRef,
		},
	})
}

// ParseSearch reads the listing filters from the query string.
func ParseSearch(r *http.Request) (SearchInput, error) {
	q := r.URL.Query()
	in := SearchInput{
		PageRequest: httpx.ParsePage(r),
		Query:       q.Get("q"),
		Type:        q.Get("type"),
		MinCapacity: httpx.QueryInt(r, "minCapacity"),
	}
	if v := q.Get("destinationId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return in, err
		}
		in.DestinationID = id
	}
	if v := q.Get("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return in, err
		}
		in.MaxPrice = price
	}
	return in, nil
}
