// Package events manages time-bounded happenings: festivals, tours, markets.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Event is one scheduled happening, optionally tied to a destination.
type Event struct {
	entity.Meta
	Title         string            `json:"title"`
	DestinationID *uuid.UUID        `json:"destinationId,omitempty"`
	Description   string            `json:"description,omitempty"`
	StartsAt      time.Time         `json:"startsAt"`
	EndsAt        time.Time         `json:"endsAt"`
	Price         float64           `json:"price"`
	Capacity      int               `json:"capacity"`
	Vis           shared.Visibility `json:"visibility"`
}

// Visibility implements entity.Record.
func (e *Event) Visibility() shared.Visibility {
	return e.Vis
}

// Table is the relational mapping consumed by the generic store.
var Table = entity.Table[*Event]{
	Name:          "events",
	Columns:       []string{"title", "destination_id", "description", "starts_at", "ends_at", "price", "capacity", "visibility"},
	SearchColumns: []string{"title", "description"},
	DefaultOrder:  "starts_at",
	Scan: func(row pgx.CollectableRow) (*Event, error) {
		var e Event
		err := row.Scan(
			&e.ID, &e.CreatedAt, &e.CreatedBy, &e.UpdatedAt, &e.UpdatedBy, &e.DeletedAt, &e.DeletedBy,
			&e.Title, &e.DestinationID, &e.Description, &e.StartsAt, &e.EndsAt, &e.Price, &e.Capacity, &e.Vis,
		)
		return &e, err
	},
	Values: func(e *Event) []any {
		return []any{e.Title, e.DestinationID, e.Description, e.StartsAt, e.EndsAt, e.Price, e.Capacity, e.Vis}
	},
}
