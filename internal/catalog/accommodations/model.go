// Package accommodations manages bookable lodging tied to a destination.
package accommodations

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Accommodation is one lodging listing.
type Accommodation struct {
	entity.Meta
	Name          string            `json:"name"`
	DestinationID uuid.UUID         `json:"destinationId"`
	Type          string            `json:"type"`
	Description   string            `json:"description,omitempty"`
	PricePerNight float64           `json:"pricePerNight"`
	Capacity      int               `json:"capacity"`
	Amenities     []string          `json:"amenities,omitempty"`
	Vis           shared.Visibility `json:"visibility"`
}

// Visibility implements entity.Record.
func (a *Accommodation) Visibility() shared.Visibility {
	return a.Vis
}

// Accommodation types accepted by validation.
const (
	TypeHotel     = "hotel"
	TypeHostel    = "hostel"
	TypeApartment = "apartment"
	TypeCabin     = "cabin"
	TypeCamping   = "camping"
)

// Table is the relational mapping consumed by the generic store.
var Table = entity.Table[*Accommodation]{
	Name:          "accommodations",
	Columns:       []string{"name", "destination_id", "type", "description", "price_per_night", "capacity", "amenities", "visibility"},
	SearchColumns: []string{"name", "description"},
	DefaultOrder:  "name",
	Scan: func(row pgx.CollectableRow) (*Accommodation, error) {
		var a Accommodation
		err := row.Scan(
			&a.ID, &a.CreatedAt, &a.CreatedBy, &a.UpdatedAt, &a.UpdatedBy, &a.DeletedAt, &a.DeletedBy,
			&a.Name, &a.DestinationID, &a.Type, &a.Description, &a.PricePerNight, &a.Capacity, &a.Amenities, &a.Vis,
		)
		return &a, err
	},
	Values: func(a *Accommodation) []any {
		return []any{a.Name, a.DestinationID, a.Type, a.Description, a.PricePerNight, a.Capacity, a.Amenities, a.Vis}
	},
}
