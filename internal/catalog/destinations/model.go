// Package destinations manages the places the rest of the catalog hangs
// off: accommodations and events reference a destination.
package destinations

import (
	"github.com/jackc/pgx/v5"

	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Destination is a geographic area travellers browse.
type Destination struct {
	entity.Meta
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Country     string            `json:"country"`
	Region      string            `json:"region,omitempty"`
	Description string            `json:"description,omitempty"`
	Featured    bool              `json:"featured"`
	Vis         shared.Visibility `json:"visibility"`
}

// Visibility implements entity.Record.
func (d *Destination) Visibility() shared.Visibility {
	return d.Vis
}

// Table is the relational mapping consumed by the generic store.
var Table = entity.Table[*Destination]{
	Name:          "destinations",
	Columns:       []string{"name", "slug", "country", "region", "description", "featured", "visibility"},
	SearchColumns: []string{"name", "country", "region"},
	DefaultOrder:  "name",
	Scan: func(row pgx.CollectableRow) (*Destination, error) {
		var d Destination
		err := row.Scan(
			&d.ID, &d.CreatedAt, &d.CreatedBy, &d.UpdatedAt, &d.UpdatedBy, &d.DeletedAt, &d.DeletedBy,
			&d.Name, &d.Slug, &d.Country, &d.Region, &d.Description, &d.Featured, &d.Vis,
		)
		return &d, err
	},
	Values: func(d *Destination) []any {
		return []any{d.Name, d.Slug, d.Country, d.Region, d.Description, d.Featured, d.Vis}
	},
}
