// Package tags manages labels and their many-to-many links to catalog and
// content entities.
package tags

import (
	"github.com/jackc/pgx/v5"

	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Tag is one label. Tags are always publicly readable.
type Tag struct {
	entity.Meta
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
}

// Visibility implements entity.Record.
func (t *Tag) Visibility() shared.Visibility {
	return shared.VisibilityPublic
}

// Table is the relational mapping consumed by the generic store.
var Table = entity.Table[*Tag]{
	Name:          "tags",
	Columns:       []string{"name", "slug", "color"},
	SearchColumns: []string{"name"},
	DefaultOrder:  "name",
	Scan: func(row pgx.CollectableRow) (*Tag, error) {
		var t Tag
		err := row.Scan(
			&t.ID, &t.CreatedAt, &t.CreatedBy, &t.UpdatedAt, &t.UpdatedBy, &t.DeletedAt, &t.DeletedBy,
			&t.Name, &t.Slug, &t.Color,
		)
		return &t, err
	},
	Values: func(t *Tag) []any {
		return []any{t.Name, t.Slug, t.Color}
	},
}
