// Package posts manages editorial content: travel guides, news, stories.
package posts

import (
	"github.com/jackc/pgx/v5"

	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Moderation states a post moves through before publication.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Post is one editorial article.
type Post struct {
	entity.Meta
	Title   string            `json:"title"`
	Slug    string            `json:"slug"`
	Excerpt string            `json:"excerpt,omitempty"`
	Body    string            `json:"body"`
	Status  string            `json:"status"`
	Vis     shared.Visibility `json:"visibility"`

	// prevStatus holds the stored status during an update so the
	// moderation hook can detect a transition.
	prevStatus string
}

// Visibility implements entity.Record.
func (p *Post) Visibility() shared.Visibility {
	return p.Vis
}

// Table is the relational mapping consumed by the generic store.
var Table = entity.Table[*Post]{
	Name:          "posts",
	Columns:       []string{"title", "slug", "excerpt", "body", "status", "visibility"},
	SearchColumns: []string{"title", "excerpt", "body"},
	Scan: func(row pgx.CollectableRow) (*Post, error) {
		var p Post
		err := row.Scan(
			&p.ID, &p.CreatedAt, &p.CreatedBy, &p.UpdatedAt, &p.UpdatedBy, &p.DeletedAt, &p.DeletedBy,
			&p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Status, &p.Vis,
		)
		return &p, err
	},
	Values: func(p *Post) []any {
		return []any{p.Title, p.Slug, p.Excerpt, p.Body, p.Status, p.Vis}
	},
}
