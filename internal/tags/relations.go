package tags

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-travel/meridian/internal/platform/db"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Relations manages the entity_tags rows linking tags to any taggable
// entity type. Replacing a tag set runs inside one transaction, so the
// delete and the reinserts commit or roll back together.
type Relations struct {
	pool *pgxpool.Pool
}

// NewRelations constructs a Relations repository.
func NewRelations(pool *pgxpool.Pool) *Relations {
	return &Relations{pool: pool}
}

// Taggable entity types accepted by the relation endpoints.
var taggable = map[string]bool{
	shared.EntityDestination:   true,
	shared.EntityAccommodation: true,
	shared.EntityEvent:         true,
	shared.EntityPost:          true,
}

// Replace swaps the full tag set of one entity. The caller must hold the
// update permission for the owning entity type; admins pass implicitly.
func (r *Relations) Replace(ctx context.Context, actor shared.Actor, entityType string, entityID uuid.UUID, tagIDs []uuid.UUID) error {
	if !taggable[entityType] {
		return shared.ValidationError(fmt.Sprintf("entity type %q cannot be tagged", entityType))
	}
	if actor.IsAnonymous() {
		return shared.UnauthorizedError("authentication required")
	}
	if !actor.IsAdmin() && !actor.HasPermission(shared.Permission(entityType, shared.OpUpdate)) {
		return shared.ForbiddenError("missing " + shared.Permission(entityType, shared.OpUpdate) + " permission")
	}

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM entity_tags WHERE entity_type = $1 AND entity_id = $2`,
			entityType, entityID); err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO entity_tags (entity_type, entity_id, tag_id) VALUES ($1, $2, $3)`,
				entityType, entityID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return shared.InternalError(fmt.Errorf("tags: replace relations: %w", err))
	}
	return nil
}

// ListFor returns the live tags attached to one entity.
func (r *Relations) ListFor(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Tag, error) {
	if !taggable[entityType] {
		return nil, shared.ValidationError(fmt.Sprintf("entity type %q cannot be tagged", entityType))
	}
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.created_at, t.created_by, t.updated_at, t.updated_by, t.deleted_at, t.deleted_by,
		        t.name, t.slug, t.color
		 FROM tags t
		 JOIN entity_tags et ON et.tag_id = t.id
		 WHERE et.entity_type = $1 AND et.entity_id = $2 AND t.deleted_at IS NULL
		 ORDER BY t.name`,
		entityType, entityID)
	if err != nil {
		return nil, shared.InternalError(fmt.Errorf("tags: list relations: %w", err))
	}
	tags, err := pgx.CollectRows(rows, Table.Scan)
	if err != nil {
		return nil, shared.InternalError(fmt.Errorf("tags: scan relations: %w", err))
	}
	return tags, nil
}
