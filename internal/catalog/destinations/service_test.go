package destinations_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/catalog/destinations"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/entity/entitytest"
	"github.com/meridian-travel/meridian/internal/shared"
)

func newDestinationService(t *testing.T) (*destinations.Service, *entitytest.MemStore[destinations.Destination, *destinations.Destination]) {
	t.Helper()
	store := entitytest.NewMemStore[destinations.Destination, *destinations.Destination]()
	store.Match = func(d *destinations.Destination, filter entity.Filter) bool {
		for _, c := range filter.Clauses {
			switch c.Column {
			case "slug":
				if d.Slug != c.Value {
					return false
				}
			case "country":
				if d.Country != c.Value {
					return false
				}
			case "featured":
				if d.Featured != c.Value {
					return false
				}
			}
		}
		return true
	}
	svc := destinations.NewService(destinations.Deps{
		Store:     store,
		Access:    access.NewEvaluator(),
		Validator: validator.New(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, store
}

func destAdmin() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
}

func TestCreateDerivesSlugFromName(t *testing.T) {
	svc, _ := newDestinationService(t)

	d, err := svc.Create(context.Background(), destAdmin(), destinations.CreateInput{
		Name:    "Café São João",
		Country: "PT",
	})
	require.NoError(t, err)
	require.Equal(t, "cafe-sao-joao", d.Slug)
	require.Equal(t, shared.VisibilityPublic, d.Visibility())
}

func TestCreateKeepsExplicitSlug(t *testing.T) {
	svc, _ := newDestinationService(t)

	d, err := svc.Create(context.Background(), destAdmin(), destinations.CreateInput{
		Name:    "Northern Fjords",
		Slug:    "fjords",
		Country: "NO",
	})
	require.NoError(t, err)
	require.Equal(t, "fjords", d.Slug)
}

func TestCreateRejectsSlugCollision(t *testing.T) {
	svc, _ := newDestinationService(t)
	ctx := context.Background()
	admin := destAdmin()

	_, err := svc.Create(ctx, admin, destinations.CreateInput{Name: "Porto", Country: "PT"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, admin, destinations.CreateInput{Name: "Porto", Country: "BR"})
	require.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	require.Contains(t, err.Error(), "slug already in use")
}

func TestUpdateKeepsOwnSlugWithoutCollision(t *testing.T) {
	svc, _ := newDestinationService(t)
	ctx := context.Background()
	admin := destAdmin()

	d, err := svc.Create(ctx, admin, destinations.CreateInput{Name: "Porto", Country: "PT"})
	require.NoError(t, err)

	// Renaming without touching the slug must not trip over the record's
	// own slug row.
	region := "Norte"
	updated, err := svc.Update(ctx, admin, d.EntityMeta().ID, destinations.UpdateInput{Region: &region})
	require.NoError(t, err)
	require.Equal(t, "porto", updated.Slug)
	require.Equal(t, "Norte", updated.Region)
}

func TestListFiltersByCountryAndFeatured(t *testing.T) {
	svc, _ := newDestinationService(t)
	ctx := context.Background()
	admin := destAdmin()

	seeds := []destinations.CreateInput{
		{Name: "Porto", Country: "PT", Featured: true},
		{Name: "Lisbon", Country: "PT"},
		{Name: "Bergen", Country: "NO", Featured: true},
	}
	for _, in := range seeds {
		_, err := svc.Create(ctx, admin, in)
		require.NoError(t, err)
	}

	featured := true
	items, page, err := svc.List(ctx, admin, destinations.SearchInput{Country: "PT", Featured: &featured})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "Porto", items[0].Name)
}
