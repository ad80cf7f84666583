package accommodations_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/catalog/accommodations"
	"github.com/meridian-travel/meridian/internal/entity/entitytest"
	"github.com/meridian-travel/meridian/internal/shared"
)

func newAccommodationService(t *testing.T, check accommodations.DestinationChecker) (*accommodations.Service, *entitytest.MemStore[accommodations.Accommodation, *accommodations.Accommodation]) {
	t.Helper()
	store := entitytest.NewMemStore[accommodations.Accommodation, *accommodations.Accommodation]()
	svc := accommodations.NewService(accommodations.Deps{
		Store:            store,
		Access:           access.NewEvaluator(),
		Validator:        validator.New(),
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		CheckDestination: check,
	})
	return svc, store
}

func TestCreateRejectsUnknownDestination(t *testing.T) {
	missing := uuid.New()
	svc, store := newAccommodationService(t, func(ctx context.Context, id uuid.UUID) error {
		return shared.ValidationError("destination does not exist")
	})

	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
	_, err := svc.Create(context.Background(), admin, accommodations.CreateInput{
		Name:          "Harbour Hostel",
		DestinationID: missing,
		Type:          "hostel",
		Capacity:      12,
	})
	require.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	require.Contains(t, err.Error(), "destination does not exist")
	_, ok := store.Get(missing)
	require.False(t, ok)
}

func TestCreateAcceptsKnownDestination(t *testing.T) {
	known := uuid.New()
	svc, _ := newAccommodationService(t, func(ctx context.Context, id uuid.UUID) error {
		if id != known {
			return shared.ValidationError("destination does not exist")
		}
		return nil
	})

	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
	a, err := svc.Create(context.Background(), admin, accommodations.CreateInput{
		Name:          "Harbour Hostel",
		DestinationID: known,
		Type:          "hostel",
		PricePerNight: 45,
		Capacity:      12,
		Amenities:     []string{"wifi", "lockers"},
	})
	require.NoError(t, err)
	require.Equal(t, known, a.DestinationID)
	require.Equal(t, shared.VisibilityPublic, a.Visibility())
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc, store := newAccommodationService(t, nil)

	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
	_, err := svc.Create(context.Background(), admin, accommodations.CreateInput{
		Name:          "Treehouse",
		DestinationID: uuid.New(),
		Type:          "treehouse",
		Capacity:      2,
	})
	require.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	require.Zero(t, store.CreateCalls)
}
