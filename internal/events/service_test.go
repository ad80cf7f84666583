package events_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/entity/entitytest"
	"github.com/meridian-travel/meridian/internal/events"
	"github.com/meridian-travel/meridian/internal/shared"
)

func newEventService(t *testing.T) (*events.Service, *entitytest.MemStore[events.Event, *events.Event]) {
	t.Helper()
	store := entitytest.NewMemStore[events.Event, *events.Event]()
	v := validator.New()
	events.RegisterValidations(v)
	svc := events.NewService(events.Deps{
		Store:     store,
		Access:    access.NewEvaluator(),
		Validator: v,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, store
}

func eventAdmin() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	svc, store := newEventService(t)
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), eventAdmin(), events.CreateInput{
		Title:    "Night Market",
		StartsAt: start,
		EndsAt:   start.Add(-time.Hour),
	})
	require.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	require.Zero(t, store.CreateCalls)
}

func TestCreatePersistsValidEvent(t *testing.T) {
	svc, _ := newEventService(t)
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	ev, err := svc.Create(context.Background(), eventAdmin(), events.CreateInput{
		Title:    "Night Market",
		StartsAt: start,
		EndsAt:   start.Add(4 * time.Hour),
		Price:    12.50,
		Capacity: 400,
	})
	require.NoError(t, err)
	require.Equal(t, shared.VisibilityPublic, ev.Visibility())
	require.True(t, ev.EndsAt.After(ev.StartsAt))
}

func TestUpdateRejectsInvertedDatesInPayload(t *testing.T) {
	svc, _ := newEventService(t)
	admin := eventAdmin()
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	ev, err := svc.Create(context.Background(), admin, events.CreateInput{
		Title:    "Harvest Festival",
		StartsAt: start,
		EndsAt:   start.Add(6 * time.Hour),
	})
	require.NoError(t, err)

	newStart := start.Add(48 * time.Hour)
	newEnd := newStart.Add(-time.Minute)
	_, err = svc.Update(context.Background(), admin, ev.EntityMeta().ID, events.UpdateInput{
		StartsAt: &newStart,
		EndsAt:   &newEnd,
	})
	require.Equal(t, shared.CodeValidation, shared.CodeOf(err))
}

// Moving only the start past the stored end must fail even though the
// payload alone cannot be judged.
func TestUpdateRejectsStartMovedPastStoredEnd(t *testing.T) {
	svc, store := newEventService(t)
	admin := eventAdmin()
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	ev, err := svc.Create(context.Background(), admin, events.CreateInput{
		Title:    "Harvest Festival",
		StartsAt: start,
		EndsAt:   start.Add(6 * time.Hour),
	})
	require.NoError(t, err)

	newStart := start.Add(24 * time.Hour)
	_, err = svc.Update(context.Background(), admin, ev.EntityMeta().ID, events.UpdateInput{
		StartsAt: &newStart,
	})
	require.Equal(t, shared.CodeValidation, shared.CodeOf(err))

	// The stored record is untouched.
	stored, ok := store.Get(ev.EntityMeta().ID)
	require.True(t, ok)
	require.True(t, stored.StartsAt.Equal(start))
}

func TestUpdateMovesBothEndpoints(t *testing.T) {
	svc, _ := newEventService(t)
	admin := eventAdmin()
	start := time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)

	ev, err := svc.Create(context.Background(), admin, events.CreateInput{
		Title:    "Harvest Festival",
		StartsAt: start,
		EndsAt:   start.Add(6 * time.Hour),
	})
	require.NoError(t, err)

	newStart := start.Add(24 * time.Hour)
	newEnd := newStart.Add(3 * time.Hour)
	updated, err := svc.Update(context.Background(), admin, ev.EntityMeta().ID, events.UpdateInput{
		StartsAt: &newStart,
		EndsAt:   &newEnd,
	})
	require.NoError(t, err)
	require.True(t, updated.StartsAt.Equal(newStart))
	require.True(t, updated.EndsAt.Equal(newEnd))
}
