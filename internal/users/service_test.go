package users_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/entity/entitytest"
	"github.com/meridian-travel/meridian/internal/shared"
	"github.com/meridian-travel/meridian/internal/users"
)

func newUserService(t *testing.T) (*users.Service, *entitytest.MemStore[users.User, *users.User]) {
	t.Helper()
	store := entitytest.NewMemStore[users.User, *users.User]()
	svc := users.NewService(users.Deps{
		Store:     store,
		Access:    access.NewEvaluator(),
		Validator: validator.New(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, store
}

func userAdmin() shared.Actor {
	return shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
}

func TestCreateHashesPassword(t *testing.T) {
	svc, store := newUserService(t)

	u, err := svc.Create(context.Background(), userAdmin(), users.CreateInput{
		Email:    "Guide@Meridian.Test ",
		Name:     "Guide",
		Role:     shared.RoleEditor,
		Password: "swordfish42",
	})
	require.NoError(t, err)
	require.Equal(t, "guide@meridian.test", u.Email)
	require.True(t, u.Active)

	stored, ok := store.Get(u.EntityMeta().ID)
	require.True(t, ok)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotContains(t, stored.PasswordHash, "swordfish42")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("swordfish42")))
}

func TestPasswordHashNeverSerializes(t *testing.T) {
	svc, _ := newUserService(t)

	u, err := svc.Create(context.Background(), userAdmin(), users.CreateInput{
		Email:    "guide@meridian.test",
		Name:     "Guide",
		Role:     shared.RoleMember,
		Password: "swordfish42",
	})
	require.NoError(t, err)

	payload, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(payload), "password")
	require.NotContains(t, string(payload), "swordfish42")
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc, store := newUserService(t)

	_, err := svc.Create(context.Background(), userAdmin(), users.CreateInput{
		Email:    "guide@meridian.test",
		Name:     "Guide",
		Role:     shared.RoleMember,
		Password: "short",
	})
	require.Equal(t, shared.CodeValidation, shared.CodeOf(err))
	require.Zero(t, store.CreateCalls)
}

func TestUpdateRehashesNewPassword(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()
	admin := userAdmin()

	u, err := svc.Create(ctx, admin, users.CreateInput{
		Email:    "guide@meridian.test",
		Name:     "Guide",
		Role:     shared.RoleMember,
		Password: "swordfish42",
	})
	require.NoError(t, err)

	before, _ := store.Get(u.EntityMeta().ID)
	oldHash := before.PasswordHash

	next := "anchovies99"
	_, err = svc.Update(ctx, admin, u.EntityMeta().ID, users.UpdateInput{Password: &next})
	require.NoError(t, err)

	after, _ := store.Get(u.EntityMeta().ID)
	require.NotEqual(t, oldHash, after.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(after.PasswordHash), []byte(next)))
}

func TestUpdateNormalizesPaddedEmail(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()
	admin := userAdmin()

	u, err := svc.Create(ctx, admin, users.CreateInput{
		Email:    "guide@meridian.test",
		Name:     "Guide",
		Role:     shared.RoleMember,
		Password: "swordfish42",
	})
	require.NoError(t, err)

	next := " Lead.Guide@Meridian.Test"
	_, err = svc.Update(ctx, admin, u.EntityMeta().ID, users.UpdateInput{Email: &next})
	require.NoError(t, err)

	after, _ := store.Get(u.EntityMeta().ID)
	require.Equal(t, "lead.guide@meridian.test", after.Email)
}

func TestUpdateWithoutPasswordKeepsHash(t *testing.T) {
	svc, store := newUserService(t)
	ctx := context.Background()
	admin := userAdmin()

	u, err := svc.Create(ctx, admin, users.CreateInput{
		Email:    "guide@meridian.test",
		Name:     "Guide",
		Role:     shared.RoleMember,
		Password: "swordfish42",
	})
	require.NoError(t, err)

	before, _ := store.Get(u.EntityMeta().ID)
	name := "Senior Guide"
	_, err = svc.Update(ctx, admin, u.EntityMeta().ID, users.UpdateInput{Name: &name})
	require.NoError(t, err)

	after, _ := store.Get(u.EntityMeta().ID)
	require.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestAccountsAreNeverPubliclyReadable(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, userAdmin(), users.CreateInput{
		Email:    "guide@meridian.test",
		Name:     "Guide",
		Role:     shared.RoleMember,
		Password: "swordfish42",
	})
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, shared.Anonymous(), u.EntityMeta().ID)
	require.Equal(t, shared.CodeForbidden, shared.CodeOf(err))
}
