package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-travel/meridian/internal/auth"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/shared"
	"github.com/meridian-travel/meridian/internal/users"
)

// stubUserStore serves the single account the Directory looks up by email.
type stubUserStore struct {
	user *users.User
}

func (s *stubUserStore) FindOne(ctx context.Context, filter entity.Filter) (*users.User, error) {
	if s.user == nil {
		return nil, entity.ErrRecordNotFound
	}
	for _, c := range filter.Clauses {
		if c.Column == "email" && c.Value == s.user.Email {
			return s.user, nil
		}
	}
	return nil, entity.ErrRecordNotFound
}

func (s *stubUserStore) FindByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return nil, entity.ErrRecordNotFound
}

func (s *stubUserStore) FindTombstoned(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return nil, entity.ErrRecordNotFound
}

func (s *stubUserStore) FindAll(ctx context.Context, filter entity.Filter, page shared.PageRequest) ([]*users.User, error) {
	return nil, nil
}

func (s *stubUserStore) Count(ctx context.Context, filter entity.Filter) (int, error) {
	return 0, nil
}

func (s *stubUserStore) Create(ctx context.Context, rec *users.User) error { return nil }
func (s *stubUserStore) Update(ctx context.Context, rec *users.User) error { return nil }

func (s *stubUserStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time, by uuid.UUID) error {
	return nil
}

func (s *stubUserStore) Restore(ctx context.Context, id uuid.UUID) error    { return nil }
func (s *stubUserStore) HardDelete(ctx context.Context, id uuid.UUID) error { return nil }

func newAuthService(t *testing.T, account *users.User) *auth.Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	directory := users.NewDirectory(&stubUserStore{user: account})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return auth.NewService(client, directory, logger, time.Hour)
}

func testAccount(t *testing.T, password string) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	u := &users.User{
		Email:        "guide@meridian.test",
		Name:         "Guide",
		Role:         shared.RoleEditor,
		Permissions:  []string{"destination.update"},
		Active:       true,
		PasswordHash: string(hash),
	}
	u.EntityMeta().ID = uuid.New()
	return u
}

func TestLoginResolveLogoutRoundTrip(t *testing.T) {
	account := testAccount(t, "swordfish")
	svc := newAuthService(t, account)
	ctx := context.Background()

	token, actor, err := svc.Login(ctx, "guide@meridian.test", "swordfish")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, account.EntityMeta().ID, actor.ID)
	require.Equal(t, shared.RoleEditor, actor.Role)

	resolved, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, actor.ID, resolved.ID)
	require.Equal(t, actor.Permissions, resolved.Permissions)

	require.NoError(t, svc.Logout(ctx, token))

	_, err = svc.Resolve(ctx, token)
	require.Equal(t, shared.CodeUnauthorized, shared.CodeOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t, testAccount(t, "swordfish"))
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "guide@meridian.test", "wrong")
	require.Equal(t, shared.CodeUnauthorized, shared.CodeOf(err))
	require.Contains(t, err.Error(), "invalid credentials")

	_, _, err = svc.Login(ctx, "nobody@meridian.test", "swordfish")
	require.Equal(t, shared.CodeUnauthorized, shared.CodeOf(err))
	require.Contains(t, err.Error(), "invalid credentials")
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	account := testAccount(t, "swordfish")
	account.Active = false
	svc := newAuthService(t, account)

	_, _, err := svc.Login(context.Background(), "guide@meridian.test", "swordfish")
	require.Equal(t, shared.CodeUnauthorized, shared.CodeOf(err))
}

func TestResolveUnknownToken(t *testing.T) {
	svc := newAuthService(t, nil)

	_, err := svc.Resolve(context.Background(), "made-up-token")
	require.Equal(t, shared.CodeUnauthorized, shared.CodeOf(err))
}

func TestLogoutUnknownTokenIsNotAnError(t *testing.T) {
	svc := newAuthService(t, nil)
	require.NoError(t, svc.Logout(context.Background(), "made-up-token"))
}

func TestMiddlewareInjectsActor(t *testing.T) {
	account := testAccount(t, "swordfish")
	svc := newAuthService(t, account)
	ctx := context.Background()

	token, _, err := svc.Login(ctx, "guide@meridian.test", "swordfish")
	require.NoError(t, err)

	var seen shared.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = shared.ActorFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	svc.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, account.EntityMeta().ID, seen.ID)

	// No token falls through as the anonymous actor.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil)
	svc.Middleware(next).ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, seen.IsAnonymous())
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	svc := newAuthService(t, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for an invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rr := httptest.NewRecorder()
	svc.Middleware(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.True(t, strings.Contains(rr.Body.String(), "UNAUTHORIZED"))
}
