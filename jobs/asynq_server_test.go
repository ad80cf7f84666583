package jobs_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-travel/meridian/internal/shared"
	"github.com/meridian-travel/meridian/jobs"
)

func newHealthRouter() chi.Router {
	r := chi.NewRouter()
	jobs.NewHandler(nil, slog.New(slog.NewTextHandler(io.Discard, nil))).MountRoutes(r)
	return r
}

func healthRequest(t *testing.T, router chi.Router, actor *shared.Actor) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if actor != nil {
		req = req.WithContext(shared.ContextWithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQueueHealthRequiresAuthentication(t *testing.T) {
	rec := healthRequest(t, newHealthRouter(), nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestQueueHealthForbidsNonAdmins(t *testing.T) {
	editor := shared.Actor{ID: uuid.New(), Role: shared.RoleEditor}
	rec := healthRequest(t, newHealthRouter(), &editor)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestQueueHealthReportsQueueToAdmins(t *testing.T) {
	admin := shared.Actor{ID: uuid.New(), Role: shared.RoleAdmin}
	rec := healthRequest(t, newHealthRouter(), &admin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"queue":"default"`)
}
