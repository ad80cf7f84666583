package audit

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-travel/meridian/internal/platform/httpx"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Handler exposes the audit trail to administrators.
type Handler struct {
	logger *Logger
}

// NewHandler returns a Handler over the audit logger.
func NewHandler(logger *Logger) *Handler {
	return &Handler{logger: logger}
}

// MountRoutes registers the audit routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// List returns trail entries recorded within the requested window. Only
// administrators may read the trail.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.ActorFromContext(r.Context())
	if actor.IsAnonymous() {
		httpx.RespondError(w, shared.UnauthorizedError("authentication required"))
		return
	}
	if !actor.IsAdmin() {
		httpx.RespondError(w, shared.ForbiddenError("audit trail is restricted to administrators"))
		return
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	if v := r.URL.Query().Get("since"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpx.RespondError(w, shared.ValidationError("since must be an RFC3339 timestamp"))
			return
		}
		since = ts
	}

	entries, err := h.logger.ListSince(r.Context(), since)
	if err != nil {
		httpx.RespondError(w, shared.InternalError(err))
		return
	}
	httpx.OK(w, http.StatusOK, entries)
}
