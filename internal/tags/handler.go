package tags

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/platform/httpx"
	"github.com/meridian-travel/meridian/internal/shared"
)

// RelationsHandler exposes the tag-assignment endpoints that fall outside
// the generic CRUD surface.
type RelationsHandler struct {
	relations *Relations
}

// NewRelationsHandler constructs a RelationsHandler.
func NewRelationsHandler(relations *Relations) *RelationsHandler {
	return &RelationsHandler{relations: relations}
}

// MountRoutes registers the relation routes on r.
func (h *RelationsHandler) MountRoutes(r chi.Router) {
	r.Get("/relations/{entityType}/{id}", h.List)
	r.Put("/relations/{entityType}/{id}", h.Replace)
}

type replaceRequest struct {
	TagIDs []uuid.UUID `json:"tagIds"`
}

func (h *RelationsHandler) Replace(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.UnauthorizedError("no actor in request context"))
		return
	}
	entityID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ValidationError("invalid id"))
		return
	}
	var req replaceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, shared.ValidationError("malformed request body"))
		return
	}
	if err := h.relations.Replace(r.Context(), actor, chi.URLParam(r, "entityType"), entityID, req.TagIDs); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *RelationsHandler) List(w http.ResponseWriter, r *http.Request) {
	entityID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, shared.ValidationError("invalid id"))
		return
	}
	tags, err := h.relations.ListFor(r.Context(), chi.URLParam(r, "entityType"), entityID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, tags)
}
