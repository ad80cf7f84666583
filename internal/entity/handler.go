package entity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/platform/httpx"
	"github.com/meridian-travel/meridian/internal/shared"
)

// Handler adapts the REST routes of one entity type to its service. The
// actor comes from the request context, placed there by the auth
// middleware; everything else is plain decode-call-respond.
type Handler[T Record, C any, U any, S Searchable] struct {
	logger  *slog.Logger
	service *Service[T, C, U, S]
	// search parses the entity-specific filter set out of the query string.
	search func(r *http.Request) (S, error)
}

// NewHandler constructs a Handler for the given service.
func NewHandler[T Record, C any, U any, S Searchable](logger *slog.Logger, service *Service[T, C, U, S], search func(r *http.Request) (S, error)) *Handler[T, C, U, S] {
	return &Handler[T, C, U, S]{logger: logger, service: service, search: search}
}

// MountRoutes registers the REST surface on r.
func (h *Handler[T, C, U, S]) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/count", h.Count)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.SoftDelete)
	r.Post("/{id}/restore", h.Restore)
	r.Delete("/{id}/purge", h.HardDelete)
}

func (h *Handler[T, C, U, S]) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.UnauthorizedError("no actor in request context"))
		return
	}
	var input C
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, shared.ValidationError("malformed request body"))
		return
	}
	rec, err := h.service.Create(r.Context(), actor, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, rec)
}

func (h *Handler[T, C, U, S]) GetByID(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	id, err := h.id(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec, err := h.service.GetByID(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, rec)
}

func (h *Handler[T, C, U, S]) Update(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	id, err := h.id(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var input U
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.RespondError(w, shared.ValidationError("malformed request body"))
		return
	}
	rec, err := h.service.Update(r.Context(), actor, id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, rec)
}

func (h *Handler[T, C, U, S]) SoftDelete(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	id, err := h.id(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SoftDelete(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler[T, C, U, S]) Restore(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	id, err := h.id(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec, err := h.service.Restore(r.Context(), actor, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, rec)
}

func (h *Handler[T, C, U, S]) HardDelete(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	id, err := h.id(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.HardDelete(r.Context(), actor, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

func (h *Handler[T, C, U, S]) List(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	input, err := h.search(r)
	if err != nil {
		httpx.RespondError(w, shared.ValidationError(err.Error()))
		return
	}
	recs, meta, err := h.service.List(r.Context(), actor, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OKPage(w, recs, meta)
}

func (h *Handler[T, C, U, S]) Count(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	input, err := h.search(r)
	if err != nil {
		httpx.RespondError(w, shared.ValidationError(err.Error()))
		return
	}
	total, err := h.service.Count(r.Context(), actor, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]int{"total": total})
}

// actor reads the request actor, falling back to anonymous for read routes
// so public content stays reachable without credentials.
func (h *Handler[T, C, U, S]) actor(r *http.Request) shared.Actor {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		return shared.Anonymous()
	}
	return actor
}

func (h *Handler[T, C, U, S]) id(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, shared.ValidationError("invalid id")
	}
	return id, nil
}
