package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-travel/meridian/internal/audit"
	"github.com/meridian-travel/meridian/internal/auth"
	"github.com/meridian-travel/meridian/internal/billing"
	"github.com/meridian-travel/meridian/internal/catalog/accommodations"
	"github.com/meridian-travel/meridian/internal/catalog/destinations"
	"github.com/meridian-travel/meridian/internal/events"
	"github.com/meridian-travel/meridian/internal/observability"
	"github.com/meridian-travel/meridian/internal/posts"
	"github.com/meridian-travel/meridian/internal/tags"
	"github.com/meridian-travel/meridian/internal/users"
	"github.com/meridian-travel/meridian/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger      *slog.Logger
	Config      *Config
	Pool        *pgxpool.Pool
	AuthService *auth.Service
	Metrics     *observability.Metrics

	AuthHandler          *auth.Handler
	DestinationHandler   *destinations.Handler
	AccommodationHandler *accommodations.Handler
	EventHandler         *events.Handler
	PostHandler          *posts.Handler
	TagHandler           *tags.Handler
	TagRelationsHandler  *tags.RelationsHandler
	UserHandler          *users.Handler
	ClientHandler        *billing.ClientHandler
	SubscriptionHandler  *billing.SubscriptionHandler
	InvoiceHandler       *billing.InvoiceHandler
	AuditHandler         *audit.Handler
	JobsHandler          *jobs.Handler
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Auth:    params.AuthService,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := http.StatusOK
		body := `{"status":"ok"}`
		if params.Pool != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := params.Pool.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body = `{"status":"degraded"}`
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.MountRoutes)
		api.Route("/destinations", params.DestinationHandler.MountRoutes)
		api.Route("/accommodations", params.AccommodationHandler.MountRoutes)
		api.Route("/events", params.EventHandler.MountRoutes)
		api.Route("/posts", params.PostHandler.MountRoutes)
		api.Route("/tags", func(tr chi.Router) {
			params.TagHandler.MountRoutes(tr)
			params.TagRelationsHandler.MountRoutes(tr)
		})
		api.Route("/users", params.UserHandler.MountRoutes)
		api.Route("/billing", func(br chi.Router) {
			br.Route("/clients", params.ClientHandler.MountRoutes)
			br.Route("/subscriptions", params.SubscriptionHandler.MountRoutes)
			br.Route("/invoices", params.InvoiceHandler.MountRoutes)
		})
		if params.AuditHandler != nil {
			api.Route("/audit", params.AuditHandler.MountRoutes)
		}
		if params.JobsHandler != nil {
			api.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	return r
}
