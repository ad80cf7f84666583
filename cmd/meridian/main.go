package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/meridian-travel/meridian/internal/access"
	"github.com/meridian-travel/meridian/internal/app"
	"github.com/meridian-travel/meridian/internal/audit"
	"github.com/meridian-travel/meridian/internal/auth"
	"github.com/meridian-travel/meridian/internal/billing"
	"github.com/meridian-travel/meridian/internal/catalog/accommodations"
	"github.com/meridian-travel/meridian/internal/catalog/destinations"
	"github.com/meridian-travel/meridian/internal/entity"
	"github.com/meridian-travel/meridian/internal/events"
	"github.com/meridian-travel/meridian/internal/observability"
	"github.com/meridian-travel/meridian/internal/platform/cache"
	"github.com/meridian-travel/meridian/internal/platform/db"
	"github.com/meridian-travel/meridian/internal/posts"
	"github.com/meridian-travel/meridian/internal/shared"
	"github.com/meridian-travel/meridian/internal/tags"
	"github.com/meridian-travel/meridian/internal/users"
	"github.com/meridian-travel/meridian/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	v := validator.New()
	events.RegisterValidations(v)

	evaluator := access.NewEvaluator()
	trail := audit.NewLogger(pool)
	metrics := observability.NewMetrics()

	destinationStore := entity.NewPgStore(pool, destinations.Table)
	accommodationStore := entity.NewPgStore(pool, accommodations.Table)
	eventStore := entity.NewPgStore(pool, events.Table)
	postStore := entity.NewPgStore(pool, posts.Table)
	tagStore := entity.NewPgStore(pool, tags.Table)
	userStore := entity.NewPgStore(pool, users.Table)
	clientStore := entity.NewPgStore(pool, billing.ClientTable)
	subscriptionStore := entity.NewPgStore(pool, billing.SubscriptionTable)
	invoiceStore := entity.NewPgStore(pool, billing.InvoiceTable)

	destinationService := destinations.NewService(destinations.Deps{
		Store: destinationStore, Access: evaluator, Validator: v, Logger: logger, Audit: trail,
	})
	accommodationService := accommodations.NewService(accommodations.Deps{
		Store: accommodationStore, Access: evaluator, Validator: v, Logger: logger, Audit: trail,
		CheckDestination: func(ctx context.Context, id uuid.UUID) error {
			if _, err := destinationStore.FindByID(ctx, id); err != nil {
				if errors.Is(err, entity.ErrRecordNotFound) {
					return shared.ValidationError("destination does not exist")
				}
				return err
			}
			return nil
		},
	})
	eventService := events.NewService(events.Deps{
		Store: eventStore, Access: evaluator, Validator: v, Logger: logger, Audit: trail,
	})
	postService := posts.NewService(posts.Deps{
		Store: postStore, Access: evaluator, Validator: v, Logger: logger, Audit: trail,
	})
	tagService := tags.NewService(tags.Deps{
		Store: tagStore, Access: evaluator, Validator: v, Logger: logger, Audit: trail,
	})
	userService := users.NewService(users.Deps{
		Store: userStore, Access: evaluator, Validator: v, Logger: logger, Audit: trail,
	})

	billingDeps := billing.Deps{Access: evaluator, Validator: v, Logger: logger, Audit: trail}
	clientService := billing.NewClientService(clientStore, billingDeps)
	subscriptionService := billing.NewSubscriptionService(subscriptionStore, billingDeps)
	invoiceService := billing.NewInvoiceService(invoiceStore, billingDeps)

	directory := users.NewDirectory(userStore)
	authService := auth.NewService(redisClient, directory, logger, cfg.SessionTTL)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		Pool:        pool,
		AuthService: authService,
		Metrics:     metrics,

		AuthHandler:          auth.NewHandler(authService, v),
		DestinationHandler:   entity.NewHandler(logger, destinationService, destinations.ParseSearch),
		AccommodationHandler: entity.NewHandler(logger, accommodationService, accommodations.ParseSearch),
		EventHandler:         entity.NewHandler(logger, eventService, events.ParseSearch),
		PostHandler:          entity.NewHandler(logger, postService, posts.ParseSearch),
		TagHandler:           entity.NewHandler(logger, tagService, tags.ParseSearch),
		TagRelationsHandler:  tags.NewRelationsHandler(tags.NewRelations(pool)),
		UserHandler:          entity.NewHandler(logger, userService, users.ParseSearch),
		ClientHandler:        entity.NewHandler(logger, clientService, billing.ParseClientSearch),
		SubscriptionHandler:  entity.NewHandler(logger, subscriptionService, billing.ParseSubscriptionSearch),
		InvoiceHandler:       entity.NewHandler(logger, invoiceService, billing.ParseInvoiceSearch),
		AuditHandler:         audit.NewHandler(trail),
		JobsHandler:          jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
