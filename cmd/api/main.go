package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/catering-backend/api"
	"github.com/angelmondragon/catering-backend/api/controllers"
	"github.com/angelmondragon/catering-backend/api/routes"
	"github.com/angelmondragon/catering-backend/internal/auth"
	catering "github.com/angelmondragon/catering-backend/internal/caterings"
	product "github.com/angelmondragon/catering-backend/internal/products"
	"github.com/angelmondragon/catering-backend/internal/quote"
	"github.com/angelmondragon/catering-backend/internal/settings"
	"github.com/angelmondragon/catering-backend/internal/users"
	"github.com/angelmondragon/catering-backend/pkg/auth/session"
	"github.com/angelmondragon/catering-backend/pkg/config"
	"github.com/angelmondragon/catering-backend/pkg/db"
	"github.com/angelmondragon/catering-backend/pkg/instance"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/angelmondragon/catering-backend/pkg/metrics"
	"github.com/angelmondragon/catering-backend/pkg/migrate"
	"github.com/angelmondragon/catering-backend/pkg/redis"
	"github.com/angelmondragon/catering-backend/pkg/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	tracing, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.App.Env)
	if err != nil {
		logg.Error(ctx, "failed to set up tracing", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	productRepo := product.NewRepository(dbClient.DB())
	productService, err := product.NewService(productRepo, logg)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	pricer := quote.NewPricer(logg, quoteMetrics)
	formatter := quote.NewFormatter(pricer, cfg.Quote.CurrencySymbol)

	cateringService, err := catering.NewService(catering.ServiceParams{
		Repo:      catering.NewRepository(dbClient.DB()),
		Products:  productRepo,
		Tx:        dbClient,
		Pricer:    pricer,
		Formatter: formatter,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create catering service", err)
		os.Exit(1)
	}

	sessions, err := quote.NewSessionStore(redisClient, cfg.Quote.SessionTTL)
	if err != nil {
		logg.Error(ctx, "failed to create quote session store", err)
		os.Exit(1)
	}
	quoteService, err := quote.NewService(quote.ServiceParams{
		Catalog:   productService,
		Sessions:  sessions,
		Pricer:    pricer,
		Formatter: formatter,
		Handoff:   quote.HandoffConfig{BaseURL: cfg.Quote.HandoffBaseURL, Phone: cfg.Quote.HandoffPhone},
		Logger:    logg,
		Metrics:   quoteMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to create quote service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(ctx, "failed to create settings service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(
		cfg,
		logg,
		map[string]controllers.Pinger{"postgres": dbClient, "redis": redisClient},
		redisClient,
		sessionManager,
		metrics.NewHTTPMetrics(registry),
		registry,
		authService,
		productService,
		cateringService,
		quoteService,
		settingsService,
	)
	handler := otelhttp.NewHandler(router, "catering-api", otelhttp.WithTracerProvider(tracing.TracerProvider()))

	server := api.NewServer(cfg, os.Getenv("PORT"), handler)
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = multierr.Combine(
		server.Shutdown(shutdownCtx),
		tracing.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if err != nil {
		logg.Error(shutdownCtx, "shutdown finished with errors", err)
		os.Exit(1)
	}
	logg.Info(shutdownCtx, "api server stopped")
}
