package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/catering-backend/api/controllers"
	"github.com/angelmondragon/catering-backend/api/middleware"
	"github.com/angelmondragon/catering-backend/internal/auth"
	catering "github.com/angelmondragon/catering-backend/internal/caterings"
	product "github.com/angelmondragon/catering-backend/internal/products"
	"github.com/angelmondragon/catering-backend/internal/quote"
	"github.com/angelmondragon/catering-backend/internal/settings"
	pkgauth "github.com/angelmondragon/catering-backend/pkg/auth"
	"github.com/angelmondragon/catering-backend/pkg/auth/session"
	"github.com/angelmondragon/catering-backend/pkg/config"
	"github.com/angelmondragon/catering-backend/pkg/logger"
	"github.com/angelmondragon/catering-backend/pkg/metrics"
	"github.com/angelmondragon/catering-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// cacheStore backs login throttling and idempotent replays.
type cacheStore interface {
	redis.IdempotencyStore
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	cache cacheStore,
	sessionManager sessionManager,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	productService product.Service,
	cateringService catering.Service,
	quoteService quote.Service,
	settingsService settings.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/api/health", controllers.APIHealth())

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, cache, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.PublicListProducts(productService, logg))
		r.Get("/{productId}", controllers.PublicGetProduct(productService, logg))
	})

	r.Route("/api/caterings", func(r chi.Router) {
		r.Get("/", controllers.PublicListCaterings(cateringService, logg))
		r.Get("/{cateringId}", controllers.PublicGetCatering(cateringService, logg))
		r.Get("/{cateringId}/quote", controllers.PublicCateringQuote(cateringService, quoteService, logg))
	})

	r.Get("/api/settings/{key}", controllers.PublicGetSetting(settingsService, logg))

	r.Route("/api/quotes", func(r chi.Router) {
		r.Post("/", controllers.CreateQuote(quoteService, logg))
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", controllers.GetQuote(quoteService, logg))
			r.Delete("/", controllers.DiscardQuote(quoteService, logg))
			r.Get("/message", controllers.QuoteMessage(quoteService, logg))
			r.Post("/products/{productId}", controllers.AddQuoteProduct(quoteService, logg))
			r.Delete("/lines/{instanceId}", controllers.RemoveQuoteLine(quoteService, logg))
			r.Post("/lines/{instanceId}/{direction}", controllers.ApplyQuoteDelta(quoteService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole(string(pkgauth.RoleAdmin), logg))
		r.Use(middleware.Idempotency(cache, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(productService, logg))
			r.Post("/", controllers.AdminCreateProduct(productService, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(productService, logg))
		})
		r.Route("/caterings", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateCatering(cateringService, logg))
			r.Put("/reorder", controllers.AdminReorderCaterings(cateringService, logg))
			r.Post("/suggested-price", controllers.AdminSuggestedPrice(cateringService, logg))
			r.Put("/{cateringId}", controllers.AdminUpdateCatering(cateringService, logg))
			r.Delete("/{cateringId}", controllers.AdminDeleteCatering(cateringService, logg))
		})
		r.Put("/settings/{key}", controllers.AdminPutSetting(settingsService, logg))
	})

	return r
}
