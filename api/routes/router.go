package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blackboxinc/storefront-backend/api/controllers"
	"github.com/blackboxinc/storefront-backend/api/middleware"
	cartsvc "github.com/blackboxinc/storefront-backend/internal/cart"
	catalogsvc "github.com/blackboxinc/storefront-backend/internal/catalog"
	checkoutsvc "github.com/blackboxinc/storefront-backend/internal/checkout"
	"github.com/blackboxinc/storefront-backend/pkg/config"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
	"github.com/blackboxinc/storefront-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Redis     *redis.Client
	Carts     *cartsvc.Store
	Checkout  checkoutsvc.Service
	GuestInfo *checkoutsvc.GuestInfoStore
	Catalog   *catalogsvc.Service
	Metrics   *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	var redisPinger controllers.Pinger
	var limiter middleware.RateLimiterStore
	if deps.Redis != nil {
		redisPinger = deps.Redis
		limiter = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisPinger))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.JWT, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.ProductList(deps.Catalog, logg))
			r.Get("/products/{slug}", controllers.ProductDetail(deps.Catalog, logg))
			r.Get("/products/{productId}/variants", controllers.ProductVariants(deps.Catalog, logg))
			r.Get("/variants/{variantId}/sizes", controllers.VariantSizes(deps.Catalog, logg))
			r.Get("/categories", controllers.CategoryList(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Carts, logg))
			r.Delete("/", controllers.CartClear(deps.Carts, logg))
			r.Post("/toggle", controllers.CartToggle(deps.Carts, logg))
			r.Post("/items", controllers.CartAddItem(deps.Carts, logg))
			r.Delete("/items/{cartId}", controllers.CartRemoveItem(deps.Carts, logg))
			r.Post("/items/{cartId}/increase", controllers.CartIncreaseItem(deps.Carts, logg))
			r.Post("/items/{cartId}/decrease", controllers.CartDecreaseItem(deps.Carts, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.With(middleware.CheckoutRateLimit(cfg.Checkout, limiter, logg)).
				Post("/", controllers.CheckoutSubmit(deps.Checkout, logg))
			r.Get("/guest-info", controllers.GuestInfoFetch(deps.GuestInfo, logg))
		})
	})

	return r
}
