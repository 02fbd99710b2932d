package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-backoffice/api/controllers"
	"github.com/angelmondragon/storefront-backoffice/api/middleware"
	"github.com/angelmondragon/storefront-backoffice/internal/addresses"
	"github.com/angelmondragon/storefront-backoffice/internal/cart"
	"github.com/angelmondragon/storefront-backoffice/internal/catalog"
	"github.com/angelmondragon/storefront-backoffice/internal/customers"
	"github.com/angelmondragon/storefront-backoffice/pkg/config"
	"github.com/angelmondragon/storefront-backoffice/pkg/db"
	"github.com/angelmondragon/storefront-backoffice/pkg/logger"
	"github.com/angelmondragon/storefront-backoffice/pkg/metrics"
	"github.com/angelmondragon/storefront-backoffice/pkg/redis"
)

// Services groups the domain services exposed over HTTP.
type Services struct {
	Customers customers.Service
	Addresses addresses.Service
	Catalog   catalog.Service
	Cart      cart.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	var (
		limiter     middleware.RateLimitStore
		redisPinger controllers.Pinger
	)
	if redisClient != nil {
		limiter = redisClient
		redisPinger = redisClient
	}
	var dbPinger controllers.Pinger
	if dbP != nil {
		dbPinger = dbP
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).Post("/register", controllers.CustomerRegister(svcs.Customers, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).Post("/login", controllers.CustomerLogin(svcs.Customers, logg))

			r.Route("/{customerID}", func(r chi.Router) {
				r.Get("/", controllers.CustomerGet(svcs.Customers, logg))
				r.Put("/", controllers.CustomerUpdate(svcs.Customers, logg))
				r.Delete("/", controllers.CustomerDelete(svcs.Customers, logg))
				r.Post("/password", controllers.CustomerChangePassword(svcs.Customers, logg))
				r.Get("/addresses", controllers.AddressListByCustomer(svcs.Addresses, logg))
				r.Get("/cart", controllers.CartGetOpen(svcs.Cart, logg))
			})
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", controllers.AddressCreate(svcs.Addresses, logg))
			r.Get("/{addressID}", controllers.AddressGet(svcs.Addresses, logg))
			r.Put("/{addressID}", controllers.AddressUpdate(svcs.Addresses, logg))
			r.Delete("/{addressID}", controllers.AddressDelete(svcs.Addresses, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svcs.Catalog, logg))
			r.Post("/", controllers.CategoryCreate(svcs.Catalog, logg))
			r.Get("/{categoryID}", controllers.CategoryGet(svcs.Catalog, logg))
			r.Put("/{categoryID}", controllers.CategoryUpdate(svcs.Catalog, logg))
			r.Delete("/{categoryID}", controllers.CategoryDelete(svcs.Catalog, logg))
			r.Get("/{categoryID}/products", controllers.ProductListByCategory(svcs.Catalog, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Catalog, logg))
			r.Post("/", controllers.ProductCreate(svcs.Catalog, logg))
			r.Get("/{productID}", controllers.ProductGet(svcs.Catalog, logg))
			r.Put("/{productID}", controllers.ProductUpdate(svcs.Catalog, logg))
			r.Delete("/{productID}", controllers.ProductDelete(svcs.Catalog, logg))
			r.Patch("/{productID}/availability", controllers.ProductSetAvailability(svcs.Catalog, logg))
		})
	})

	return r
}
