package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angkormart/angkormart-backend/api/controllers"
	"github.com/angkormart/angkormart-backend/api/middleware"
	authsvc "github.com/angkormart/angkormart-backend/internal/auth"
	cartsvc "github.com/angkormart/angkormart-backend/internal/cart"
	catalogsvc "github.com/angkormart/angkormart-backend/internal/catalog"
	userssvc "github.com/angkormart/angkormart-backend/internal/users"
	"github.com/angkormart/angkormart-backend/pkg/auth/session"
	"github.com/angkormart/angkormart-backend/pkg/config"
	"github.com/angkormart/angkormart-backend/pkg/logger"
	"github.com/angkormart/angkormart-backend/pkg/metrics"
	"github.com/angkormart/angkormart-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *redis.Client
	SessionManager session.AccessSessionChecker
	AuthService    authsvc.Service
	CatalogService catalogsvc.Service
	CartService    cartsvc.Service
	UsersService   userssvc.Service
	Registry       *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	if deps.Registry != nil {
		httpMetrics := metrics.NewHTTPMetrics(deps.Registry)
		r.Use(httpMetrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Registry))
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(deps.DB, deps.Redis)))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	// Public catalog browse.
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(deps.CatalogService, logg))
		r.Get("/{categoryId}", controllers.CategoryDetail(deps.CatalogService, logg))
	})
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.CatalogService, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.CatalogService, logg))
	})

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Patch("/items/{itemId}", controllers.CartSetItemQty(deps.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
		})

		r.Route("/api/v1/users/me", func(r chi.Router) {
			r.Get("/", controllers.UserMe(deps.UsersService, logg))
			r.Patch("/", controllers.UserUpdateUsername(deps.UsersService, logg))
			r.Get("/profile", controllers.UserProfile(deps.UsersService, logg))
			r.Patch("/profile", controllers.UserUpdateProfileImage(deps.UsersService, logg))
		})
	})

	return r
}
