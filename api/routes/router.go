package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/laptopshop/api/controllers"
	"github.com/angelmondragon/laptopshop/api/middleware"
	"github.com/angelmondragon/laptopshop/api/responses"
	"github.com/angelmondragon/laptopshop/api/views"
	"github.com/angelmondragon/laptopshop/internal/auth"
	"github.com/angelmondragon/laptopshop/internal/cart"
	products "github.com/angelmondragon/laptopshop/internal/products"
	"github.com/angelmondragon/laptopshop/pkg/auth/session"
	"github.com/angelmondragon/laptopshop/pkg/config"
	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
	"github.com/angelmondragon/laptopshop/pkg/logger"
	"github.com/angelmondragon/laptopshop/pkg/metrics"
	"github.com/angelmondragon/laptopshop/pkg/pagination"
	"github.com/angelmondragon/laptopshop/pkg/redis"
)

const loginPath = "/login"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessions session.Checker,
	renderer *views.Renderer,
	storefrontMetrics *metrics.Storefront,
	gatherer prometheus.Gatherer,
	productService products.Service,
	cartService cart.Service,
	authService auth.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg, renderer),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(storefrontMetrics),
		middleware.Session(cfg.JWT, cfg.Session.CookieName, sessions, logg),
	)
	r.NotFound(notFound(renderer, logg))

	loginPolicy := middleware.AuthRateLimitPolicy{
		Name:       "login",
		Window:     cfg.AuthRateLimit.LoginWindow,
		IPLimit:    cfg.AuthRateLimit.LoginIPLimit,
		EmailLimit: cfg.AuthRateLimit.LoginEmailLimit,
		TrustProxy: cfg.AuthRateLimit.TrustProxyHeaders,
	}
	registerPolicy := middleware.AuthRateLimitPolicy{
		Name:       "register",
		Window:     cfg.AuthRateLimit.RegisterWindow,
		IPLimit:    cfg.AuthRateLimit.RegisterIPLimit,
		EmailLimit: cfg.AuthRateLimit.RegisterEmailLimit,
		TrustProxy: cfg.AuthRateLimit.TrustProxyHeaders,
	}

	limits := pagination.Limits{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
	}
	pages := controllers.Pages{Views: renderer, Carts: cartService, Logger: logg}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisClient,
		}, logg))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", controllers.HomePage(productService, pages, limits))
	r.Get("/products", controllers.ProductListPage(productService, pages, limits))
	r.Get("/product/{id}", controllers.ProductDetailPage(productService, pages))
	r.Post("/product/{id}/cart", controllers.AddProductToCart(cartService, pages))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(loginPath))
		r.Get("/cart", controllers.CartPage(cartService, pages))
		r.Post("/cart/{productId}/delete", controllers.RemoveCartLine(cartService, pages))
	})

	r.Get("/login", controllers.LoginPage(pages))
	r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg, renderer)).Post("/login", controllers.Login(authService, pages, cfg.Session))
	r.Get("/register", controllers.RegisterPage(pages))
	r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg, renderer)).Post("/register", controllers.Register(authService, pages))
	r.Post("/logout", controllers.Logout(authService, pages, cfg.Session))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.App.CORSAllowedOrigins))
		r.Get("/products", controllers.APIListProducts(productService, limits, logg))
		r.Get("/products/{id}", controllers.APIGetProduct(productService, logg))
	})

	return r
}

func notFound(renderer *views.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		if renderer == nil || middleware.WantsJSON(r) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		renderer.Error(w, r, err, views.Page{})
	}
}
