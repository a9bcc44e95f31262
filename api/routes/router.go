package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carshop-ar/carshop-backend/api/controllers"
	"github.com/carshop-ar/carshop-backend/api/middleware"
	"github.com/carshop-ar/carshop-backend/internal/assistant"
	"github.com/carshop-ar/carshop-backend/internal/auth"
	"github.com/carshop-ar/carshop-backend/internal/categories"
	"github.com/carshop-ar/carshop-backend/internal/checkout"
	"github.com/carshop-ar/carshop-backend/internal/coupons"
	"github.com/carshop-ar/carshop-backend/internal/dashboard"
	"github.com/carshop-ar/carshop-backend/internal/favorites"
	"github.com/carshop-ar/carshop-backend/internal/notifications"
	"github.com/carshop-ar/carshop-backend/internal/orders"
	"github.com/carshop-ar/carshop-backend/internal/parts"
	"github.com/carshop-ar/carshop-backend/internal/reviews"
	"github.com/carshop-ar/carshop-backend/internal/users"
	"github.com/carshop-ar/carshop-backend/pkg/auth/session"
	"github.com/carshop-ar/carshop-backend/pkg/config"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	pkgredis "github.com/carshop-ar/carshop-backend/pkg/redis"
)

type pinger interface {
	Ping(context.Context) error
}

type redisStore interface {
	pkgredis.IdempotencyStore
	pinger
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type httpObserver interface {
	Observe(method, route string, status int, elapsed time.Duration)
}

// Dependencies carries everything the HTTP surface is built from. Nil
// services answer 500 on their routes; a nil Redis disables rate limiting
// and idempotency.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Redis    redisStore
	Sessions session.AccessSessionChecker
	Metrics  httpObserver
	Gatherer prometheus.Gatherer

	Auth          auth.Service
	Register      auth.RegisterService
	Users         users.Service
	Categories    categories.Service
	Parts         parts.Service
	Orders        orders.Service
	Checkout      checkout.Service
	Notifications notifications.Service
	Favorites     favorites.Service
	Reviews       reviews.Service
	Coupons       coupons.Service
	Assistant     assistant.Service
	Dashboard     dashboard.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
		chimw.StripSlashes,
	)

	var (
		rateStore        rateLimiter
		idempotencyStore pkgredis.IdempotencyStore
		redisPinger      pinger
	)
	if deps.Redis != nil {
		rateStore = deps.Redis
		idempotencyStore = deps.Redis
		redisPinger = deps.Redis
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentityLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterIdentityLimit,
	)

	authn := middleware.Auth(cfg.JWT, deps.Sessions, logg)
	staff := middleware.RequireStaff(logg)
	idempotent := middleware.Idempotency(idempotencyStore, logg, middleware.DefaultIdempotencyTTL)
	checkoutIdempotent := middleware.Idempotency(idempotencyStore, logg, middleware.CheckoutIdempotencyTTL)
	maxUpload := cfg.Media.MaxUploadBytes()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	if prefix := cfg.Media.URLPrefix; strings.HasPrefix(prefix, "/") {
		prefix = "/" + strings.Trim(prefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.Media.Root))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(deps.Register, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).Post("/token", controllers.AuthToken(deps.Auth, logg))
			r.Post("/token/refresh", controllers.AuthRefresh(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/me", controllers.AuthMe(deps.Users, logg))
				r.Get("/profile", controllers.ProfileGet(deps.Users, logg))
				r.Put("/profile", controllers.ProfileUpdate(deps.Users, logg))
				r.Patch("/profile", controllers.ProfileUpdate(deps.Users, logg))
			})
		})

		r.Route("/categorias", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(deps.Categories, logg))
			r.Get("/{id}", controllers.CategoryDetail(deps.Categories, logg))

			r.Group(func(r chi.Router) {
				r.Use(authn, staff)
				r.Post("/", controllers.CategoryCreate(deps.Categories, logg))
				r.Put("/{id}", controllers.CategoryUpdate(deps.Categories, logg))
				r.Patch("/{id}", controllers.CategoryUpdate(deps.Categories, logg))
				r.Delete("/{id}", controllers.CategoryDelete(deps.Categories, logg))
			})
		})

		r.Route("/repuestos", func(r chi.Router) {
			r.Get("/", controllers.PartList(deps.Parts, logg))
			r.Get("/{id}", controllers.PartDetail(deps.Parts, logg))
			r.Get("/{id}/imagenes", controllers.PartImageList(deps.Parts, logg))
			r.Get("/{id}/reviews", controllers.PartReviewList(deps.Reviews, logg))
			r.Get("/{id}/reviews/summary", controllers.PartReviewSummary(deps.Reviews, logg))

			r.Group(func(r chi.Router) {
				r.Use(authn, staff)
				r.Post("/", controllers.PartCreate(deps.Parts, maxUpload, logg))
				r.Put("/{id}", controllers.PartUpdate(deps.Parts, logg))
				r.Patch("/{id}", controllers.PartUpdate(deps.Parts, logg))
				r.Delete("/{id}", controllers.PartDelete(deps.Parts, logg))
				r.Post("/{id}/image", controllers.PartSetImage(deps.Parts, maxUpload, logg))
				r.Post("/{id}/imagenes", controllers.PartImageAdd(deps.Parts, maxUpload, logg))
				r.Delete("/{id}/imagenes/{imageId}", controllers.PartImageDelete(deps.Parts, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.With(checkoutIdempotent).Post("/", controllers.OrderCreate(deps.Checkout, logg))
			r.Get("/{id}", controllers.OrderDetail(deps.Orders, logg))
			r.With(staff).Patch("/{id}", controllers.OrderUpdateStatus(deps.Orders, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.With(idempotent).Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
			r.With(idempotent).Post("/{id}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", controllers.FavoriteList(deps.Favorites, logg))
			r.With(idempotent).Post("/", controllers.FavoriteAdd(deps.Favorites, logg))
			r.Delete("/{id}", controllers.FavoriteRemove(deps.Favorites, logg))
			r.Delete("/by-repuesto/{id}", controllers.FavoriteRemoveByPart(deps.Favorites, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.ReviewList(deps.Reviews, logg))

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.With(idempotent).Post("/", controllers.ReviewSubmit(deps.Reviews, logg))
				r.Put("/{id}", controllers.ReviewUpdate(deps.Reviews, logg))
				r.Patch("/{id}", controllers.ReviewUpdate(deps.Reviews, logg))
				r.Delete("/{id}", controllers.ReviewDelete(deps.Reviews, logg))
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Use(authn)
			r.Post("/validate", controllers.CouponValidate(deps.Coupons, logg))

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Get("/", controllers.CouponList(deps.Coupons, logg))
				r.Post("/", controllers.CouponCreate(deps.Coupons, logg))
				r.Get("/{id}", controllers.CouponDetail(deps.Coupons, logg))
				r.Put("/{id}", controllers.CouponUpdate(deps.Coupons, logg))
				r.Patch("/{id}", controllers.CouponUpdate(deps.Coupons, logg))
				r.Delete("/{id}", controllers.CouponDelete(deps.Coupons, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authn, staff)
			r.Post("/assistant", controllers.AdminAssistant(deps.Assistant, logg))
			r.Get("/dashboard", controllers.AdminDashboard(deps.Dashboard, logg))
		})
	})

	return r
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}
