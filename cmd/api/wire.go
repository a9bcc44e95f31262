package main

import (
	"fmt"

	"github.com/carshop-ar/carshop-backend/api/routes"
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
	"github.com/carshop-ar/carshop-backend/pkg/db"
	"github.com/carshop-ar/carshop-backend/pkg/logger"
	"github.com/carshop-ar/carshop-backend/pkg/metrics"
	"github.com/carshop-ar/carshop-backend/pkg/outbox"
	"github.com/carshop-ar/carshop-backend/pkg/storage"
)

type wireParams struct {
	cfg      *config.Config
	logg     *logger.Logger
	db       *db.Client
	sessions *session.Manager
	shop     *metrics.ShopMetrics
}

// wire builds every repository and service the router needs. Redis, sessions
// and metrics are attached by the caller.
func wire(p wireParams) (routes.Dependencies, error) {
	cfg := p.cfg
	conn := p.db.DB()
	catalog := cfg.Catalog

	store, err := storage.NewLocal(cfg.Media)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("media storage: %w", err)
	}

	emitter := outbox.NewService(outbox.NewRepository(conn), p.logg)

	userRepo := users.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)
	partRepo := parts.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	couponRepo := coupons.NewRepository(conn)
	notificationRepo := notifications.NewRepository(conn)

	notifier := notifications.NewNotifier(notificationRepo, catalog, p.logg, p.shop)

	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: p.sessions,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("auth service: %w", err)
	}
	registerSvc, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             p.db,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("register service: %w", err)
	}
	usersSvc, err := users.NewService(userRepo)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("users service: %w", err)
	}
	categoriesSvc, err := categories.NewService(categoryRepo, catalog)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("categories service: %w", err)
	}
	partsSvc, err := parts.NewService(parts.ServiceParams{
		Repo:       partRepo,
		Categories: categoryRepo,
		DB:         p.db,
		Outbox:     emitter,
		Hook:       notifier,
		Store:      store,
		Catalog:    catalog,
		Logger:     p.logg,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("parts service: %w", err)
	}
	ordersSvc, err := orders.NewService(orderRepo, p.db, emitter, notifier, catalog)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("orders service: %w", err)
	}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		DB:      p.db,
		Parts:   partRepo,
		Coupons: couponRepo,
		Orders:  orderRepo,
		Outbox:  emitter,
		Hook:    notifier,
		Counter: p.shop,
		Logger:  p.logg,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("checkout service: %w", err)
	}
	notificationsSvc, err := notifications.NewService(notificationRepo, catalog)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("notifications service: %w", err)
	}
	couponsSvc, err := coupons.NewService(couponRepo, catalog, p.logg)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("coupons service: %w", err)
	}
	favoritesSvc, err := favorites.NewService(favorites.ServiceParams{
		Repo:    favorites.NewRepository(conn),
		Parts:   partRepo,
		Media:   store,
		Catalog: catalog,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("favorites service: %w", err)
	}
	reviewsSvc, err := reviews.NewService(reviews.NewRepository(conn), partRepo, catalog)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("reviews service: %w", err)
	}
	assistantSvc, err := assistant.NewService(assistant.ServiceParams{
		DB:      p.db,
		Parts:   partRepo,
		Outbox:  emitter,
		Hook:    notifier,
		Catalog: catalog,
		Logger:  p.logg,
	})
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("assistant service: %w", err)
	}
	dashboardSvc, err := dashboard.NewService(conn, catalog)
	if err != nil {
		return routes.Dependencies{}, fmt.Errorf("dashboard service: %w", err)
	}

	return routes.Dependencies{
		Config:        cfg,
		Logger:        p.logg,
		DB:            p.db,
		Auth:          authSvc,
		Register:      registerSvc,
		Users:         usersSvc,
		Categories:    categoriesSvc,
		Parts:         partsSvc,
		Orders:        ordersSvc,
		Checkout:      checkoutSvc,
		Notifications: notificationsSvc,
		Favorites:     favoritesSvc,
		Reviews:       reviewsSvc,
		Coupons:       couponsSvc,
		Assistant:     assistantSvc,
		Dashboard:     dashboardSvc,
	}, nil
}
