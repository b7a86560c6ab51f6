// Package app boots the jewelry shop: it loads configuration, opens the
// database, cache and storage, builds the services and hands them to the
// HTTP kernel.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close()
//	return a.Serve(ctx)
//
// cmd/jewelry drives it through its cobra commands.
package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/config"
	_ "github.com/AkaOko/react-trpo/database/migrations"
	"github.com/AkaOko/react-trpo/pkg/auth"
	"github.com/AkaOko/react-trpo/pkg/cache"
	"github.com/AkaOko/react-trpo/pkg/database"
	"github.com/AkaOko/react-trpo/pkg/event"
	"github.com/AkaOko/react-trpo/pkg/logger"
	"github.com/AkaOko/react-trpo/pkg/migration"
	"github.com/AkaOko/react-trpo/pkg/storage"
	"github.com/AkaOko/react-trpo/pkg/ws"
)

// Services groups the application services.
type Services struct {
	Auth             *services.AuthService
	Profile          *services.ProfileService
	Users            *services.UserService
	Catalog          *services.CatalogService
	Materials        *services.MaterialService
	MaterialRequests *services.MaterialRequestService
	Orders           *services.OrderService
	Uploads          *services.UploadService
}

// App is a booted application.
type App struct {
	DB       *gorm.DB
	Cache    cache.Store
	Storage  *storage.Manager
	Signer   *auth.Signer
	Events   *event.Dispatcher
	Hub      *ws.Hub
	Services Services

	closers []func()
}

// OpenDB loads configuration and opens the database. The commands that
// need nothing else (migrate, seed) stop here.
func OpenDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return database.Connect()
}

// Boot builds the whole application. On error everything opened so far is
// closed again.
func Boot(ctx context.Context) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if uri := config.LogMongoURI(); uri != "" {
		closeSink, err := logger.EnableMongo(uri, config.LogMongoDatabase(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			a.closers = append(a.closers, closeSink)
		}
	}

	a.DB, err = database.Connect()
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = database.Close(a.DB) })

	if config.AutoMigrate() {
		if _, err := migration.New(a.DB, nil).Run(); err != nil {
			return nil, err
		}
	}

	a.Cache = openCache(ctx)

	a.Storage, err = storage.FromConfig(ctx)
	if err != nil {
		return nil, err
	}

	secret, err := config.SigningKey()
	if err != nil {
		return nil, err
	}
	if config.JWTSecret() == "" {
		logger.Warn("JWT_SECRET is not set, signing with a random key", "env", config.AppEnv())
	}
	a.Signer, err = auth.NewSigner(secret, config.JWTTTL())
	if err != nil {
		return nil, err
	}

	a.Events = event.New()
	a.Hub = ws.NewHub(config.CORSOrigins())
	a.Services = NewServices(a.DB, a.Cache, a.Storage.Default(), a.Signer, a.Events)

	if err := a.Services.Orders.Init(ctx); err != nil {
		return nil, fmt.Errorf("orders: %w", err)
	}
	a.listen()

	logger.Info("application booted", "env", config.AppEnv(), "db", config.DatabaseDriver(), "cache", config.CacheDriver())
	return a, nil
}

// NewServices builds the services over already opened dependencies.
func NewServices(db *gorm.DB, store cache.Store, disk storage.Disk, signer *auth.Signer, events *event.Dispatcher) Services {
	return Services{
		Auth:             services.NewAuthService(db, signer),
		Profile:          services.NewProfileService(db),
		Users:            services.NewUserService(db),
		Catalog:          services.NewCatalogService(db, store, config.CatalogCacheTTL()),
		Materials:        services.NewMaterialService(db),
		MaterialRequests: services.NewMaterialRequestService(db),
		Orders:           services.NewOrderService(db, events),
		Uploads:          services.NewUploadService(disk, config.UploadMaxBytes()),
	}
}

// listen forwards order events to the live feed.
func (a *App) listen() {
	forward := func(ctx context.Context, payload any) {
		if err := a.Hub.BroadcastJSON(payload); err != nil {
			logger.WithCtx(ctx).Warn("live feed broadcast failed", "error", err)
		}
	}
	a.Events.Listen(services.EventOrderCreated, forward)
	a.Events.Listen(services.EventOrderStatusChanged, forward)
}

func openCache(ctx context.Context) cache.Store {
	if config.CacheDriver() == "memory" {
		return cache.NewMemoryStore()
	}
	rs, err := cache.Connect(ctx)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory cache", "error", err)
		return cache.NewMemoryStore()
	}
	return rs
}

// Close releases everything Boot opened, in reverse order.
func (a *App) Close() {
	if a.Events != nil {
		a.Events.Wait()
	}
	if rs, ok := a.Cache.(*cache.RedisStore); ok {
		_ = rs.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
