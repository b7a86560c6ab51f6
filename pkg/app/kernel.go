package app

import (
	"context"
	"net/http"
	"time"

	"github.com/AkaOko/react-trpo/app/controllers"
	appgraphql "github.com/AkaOko/react-trpo/app/graphql"
	"github.com/AkaOko/react-trpo/app/routes"
	"github.com/AkaOko/react-trpo/config"
	"github.com/AkaOko/react-trpo/pkg/database"
	"github.com/AkaOko/react-trpo/pkg/graphql"
	"github.com/AkaOko/react-trpo/pkg/metrics"
	"github.com/AkaOko/react-trpo/pkg/middleware"
	"github.com/AkaOko/react-trpo/pkg/reqid"
	"github.com/AkaOko/react-trpo/pkg/response"
	"github.com/AkaOko/react-trpo/pkg/router"
	"github.com/AkaOko/react-trpo/pkg/storage"
)

// Handler builds the HTTP handler. stop ends the rate limiter's sweeper.
func (a *App) Handler(stop <-chan struct{}) (http.Handler, error) {
	schema, err := appgraphql.NewCatalogSchema(a.Services.Catalog, a.Services.Materials)
	if err != nil {
		return nil, err
	}

	r := router.New()

	// outermost first: metrics see the full latency, recovery catches
	// panics before anything logs
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSOrigins()...)))
	r.Use(middleware.RateLimit(config.RateLimit(), time.Minute, stop))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Mount("/metrics", metrics.Handler())
	if disk, err := a.Storage.Disk("local"); err == nil {
		if local, ok := disk.(*storage.LocalDisk); ok {
			r.Mount("/uploads", http.StripPrefix("/uploads", http.FileServer(http.Dir(local.Root()))))
		}
	}

	routes.RegisterAPI(r, routes.Deps{
		Verifier:         a.Signer,
		Health:           controllers.NewHealthController(func(ctx context.Context) error { return database.Ping(ctx, a.DB) }),
		Auth:             controllers.NewAuthController(a.Services.Auth),
		Profile:          controllers.NewProfileController(a.Services.Profile),
		Users:            controllers.NewUserController(a.Services.Users),
		Products:         controllers.NewProductController(a.Services.Catalog),
		Materials:        controllers.NewMaterialController(a.Services.Materials),
		MaterialRequests: controllers.NewMaterialRequestController(a.Services.MaterialRequests),
		Orders:           controllers.NewOrderController(a.Services.Orders),
		Uploads:          controllers.NewUploadController(a.Services.Uploads),
		LiveFeed:         a.Hub,
		GraphQL:          graphql.Handler(schema),
	})

	return r.Handler(), nil
}
