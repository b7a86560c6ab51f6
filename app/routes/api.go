package routes

import (
	"net/http"

	"github.com/AkaOko/react-trpo/app/controllers"
	"github.com/AkaOko/react-trpo/pkg/ctx"
	"github.com/AkaOko/react-trpo/pkg/middleware"
	"github.com/AkaOko/react-trpo/pkg/rbac"
	"github.com/AkaOko/react-trpo/pkg/router"
)

// Deps are the handlers the API is built from. Nil handlers are only
// acceptable when the routes are listed, never served.
type Deps struct {
	Verifier middleware.TokenVerifier

	Health           *controllers.HealthController
	Auth             *controllers.AuthController
	Profile          *controllers.ProfileController
	Users            *controllers.UserController
	Products         *controllers.ProductController
	Materials        *controllers.MaterialController
	MaterialRequests *controllers.MaterialRequestController
	Orders           *controllers.OrderController
	Uploads          *controllers.UploadController

	LiveFeed http.Handler
	GraphQL  http.Handler
}

func RegisterAPI(r *router.Router, d Deps) {
	authed := middleware.Authenticate(d.Verifier)
	w := ctx.Wrap

	r.Get("/", "home", w(d.Health.Root))
	r.Get("/health", "health", w(d.Health.Health))

	r.Post("/register", "auth.register", w(d.Auth.Register), middleware.OptionalAuthenticate(d.Verifier))
	r.Post("/login", "auth.login", w(d.Auth.Login))

	r.Get("/products", "products.index", w(d.Products.Index))
	r.Get("/products/{id}", "products.show", w(d.Products.Show))
	r.Get("/product-types", "products.types", w(d.Products.Types))
	r.Handle(http.MethodGet, "/graphql", "graphql.query", orNotFound(d.GraphQL))
	r.Handle(http.MethodPost, "/graphql", "graphql.execute", orNotFound(d.GraphQL))

	api := r.Group("", authed)

	api.Get("/profile", "profile.show", w(d.Profile.Show))
	api.Put("/profile", "profile.update", w(d.Profile.Update))
	api.Post("/profile/password", "profile.password", w(d.Profile.ChangePassword))
	api.Get("/profile/orders", "profile.orders", w(d.Orders.ProfileIndex))

	api.Get("/users", "users.index", w(d.Users.Index), rbac.Require(rbac.UsersView))
	api.Put("/users/{id}", "users.update", w(d.Users.Update), rbac.Require(rbac.UsersManage))

	api.Post("/products", "products.store", w(d.Products.Store), rbac.Require(rbac.ProductsManage))
	api.Put("/products/{id}", "products.update", w(d.Products.Update), rbac.Require(rbac.ProductsManage))
	api.Delete("/products/{id}", "products.destroy", w(d.Products.Destroy), rbac.Require(rbac.ProductsManage))

	api.Get("/materials", "materials.index", w(d.Materials.Index))
	api.Post("/materials", "materials.store", w(d.Materials.Store), rbac.Require(rbac.MaterialsManage))
	api.Put("/materials/{id}", "materials.update", w(d.Materials.Update), rbac.Require(rbac.MaterialsManage))

	api.Post("/orders", "orders.store", w(d.Orders.Store))
	api.Get("/orders", "orders.index", w(d.Orders.Index))
	api.Get("/orders/worker", "orders.worker.index", w(d.Orders.WorkerIndex), rbac.Require(rbac.OrdersWork))
	api.Put("/orders/worker/{id}", "orders.worker.update", w(d.Orders.WorkerUpdate), rbac.Require(rbac.OrdersWork))
	api.Get("/orders/{id}", "orders.show", w(d.Orders.Show))
	api.Put("/orders/{id}", "orders.update", w(d.Orders.Update), rbac.Require(rbac.OrdersManage))

	api.Get("/material-requests", "material_requests.index", w(d.MaterialRequests.Index), rbac.Require(rbac.MaterialRequestsView))
	api.Post("/material-requests", "material_requests.store", w(d.MaterialRequests.Store), rbac.Require(rbac.MaterialRequestsCreate))
	// the requester may edit their own request; the service checks ownership
	api.Put("/material-requests/{id}", "material_requests.update", w(d.MaterialRequests.Update))

	api.Post("/upload", "uploads.store", w(d.Uploads.Store), rbac.Require(rbac.UploadsCreate))

	api.Handle(http.MethodGet, "/ws/orders", "orders.live", orNotFound(d.LiveFeed), rbac.Require(rbac.LiveFeed))
}

func orNotFound(h http.Handler) http.Handler {
	if h == nil {
		return http.NotFoundHandler()
	}
	return h
}
