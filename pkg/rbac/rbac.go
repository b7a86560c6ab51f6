// Package rbac maps permissions to the roles that hold them and provides the
// route middleware that enforces them. Routes name a permission, never a
// role literal.
package rbac

import (
	"net/http"
	"slices"

	"github.com/AkaOko/react-trpo/pkg/middleware"
	"github.com/AkaOko/react-trpo/pkg/response"
)

// Permission names one guarded capability.
type Permission string

const (
	OrdersManage           Permission = "orders.manage"
	OrdersWork             Permission = "orders.work"
	OrdersRead             Permission = "orders.read"
	UsersView              Permission = "users.view"
	UsersManage            Permission = "users.manage"
	ProductsManage         Permission = "products.manage"
	MaterialsManage        Permission = "materials.manage"
	MaterialRequestsView   Permission = "material_requests.view"
	MaterialRequestsCreate Permission = "material_requests.create"
	MaterialRequestsDecide Permission = "material_requests.decide"
	UploadsCreate          Permission = "uploads.create"
	LiveFeed               Permission = "orders.live_feed"
	RolesAssign            Permission = "roles.assign"
)

// Role names as stored on users and carried in the token's role claim.
const (
	worker   = "WORKER"
	admin    = "ADMIN"
	supplier = "SUPPLIER"
	director = "DIRECTOR"
)

var table = map[Permission][]string{
	OrdersManage:           {admin},
	OrdersWork:             {worker},
	OrdersRead:             {admin, worker},
	UsersView:              {admin, director},
	UsersManage:            {admin},
	ProductsManage:         {admin},
	MaterialsManage:        {admin, supplier},
	MaterialRequestsView:   {admin, supplier, worker},
	MaterialRequestsCreate: {admin, worker},
	MaterialRequestsDecide: {admin, supplier},
	UploadsCreate:          {admin},
	LiveFeed:               {admin, worker},
	RolesAssign:            {admin},
}

// Can reports whether role holds perm. Unknown permissions are denied.
func Can(role string, perm Permission) bool {
	return slices.Contains(table[perm], role)
}

// Roles returns the roles holding perm.
func Roles(perm Permission) []string {
	return slices.Clone(table[perm])
}

// Permissions lists every permission in the table.
func Permissions() []Permission {
	out := make([]Permission, 0, len(table))
	for p := range table {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Require allows the request through only when the caller's role holds
// perm. It must run after middleware.Authenticate.
func Require(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !Can(role, perm) {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HasRole allows only the listed roles through.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !slices.Contains(roles, role) {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
