// Package controllers adapts HTTP requests to service calls.
package controllers

import (
	"errors"
	"net/http"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
	"github.com/AkaOko/react-trpo/pkg/logger"
)

// actor returns the authenticated caller or writes 401.
func actor(c *ctx.Context) (services.Actor, bool) {
	id, ok := c.UserID()
	if !ok {
		c.Unauthorized()
		return services.Actor{}, false
	}
	return services.Actor{ID: id, Role: models.Role(c.Role())}, true
}

// fail maps a service error onto a response. Unknown errors are logged and
// reported as a bare 500.
func fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden()
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMaterialNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrMaterialExists),
		errors.Is(err, services.ErrProductInUse),
		errors.Is(err, services.ErrOrderConflict):
		c.Error(http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrEmptyLineItems),
		errors.Is(err, services.ErrInvalidInput):
		c.Error(http.StatusUnprocessableEntity, err.Error())
	default:
		logger.WithCtx(c.Context()).Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
