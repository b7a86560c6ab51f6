// Package ctx provides a request context for handlers: one *Context argument
// instead of (http.ResponseWriter, *http.Request), with helpers for params,
// the authenticated caller, binding and the JSON envelope.
//
//	func (oc *OrderController) Show(c *ctx.Context) {
//	    id, ok := c.UUIDParam("id")
//	    if !ok {
//	        return
//	    }
//	    ...
//	    c.Success(view)
//	}
//
//	r.Get("/orders/{id}", "orders.show", ctx.Wrap(oc.Show))
package ctx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AkaOko/react-trpo/pkg/bind"
	"github.com/AkaOko/react-trpo/pkg/middleware"
	"github.com/AkaOko/react-trpo/pkg/response"
	"github.com/AkaOko/react-trpo/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// UUIDParam parses a path parameter as a UUID. On failure it writes a 400
// and returns false.
func (c *Context) UUIDParam(key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(key))
	if err != nil {
		c.Error(http.StatusBadRequest, fmt.Sprintf("invalid %s", key))
		return uuid.Nil, false
	}
	return id, true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// QueryInt returns a positive integer query value, or def.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

func (c *Context) Method() string { return c.R.Method }

func (c *Context) Path() string { return c.R.URL.Path }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID returns the authenticated caller's id.
func (c *Context) UserID() (uuid.UUID, bool) {
	return middleware.UserIDFromCtx(c.R)
}

// Role returns the authenticated caller's role.
func (c *Context) Role() string {
	role, _ := middleware.RoleFromCtx(c.R)
	return role
}

// Set stores a value in the per-request store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// BindJSON decodes and validates the body into dest. On failure it writes
// 400 (malformed) or 422 (invalid) and returns false.
//
//	var in CreateOrderInput
//	if !c.BindJSON(&in) {
//	    return
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// BindOptionalJSON is BindJSON that accepts an empty body.
func (c *Context) BindOptionalJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if errors.Is(err, bind.ErrEmptyBody) {
		return true
	}
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

// Status writes only the status code.
func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

// JSON writes v as-is with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.Write(c.W, code, v)
}

func (c *Context) Success(data any) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Data: data})
}

func (c *Context) Created(data any) {
	c.JSON(http.StatusCreated, response.Envelope{Status: http.StatusCreated, Data: data})
}

func (c *Context) Message(message string) {
	c.JSON(http.StatusOK, response.Envelope{Status: http.StatusOK, Message: message})
}

func (c *Context) Error(code int, message string) {
	c.JSON(code, response.Envelope{Status: code, Message: message})
}

func (c *Context) ValidationError(errs map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, response.Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

func (c *Context) Unauthorized(message ...string) {
	c.Error(http.StatusUnauthorized, first(message, "Unauthorized"))
}

func (c *Context) Forbidden(message ...string) {
	c.Error(http.StatusForbidden, first(message, "Forbidden"))
}

func (c *Context) NotFound(message ...string) {
	c.Error(http.StatusNotFound, first(message, "Not found"))
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

func first(s []string, def string) string {
	if len(s) > 0 {
		return s[0]
	}
	return def
}
