package services

import "errors"

var (
	ErrForbidden          = errors.New("forbidden")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrMaterialNotFound   = errors.New("material not found")
	ErrRequestNotFound    = errors.New("material request not found")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrEmptyLineItems     = errors.New("an order needs at least one line item")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMaterialExists     = errors.New("material already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProductInUse       = errors.New("product is referenced by orders")
	ErrInvalidInput       = errors.New("invalid input")
	ErrOrderConflict      = errors.New("order was changed by another request, retry")
)
