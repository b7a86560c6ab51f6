package controllers

import (
	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/resources"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	Phone    string `json:"phone" validate:"nullable,max=50"`
	Role     string `json:"role" validate:"nullable,is=role"`
}

// Register creates an account. An admin token may pick any role.
func (a *AuthController) Register(c *ctx.Context) {
	var req registerRequest
	if !c.BindJSON(&req) {
		return
	}

	var caller *services.Actor
	if id, ok := c.UserID(); ok {
		caller = &services.Actor{ID: id, Role: models.Role(c.Role())}
	}

	user, err := a.service.Register(c.Context(), caller, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.UserOf(*user))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (a *AuthController) Login(c *ctx.Context) {
	var req loginRequest
	if !c.BindJSON(&req) {
		return
	}

	token, user, err := a.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]any{
		"token": token,
		"user":  resources.UserOf(*user),
	})
}
