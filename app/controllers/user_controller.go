package controllers

import (
	"github.com/AkaOko/react-trpo/app/resources"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
	"github.com/AkaOko/react-trpo/pkg/resource"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func (u *UserController) Index(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	users, err := u.service.List(c.Context(), me)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Many(users, resources.UserStatsOf))
}

type userUpdateRequest struct {
	Name  *string `json:"name" validate:"nullable,max=255"`
	Email *string `json:"email" validate:"nullable,email,max=255"`
	Phone *string `json:"phone" validate:"nullable,max=50"`
	Role  *string `json:"role" validate:"nullable,is=role"`
}

func (u *UserController) Update(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var req userUpdateRequest
	if !c.BindJSON(&req) {
		return
	}
	user, err := u.service.Update(c.Context(), me, id, services.UserUpdateInput{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Role: req.Role,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.UserOf(*user))
}
