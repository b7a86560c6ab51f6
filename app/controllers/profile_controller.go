package controllers

import (
	"errors"

	"github.com/AkaOko/react-trpo/app/resources"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
)

type ProfileController struct {
	service *services.ProfileService
}

func NewProfileController(service *services.ProfileService) *ProfileController {
	return &ProfileController{service: service}
}

func (p *ProfileController) Show(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	user, err := p.service.Get(c.Context(), me.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.UserOf(*user))
}

type profileRequest struct {
	Name  *string `json:"name" validate:"nullable,max=255"`
	Email *string `json:"email" validate:"nullable,email,max=255"`
	Phone *string `json:"phone" validate:"nullable,max=50"`
}

func (p *ProfileController) Update(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req profileRequest
	if !c.BindJSON(&req) {
		return
	}
	user, err := p.service.Update(c.Context(), me.ID, services.ProfileInput{Name: req.Name, Email: req.Email, Phone: req.Phone})
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.UserOf(*user))
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=72"`
}

func (p *ProfileController) ChangePassword(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req passwordRequest
	if !c.BindJSON(&req) {
		return
	}
	err := p.service.ChangePassword(c.Context(), me.ID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.ValidationError(map[string]string{"currentPassword": "The current password is incorrect."})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.Message("Password updated")
}
