package controllers

import (
	"github.com/google/uuid"

	"github.com/AkaOko/react-trpo/app/resources"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
	"github.com/AkaOko/react-trpo/pkg/resource"
)

type MaterialRequestController struct {
	service *services.MaterialRequestService
}

func NewMaterialRequestController(service *services.MaterialRequestService) *MaterialRequestController {
	return &MaterialRequestController{service: service}
}

func (m *MaterialRequestController) Index(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	reqs, err := m.service.List(c.Context(), me)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Many(reqs, resources.MaterialRequestOf))
}

type materialRequestRequest struct {
	MaterialID uuid.UUID `json:"materialId" validate:"required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
}

func (m *MaterialRequestController) Store(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req materialRequestRequest
	if !c.BindJSON(&req) {
		return
	}
	created, err := m.service.Create(c.Context(), me, services.MaterialRequestInput{MaterialID: req.MaterialID, Quantity: req.Quantity})
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.MaterialRequestOf(*created))
}

type materialRequestPatch struct {
	Status   *string `json:"status" validate:"nullable,is=request_status"`
	Quantity *int    `json:"quantity" validate:"nullable,gt=0"`
}

func (m *MaterialRequestController) Update(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var req materialRequestPatch
	if !c.BindJSON(&req) {
		return
	}
	updated, err := m.service.Update(c.Context(), me, id, services.MaterialRequestPatch{Status: req.Status, Quantity: req.Quantity})
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.MaterialRequestOf(*updated))
}
