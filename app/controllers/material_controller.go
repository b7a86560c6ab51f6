package controllers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
)

type MaterialController struct {
	service *services.MaterialService
}

func NewMaterialController(service *services.MaterialService) *MaterialController {
	return &MaterialController{service: service}
}

func (m *MaterialController) Index(c *ctx.Context) {
	materials, err := m.service.List(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(materials)
}

type materialRequest struct {
	Name         string           `json:"name" validate:"required,max=255"`
	PricePerGram *decimal.Decimal `json:"pricePerGram" validate:"nullable,gte=0"`
	Quantity     int              `json:"quantity" validate:"gte=0"`
	SupplierID   *uuid.UUID       `json:"supplierId"`
}

func (m *MaterialController) Store(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req materialRequest
	if !c.BindJSON(&req) {
		return
	}
	material, err := m.service.Create(c.Context(), me, services.MaterialInput{
		Name:         req.Name,
		PricePerGram: req.PricePerGram,
		Quantity:     req.Quantity,
		SupplierID:   req.SupplierID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(material)
}

type materialPatchRequest struct {
	Name         *string          `json:"name" validate:"nullable,max=255"`
	PricePerGram *decimal.Decimal `json:"pricePerGram" validate:"nullable,gte=0"`
	Quantity     *int             `json:"quantity" validate:"nullable,gte=0"`
	SupplierID   *uuid.UUID       `json:"supplierId"`
}

func (m *MaterialController) Update(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var req materialPatchRequest
	if !c.BindJSON(&req) {
		return
	}
	material, err := m.service.Update(c.Context(), me, id, services.MaterialPatch{
		Name:         req.Name,
		PricePerGram: req.PricePerGram,
		Quantity:     req.Quantity,
		SupplierID:   req.SupplierID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(material)
}
