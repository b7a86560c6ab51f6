package controllers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

func (p *ProductController) Index(c *ctx.Context) {
	products, err := p.catalog.ListProducts(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(products)
}

func (p *ProductController) Show(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	product, err := p.catalog.GetProduct(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

func (p *ProductController) Types(c *ctx.Context) {
	types, err := p.catalog.ProductTypes(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(types)
}

// The material may be given by id or, as the storefront admin does, by name.
type productRequest struct {
	Name       string          `json:"name" validate:"required,max=255"`
	Type       string          `json:"type" validate:"required,is=product_type"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
	Image      string          `json:"image" validate:"nullable,max=1024"`
	MaterialID *uuid.UUID      `json:"materialId"`
	Material   string          `json:"material" validate:"nullable,max=255"`
}

func (p *ProductController) Store(c *ctx.Context) {
	var req productRequest
	if !c.BindJSON(&req) {
		return
	}
	if req.MaterialID == nil && req.Material == "" {
		c.ValidationError(map[string]string{"materialId": "The materialId or material field is required."})
		return
	}
	product, err := p.catalog.CreateProduct(c.Context(), services.ProductInput{
		Name:         req.Name,
		Type:         req.Type,
		Price:        req.Price,
		Image:        req.Image,
		MaterialID:   req.MaterialID,
		MaterialName: req.Material,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(product)
}

type productPatchRequest struct {
	Name       *string          `json:"name" validate:"nullable,max=255"`
	Type       *string          `json:"type" validate:"nullable,is=product_type"`
	Price      *decimal.Decimal `json:"price" validate:"nullable,gte=0"`
	Image      *string          `json:"image" validate:"nullable,max=1024"`
	MaterialID *uuid.UUID       `json:"materialId"`
	Material   *string          `json:"material" validate:"nullable,max=255"`
}

func (p *ProductController) Update(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var req productPatchRequest
	if !c.BindJSON(&req) {
		return
	}
	product, err := p.catalog.UpdateProduct(c.Context(), id, services.ProductPatch{
		Name:         req.Name,
		Type:         req.Type,
		Price:        req.Price,
		Image:        req.Image,
		MaterialID:   req.MaterialID,
		MaterialName: req.Material,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(product)
}

func (p *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	if err := p.catalog.DeleteProduct(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Message("Product deleted")
}
