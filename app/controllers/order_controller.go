package controllers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/resources"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/ctx"
	"github.com/AkaOko/react-trpo/pkg/resource"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Quantities stay untyped: numbers and numeric strings are both accepted.
// The storefront sends the comment as "message".
type createOrderRequest struct {
	UserID     *uuid.UUID  `json:"userId"`
	ProductIDs []uuid.UUID `json:"productIds"`
	Quantities []any       `json:"quantities"`
	Comment    string      `json:"comment" validate:"max=2000"`
	Message    string      `json:"message" validate:"max=2000"`
	Address    string      `json:"address" validate:"max=1000"`
	WorkType   string      `json:"workType" validate:"max=100"`
}

func (o *OrderController) Store(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	var req createOrderRequest
	if !c.BindJSON(&req) {
		return
	}
	comment := req.Comment
	if comment == "" {
		comment = req.Message
	}

	order, err := o.orders.CreateOrder(c.Context(), me, services.CreateOrderInput{
		UserID:     req.UserID,
		ProductIDs: req.ProductIDs,
		Quantities: req.Quantities,
		Comment:    comment,
		Address:    req.Address,
		WorkType:   req.WorkType,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.OrderOf(*order))
}

func (o *OrderController) Index(c *ctx.Context) {
	o.list(c, o.orders.ListOrders)
}

func (o *OrderController) WorkerIndex(c *ctx.Context) {
	o.list(c, o.orders.ListWorkerOrders)
}

func (o *OrderController) ProfileIndex(c *ctx.Context) {
	o.list(c, o.orders.ListProfileOrders)
}

func (o *OrderController) list(c *ctx.Context, fn func(context.Context, services.Actor) ([]models.Order, error)) {
	me, ok := actor(c)
	if !ok {
		return
	}
	orders, err := fn(c.Context(), me)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Many(orders, resources.OrderOf))
}

func (o *OrderController) Show(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	order, err := o.orders.GetOrder(c.Context(), me, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.OrderOf(*order))
}

type lineItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  any       `json:"quantity"`
}

// A present "products" array, even an empty one, replaces the line items.
type updateOrderRequest struct {
	Status   *string            `json:"status" validate:"nullable,is=order_status"`
	Total    *decimal.Decimal   `json:"total" validate:"nullable,gte=0"`
	Comment  *string            `json:"comment" validate:"nullable,max=2000"`
	Address  *string            `json:"address" validate:"nullable,max=1000"`
	WorkType *string            `json:"workType" validate:"nullable,max=100"`
	Products *[]lineItemRequest `json:"products"`
}

func (o *OrderController) Update(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var req updateOrderRequest
	if !c.BindJSON(&req) {
		return
	}

	in := services.UpdateOrderInput{
		Status:   req.Status,
		Total:    req.Total,
		Comment:  req.Comment,
		Address:  req.Address,
		WorkType: req.WorkType,
	}
	if req.Products != nil {
		lines := make([]services.LineItemInput, len(*req.Products))
		for i, p := range *req.Products {
			lines[i] = services.LineItemInput{ProductID: p.ProductID, Quantity: p.Quantity}
		}
		in.LineItems = &lines
	}

	order, err := o.orders.UpdateOrder(c.Context(), me, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.OrderOf(*order))
}

type statusRequest struct {
	Status string `json:"status" validate:"required,is=order_status"`
}

func (o *OrderController) WorkerUpdate(c *ctx.Context) {
	me, ok := actor(c)
	if !ok {
		return
	}
	id, ok := c.UUIDParam("id")
	if !ok {
		return
	}
	var req statusRequest
	if !c.BindJSON(&req) {
		return
	}
	order, err := o.orders.UpdateOrderStatus(c.Context(), me, id, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.OrderOf(*order))
}
