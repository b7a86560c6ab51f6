package resources

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AkaOko/react-trpo/app/models"
)

type LineItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   *models.Product `json:"product,omitempty"`
}

type Order struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"userId"`
	Status    models.OrderStatus `json:"status"`
	Total     decimal.Decimal    `json:"total"`
	Comment   string             `json:"comment"`
	Address   string             `json:"address"`
	WorkType  string             `json:"workType"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	User      *UserSummary       `json:"user,omitempty"`
	Products  []LineItem         `json:"products"`
}

func OrderOf(o models.Order) Order {
	items := make([]LineItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = LineItem{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity, Product: it.Product}
	}
	return Order{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    o.Status,
		Total:     o.Total,
		Comment:   o.Comment,
		Address:   o.Address,
		WorkType:  o.WorkType,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
		User:      Summary(o.User),
		Products:  items,
	}
}
