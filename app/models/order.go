package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultWorkType = string(ProductCustomOrder)

type Order struct {
	Base
	UserID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	User     *User           `gorm:"constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Status   OrderStatus     `gorm:"size:20;not null;default:NEW;index" json:"status"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Comment  string          `gorm:"type:text" json:"comment"`
	Address  string          `gorm:"type:text" json:"address"`
	WorkType string          `gorm:"size:100" json:"workType"`
	Items    []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"products"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	Base
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	Product   *Product  `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
}
