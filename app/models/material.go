package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnspecifiedMaterialName names the placeholder material of custom orders.
const UnspecifiedMaterialName = "unspecified"

type Material struct {
	Base
	Name         string           `gorm:"uniqueIndex;size:255;not null" json:"name"`
	PricePerGram *decimal.Decimal `gorm:"type:decimal(12,2)" json:"pricePerGram,omitempty"`
	Quantity     int              `gorm:"not null;default:0" json:"quantity"`
	SupplierID   *uuid.UUID       `gorm:"type:uuid;index" json:"supplierId,omitempty"`
	Supplier     *User            `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
}
