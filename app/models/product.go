package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductRing        ProductType = "RING"
	ProductEarrings    ProductType = "EARRINGS"
	ProductBracelet    ProductType = "BRACELET"
	ProductPendant     ProductType = "PENDANT"
	ProductChain       ProductType = "CHAIN"
	ProductBrooch      ProductType = "BROOCH"
	ProductNecklace    ProductType = "NECKLACE"
	ProductCustomOrder ProductType = "Custom_Order"
)

// CustomProductName names the placeholder product of custom orders.
const CustomProductName = "custom"

var productTypes = []ProductType{
	ProductRing, ProductEarrings, ProductBracelet, ProductPendant,
	ProductChain, ProductBrooch, ProductNecklace, ProductCustomOrder,
}

func (t ProductType) Valid() bool {
	for _, known := range productTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseProductType matches case-insensitively and returns the canonical spelling.
func ParseProductType(s string) (ProductType, error) {
	s = strings.TrimSpace(s)
	for _, known := range productTypes {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown product type %q", s)
}

type Product struct {
	Base
	Name       string          `gorm:"size:255;not null;index" json:"name"`
	Type       ProductType     `gorm:"size:50;not null;index" json:"type"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Image      string          `gorm:"size:1024" json:"image,omitempty"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index" json:"materialId"`
	Material   *Material       `gorm:"constraint:OnDelete:RESTRICT" json:"material,omitempty"`
}
