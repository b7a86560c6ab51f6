package models

import "github.com/shopspring/decimal"

// User is an account of any role. TotalOrdersAmount is the running sum of
// the totals of the user's delivered orders.
type User struct {
	Base
	Name              string          `gorm:"size:255;not null" json:"name"`
	Email             string          `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password          string          `gorm:"size:255;not null" json:"-"`
	Phone             string          `gorm:"size:50" json:"phone"`
	Role              Role            `gorm:"size:20;not null;default:CLIENT;index" json:"role"`
	TotalOrdersAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"totalOrdersAmount"`
}
