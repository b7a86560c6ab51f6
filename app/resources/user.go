// Package resources shapes models into the JSON the API returns.
package resources

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/services"
)

// UserSummary is the public profile attached to orders and requests.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

func Summary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

type User struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Role              models.Role     `json:"role"`
	TotalOrdersAmount decimal.Decimal `json:"totalOrdersAmount"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func UserOf(u models.User) User {
	return User{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		Role:              u.Role,
		TotalOrdersAmount: u.TotalOrdersAmount,
		CreatedAt:         u.CreatedAt,
	}
}

// UserStats adds the figures recomputed from the user's orders.
type UserStats struct {
	User
	OrdersCount    int64           `json:"ordersCount"`
	DeliveredTotal decimal.Decimal `json:"deliveredTotal"`
}

func UserStatsOf(u services.UserWithStats) UserStats {
	return UserStats{User: UserOf(u.User), OrdersCount: u.OrdersCount, DeliveredTotal: u.DeliveredTotal}
}
