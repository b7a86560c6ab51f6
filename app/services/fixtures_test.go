package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/services"
)

// fixtures creates rows straight through gorm so tests do not depend on the
// service under test for their setup.
type fixtures struct {
	t  testing.TB
	db *gorm.DB
}

func (f fixtures) user(role models.Role) *models.User {
	f.t.Helper()
	id := uuid.New()
	u := models.User{
		Base:     models.Base{ID: id},
		Name:     string(role) + " " + id.String()[:4],
		Email:    id.String()[:8] + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return &u
}

func (f fixtures) material(name string) *models.Material {
	f.t.Helper()
	m := models.Material{Name: name, Quantity: 10}
	require.NoError(f.t, f.db.Create(&m).Error)
	return &m
}

func (f fixtures) product(name string, typ models.ProductType, price string, material *models.Material) *models.Product {
	f.t.Helper()
	p := models.Product{Name: name, Type: typ, Price: decimal.RequireFromString(price), MaterialID: material.ID}
	require.NoError(f.t, f.db.Create(&p).Error)
	return &p
}

func (f fixtures) total(userID uuid.UUID) decimal.Decimal {
	f.t.Helper()
	var u models.User
	require.NoError(f.t, f.db.First(&u, "id = ?", userID).Error)
	return u.TotalOrdersAmount
}

func actorOf(u *models.User) services.Actor {
	return services.Actor{ID: u.ID, Role: u.Role}
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var bg = context.Background()
