package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AkaOko/react-trpo/app/models"
)

// ErrStaleOrder is returned by SaveHeader when the stored status no longer
// matches the one the caller read.
var ErrStaleOrder = errors.New("order was modified concurrently")

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Items.Product").
		Preload("User")
}

// FindByID loads an order with its line items, their products and the owner.
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (models.Order, error) {
	var order models.Order
	err := r.withRelations(ctx).Where("id = ?", id).First(&order).Error
	return order, err
}

// FindForUpdate loads the bare order header, taking a row lock when lock is
// set. Call it inside a transaction.
func (r *OrderRepository) FindForUpdate(ctx context.Context, id uuid.UUID, lock bool) (models.Order, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var order models.Order
	err := q.Where("id = ?", id).First(&order).Error
	return order, err
}

// List returns orders newest first. A nil owner lists every order.
func (r *OrderRepository) List(ctx context.Context, owner *uuid.UUID) ([]models.Order, error) {
	q := r.withRelations(ctx).Order("created_at desc")
	if owner != nil {
		q = q.Where("user_id = ?", *owner)
	}
	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}

// Create inserts the header and its Items.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// SaveHeader writes the mutable header columns, zero values included. The
// write only applies while the stored status is still from; otherwise
// nothing is written and ErrStaleOrder is returned.
func (r *OrderRepository) SaveHeader(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(order).
		Where("status = ?", from).
		Select("Status", "Total", "Comment", "Address", "WorkType", "UpdatedAt").
		Updates(order)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleOrder
	}
	return nil
}

// ReplaceItems deletes every line item of the order and inserts items.
func (r *OrderRepository) ReplaceItems(ctx context.Context, orderID uuid.UUID, items []models.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	return db.Create(&items).Error
}
