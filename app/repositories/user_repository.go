package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return user, err
}

// EmailTaken reports whether another user already uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, except).
		Count(&n).Error
	return n > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateProfile writes the editable columns. The order counter is never
// touched here.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Model(user).
		Select("Name", "Email", "Phone", "Role", "Password", "UpdatedAt").
		Updates(user).Error
}

// All returns every user, oldest first.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error
	return users, err
}

// AddToTotal increments the delivered-orders counter in SQL so concurrent
// deliveries for the same user never lose an update.
func (r *UserRepository) AddToTotal(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("total_orders_amount", gorm.Expr("total_orders_amount + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetTotal overwrites the counter while it still holds expected and reports
// whether it did. Only reconciliation uses it.
func (r *UserRepository) SetTotal(ctx context.Context, id uuid.UUID, expected, amount decimal.Decimal) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND total_orders_amount = ?", id, expected).
		UpdateColumn("total_orders_amount", amount)
	return res.RowsAffected > 0, res.Error
}

// DeliveredTotal sums the totals of the user's delivered orders.
func (r *UserRepository) DeliveredTotal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("user_id = ? AND status = ?", id, models.StatusDelivered).
		Scan(&row).Error
	return row.Total, err
}

// OrderStats is the per-user aggregate recomputed from the orders table.
type OrderStats struct {
	UserID         uuid.UUID
	OrdersCount    int64
	DeliveredTotal decimal.Decimal
}

// OrderStats aggregates order count and delivered total for every user that
// has orders.
func (r *UserRepository) OrderStats(ctx context.Context) (map[uuid.UUID]OrderStats, error) {
	var rows []OrderStats
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("user_id, COUNT(*) AS orders_count, COALESCE(SUM(CASE WHEN status = ? THEN total ELSE 0 END), 0) AS delivered_total", models.StatusDelivered).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]OrderStats, len(rows))
	for _, row := range rows {
		out[row.UserID] = row
	}
	return out, nil
}
