package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/repositories"
	"github.com/AkaOko/react-trpo/pkg/database"
	"github.com/AkaOko/react-trpo/pkg/event"
	"github.com/AkaOko/react-trpo/pkg/logger"
	"github.com/AkaOko/react-trpo/pkg/metrics"
	"github.com/AkaOko/react-trpo/pkg/rbac"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is published after an order change commits.
type OrderEvent struct {
	Type           string             `json:"type"`
	OrderID        uuid.UUID          `json:"orderId"`
	UserID         uuid.UUID          `json:"userId"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	Total          decimal.Decimal    `json:"total"`
}

// CreateOrderInput carries a new order. A nil UserID means the caller.
// Quantities are matched to ProductIDs by index.
type CreateOrderInput struct {
	UserID     *uuid.UUID
	ProductIDs []uuid.UUID
	Quantities []any
	Comment    string
	Address    string
	WorkType   string
}

// LineItemInput is one replacement line item.
type LineItemInput struct {
	ProductID uuid.UUID
	Quantity  any
}

// UpdateOrderInput is a partial update. Nil fields are left unchanged; a
// non-nil LineItems replaces every existing line item.
type UpdateOrderInput struct {
	Status    *string
	Total     *decimal.Decimal
	Comment   *string
	Address   *string
	WorkType  *string
	LineItems *[]LineItemInput
}

// OrderService owns the order aggregate and the delivered-orders counter
// on its owner.
type OrderService struct {
	db            *gorm.DB
	events        *event.Dispatcher
	customProduct models.Product
}

// NewOrderService returns a service that publishes on events, which may be
// nil. Call Init before creating orders.
func NewOrderService(db *gorm.DB, events *event.Dispatcher) *OrderService {
	return &OrderService{db: db, events: events}
}

// Init resolves the placeholder material and product behind custom orders,
// creating them on first boot.
func (s *OrderService) Init(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		material, err := repositories.NewMaterialRepository(tx).FirstOrCreateByName(ctx, models.UnspecifiedMaterialName)
		if err != nil {
			return fmt.Errorf("resolve placeholder material: %w", err)
		}

		var product models.Product
		err = tx.Where(models.Product{Name: models.CustomProductName, Type: models.ProductCustomOrder}).
			Attrs(models.Product{Price: decimal.Zero, MaterialID: material.ID}).
			FirstOrCreate(&product).Error
		if err != nil {
			return fmt.Errorf("resolve custom product: %w", err)
		}

		s.customProduct = product
		return nil
	})
}

// CustomProductID is the placeholder product of custom orders.
func (s *OrderService) CustomProductID() uuid.UUID {
	return s.customProduct.ID
}

// CreateOrder places an order for the caller. With no products it is a
// custom order on the placeholder product, priced later by an admin.
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, in CreateOrderInput) (*models.Order, error) {
	owner := actor.ID
	if in.UserID != nil && *in.UserID != uuid.Nil {
		if *in.UserID != actor.ID {
			return nil, ErrForbidden
		}
		owner = *in.UserID
	}
	if s.customProduct.ID == uuid.Nil {
		return nil, errors.New("order service: Init was not called")
	}

	order := models.Order{
		UserID:   owner,
		Status:   models.StatusNew,
		Total:    decimal.Zero,
		Comment:  in.Comment,
		Address:  in.Address,
		WorkType: in.WorkType,
	}
	kind := "catalog"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repositories.NewUserRepository(tx).FindByID(ctx, owner); err != nil {
			return notFound(err, ErrUserNotFound)
		}

		if len(in.ProductIDs) == 0 {
			kind = "custom"
			order.Items = []models.OrderItem{{ProductID: s.customProduct.ID, Quantity: 1}}
			if order.WorkType == "" {
				order.WorkType = models.DefaultWorkType
			}
		} else {
			lines := make([]LineItemInput, len(in.ProductIDs))
			for i, id := range in.ProductIDs {
				lines[i] = LineItemInput{ProductID: id}
				if i < len(in.Quantities) {
					lines[i].Quantity = in.Quantities[i]
				}
			}
			items, total, lastType, err := s.buildItems(ctx, tx, lines)
			if err != nil {
				return err
			}
			order.Items = items
			order.Total = total
			order.WorkType = lastType
		}

		return repositories.NewOrderRepository(tx).Create(ctx, &order)
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(kind).Inc()
	logger.WithCtx(ctx).Info("order created", "order_id", order.ID, "user_id", owner, "kind", kind, "total", order.Total.String())
	s.publish(ctx, OrderEvent{Type: EventOrderCreated, OrderID: order.ID, UserID: owner, Status: order.Status, Total: order.Total})

	return s.reload(ctx, order.ID)
}

// UpdateOrder applies an admin's partial update in one transaction.
func (s *OrderService) UpdateOrder(ctx context.Context, actor Actor, id uuid.UUID, in UpdateOrderInput) (*models.Order, error) {
	if !actor.Can(rbac.OrdersManage) {
		return nil, ErrForbidden
	}

	var next *models.OrderStatus
	if in.Status != nil {
		st, err := models.ParseOrderStatus(*in.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		next = &st
	}
	if in.Total != nil && in.Total.IsNegative() {
		return nil, fmt.Errorf("%w: total must not be negative", ErrInvalidInput)
	}
	if in.LineItems != nil && len(*in.LineItems) == 0 {
		return nil, ErrEmptyLineItems
	}

	return s.mutate(ctx, id, func(tx *gorm.DB, o *models.Order) error {
		if in.Total != nil {
			o.Total = *in.Total
		}
		if in.Comment != nil {
			o.Comment = *in.Comment
		}
		if in.Address != nil {
			o.Address = *in.Address
		}
		if in.WorkType != nil {
			o.WorkType = *in.WorkType
		}
		if next != nil {
			if err := transition(o, *next); err != nil {
				return err
			}
		}
		if in.LineItems != nil {
			items, _, _, err := s.buildItems(ctx, tx, *in.LineItems)
			if err != nil {
				return err
			}
			if err := repositories.NewOrderRepository(tx).ReplaceItems(ctx, o.ID, items); err != nil {
				return fmt.Errorf("replace line items: %w", err)
			}
		}
		return nil
	})
}

// UpdateOrderStatus is the worker path: only the status changes.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actor Actor, id uuid.UUID, status string) (*models.Order, error) {
	if !actor.Can(rbac.OrdersWork) {
		return nil, ErrForbidden
	}
	next, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.mutate(ctx, id, func(_ *gorm.DB, o *models.Order) error {
		return transition(o, next)
	})
}

// ListOrders returns every order for admins and the caller's own otherwise.
func (s *OrderService) ListOrders(ctx context.Context, actor Actor) ([]models.Order, error) {
	repo := repositories.NewOrderRepository(s.db)
	if actor.Can(rbac.OrdersManage) {
		return repo.List(ctx, nil)
	}
	return repo.List(ctx, &actor.ID)
}

// ListWorkerOrders returns every order to workers.
func (s *OrderService) ListWorkerOrders(ctx context.Context, actor Actor) ([]models.Order, error) {
	if !actor.Can(rbac.OrdersWork) {
		return nil, ErrForbidden
	}
	return repositories.NewOrderRepository(s.db).List(ctx, nil)
}

// ListProfileOrders returns the caller's own orders regardless of role.
func (s *OrderService) ListProfileOrders(ctx context.Context, actor Actor) ([]models.Order, error) {
	return repositories.NewOrderRepository(s.db).List(ctx, &actor.ID)
}

// GetOrder returns one order to its owner or to staff.
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*models.Order, error) {
	order, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.ID && !actor.Can(rbac.OrdersRead) {
		return nil, ErrForbidden
	}
	return order, nil
}

// mutate runs apply on the order inside one transaction, saves the header
// and books the delivery on the owner's counter when the status enters
// DELIVERED. Both update paths go through here. The header write only lands
// while the stored status is the one read, so a concurrent transition fails
// with ErrOrderConflict instead of booking twice.
func (s *OrderService) mutate(ctx context.Context, id uuid.UUID, apply func(tx *gorm.DB, o *models.Order) error) (*models.Order, error) {
	var before, after models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		o, err := orders.FindForUpdate(ctx, id, database.SupportsRowLocks(tx))
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		before = o

		if err := apply(tx, &o); err != nil {
			return err
		}
		if err := orders.SaveHeader(ctx, &o, before.Status); err != nil {
			if errors.Is(err, repositories.ErrStaleOrder) {
				return ErrOrderConflict
			}
			return fmt.Errorf("save order: %w", err)
		}

		if before.Status.Delivers(o.Status) {
			if err := repositories.NewUserRepository(tx).AddToTotal(ctx, o.UserID, o.Total); err != nil {
				return fmt.Errorf("book delivered order: %w", notFound(err, ErrUserNotFound))
			}
		}
		after = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	if before.Status != after.Status {
		metrics.OrderTransitions.WithLabelValues(string(before.Status), string(after.Status)).Inc()
		if before.Status.Delivers(after.Status) {
			metrics.DeliveredRevenue.Add(after.Total.InexactFloat64())
		}
		logger.WithCtx(ctx).Info("order status changed",
			"order_id", after.ID, "from", before.Status, "to", after.Status, "total", after.Total.String())
		s.publish(ctx, OrderEvent{
			Type:           EventOrderStatusChanged,
			OrderID:        after.ID,
			UserID:         after.UserID,
			Status:         after.Status,
			PreviousStatus: before.Status,
			Total:          after.Total,
		})
	}

	return s.reload(ctx, id)
}

func transition(o *models.Order, next models.OrderStatus) error {
	if !o.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	return nil
}

// buildItems resolves every product in one query and prices the lines. It
// returns the items, their total and the type of the last product.
func (s *OrderService) buildItems(ctx context.Context, tx *gorm.DB, lines []LineItemInput) ([]models.OrderItem, decimal.Decimal, string, error) {
	ids := lo.Uniq(lo.Map(lines, func(l LineItemInput, _ int) uuid.UUID { return l.ProductID }))
	products, err := repositories.NewProductRepository(tx).FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, "", fmt.Errorf("load products: %w", err)
	}

	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	var lastType string
	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			return nil, decimal.Zero, "", fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		qty := Quantity(line.Quantity)
		items = append(items, models.OrderItem{ProductID: p.ID, Quantity: qty})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
		lastType = string(p.Type)
	}
	return items, total, lastType, nil
}

func (s *OrderService) reload(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := repositories.NewOrderRepository(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return &order, nil
}

func (s *OrderService) publish(ctx context.Context, e OrderEvent) {
	if s.events != nil {
		s.events.FireAsync(ctx, e.Type, e)
	}
}

// Quantity reads a requested quantity. Numbers and numeric strings are
// accepted and truncated; anything else, and anything below 1, is 1. A
// string must be numeric as a whole: "2abc" is 1, not 2.
func Quantity(v any) int {
	var n float64
	switch q := v.(type) {
	case float64:
		n = q
	case int:
		n = float64(q)
	case int64:
		n = float64(q)
	case json.Number:
		f, err := q.Float64()
		if err != nil {
			return 1
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 1
		}
		n = f
	default:
		return 1
	}
	if math.IsNaN(n) || n < 1 || n > math.MaxInt32 {
		return 1
	}
	return int(n)
}

// notFound maps gorm's missing-row error to target and passes anything
// else through.
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
