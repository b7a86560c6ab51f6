package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/repositories"
	"github.com/AkaOko/react-trpo/pkg/logger"
	"github.com/AkaOko/react-trpo/pkg/rbac"
	"github.com/AkaOko/react-trpo/pkg/workerpool"
)

// UserWithStats is a user next to the figures recomputed from its orders.
type UserWithStats struct {
	models.User
	OrdersCount    int64
	DeliveredTotal decimal.Decimal
}

// UserUpdateInput is an admin edit. Nil fields are unchanged.
type UserUpdateInput struct {
	Name  *string
	Email *string
	Phone *string
	Role  *string
}

type UserService struct {
	db    *gorm.DB
	users *repositories.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, users: repositories.NewUserRepository(db)}
}

// List returns every user with order statistics.
func (s *UserService) List(ctx context.Context, actor Actor) ([]UserWithStats, error) {
	if !actor.Can(rbac.UsersView) {
		return nil, ErrForbidden
	}
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.users.OrderStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("order stats: %w", err)
	}

	out := make([]UserWithStats, len(users))
	for i, u := range users {
		st := stats[u.ID]
		out[i] = UserWithStats{User: u, OrdersCount: st.OrdersCount, DeliveredTotal: st.DeliveredTotal}
	}
	return out, nil
}

func (s *UserService) Update(ctx context.Context, actor Actor, id uuid.UUID, in UserUpdateInput) (*models.User, error) {
	if !actor.Can(rbac.UsersManage) {
		return nil, ErrForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	if in.Role != nil {
		if !actor.Can(rbac.RolesAssign) {
			return nil, ErrForbidden
		}
		role, err := models.ParseRole(*in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		user.Role = role
	}
	if err := applyContact(ctx, s.users, &user, in.Name, in.Email, in.Phone); err != nil {
		return nil, err
	}
	if err := s.users.UpdateProfile(ctx, &user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

// Drift is one user whose stored counter disagrees with its orders.
type Drift struct {
	UserID   uuid.UUID
	Email    string
	Stored   decimal.Decimal
	Computed decimal.Decimal
	Fixed    bool
}

// ReconcileReport summarises one reconciliation run.
type ReconcileReport struct {
	Checked int
	Drifts  []Drift
}

// fixTotal re-reads the stored counter and the delivered sum in one
// transaction and overwrites the counter only if nothing moved it since the
// read. A delivery booked in between leaves the drift for the next run.
func (s *UserService) fixTotal(ctx context.Context, d *Drift) (bool, error) {
	var fixed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repositories.NewUserRepository(tx)
		u, err := users.FindByID(ctx, d.UserID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		d.Stored = u.TotalOrdersAmount
		if d.Computed, err = users.DeliveredTotal(ctx, d.UserID); err != nil {
			return err
		}
		if d.Stored.Equal(d.Computed) {
			return nil
		}
		fixed, err = users.SetTotal(ctx, d.UserID, d.Stored, d.Computed)
		return err
	})
	return fixed, err
}

// Reconcile compares every user's total_orders_amount with the sum of its
// delivered orders on a pool of workers. With fix set, drifted counters are
// overwritten with the computed sum.
func (s *UserService) Reconcile(ctx context.Context, workers int, fix bool) (ReconcileReport, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}
	stats, err := s.users.OrderStats(ctx)
	if err != nil {
		return ReconcileReport{}, fmt.Errorf("order stats: %w", err)
	}

	pool := workerpool.New(workers)
	defer pool.Shutdown()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		report   = ReconcileReport{Checked: len(users)}
		firstErr error
	)
	for _, u := range users {
		computed := stats[u.ID].DeliveredTotal
		wg.Add(1)
		err := pool.SubmitWait(ctx, func() {
			defer wg.Done()
			if u.TotalOrdersAmount.Equal(computed) {
				return
			}
			d := Drift{UserID: u.ID, Email: u.Email, Stored: u.TotalOrdersAmount, Computed: computed}
			if fix {
				fixed, err := s.fixTotal(ctx, &d)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("fix %s: %w", u.Email, err)
					}
					mu.Unlock()
					return
				}
				if d.Stored.Equal(d.Computed) {
					return
				}
				d.Fixed = fixed
			}
			logger.WithCtx(ctx).Warn("order total drift", "user_id", u.ID, "stored", d.Stored.String(), "computed", d.Computed.String(), "fixed", d.Fixed)
			mu.Lock()
			report.Drifts = append(report.Drifts, d)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return report, err
		}
	}
	wg.Wait()
	return report, firstErr
}
