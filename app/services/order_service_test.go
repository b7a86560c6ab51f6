package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/event"
	"github.com/AkaOko/react-trpo/pkg/testkit"
)

type OrderServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	fx      fixtures
	events  *event.Dispatcher
	service *services.OrderService

	client *models.User
	admin  *models.User
	worker *models.User
	ring   *models.Product
	chain  *models.Product
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.db = testkit.DB(s.T())
	s.fx = fixtures{t: s.T(), db: s.db}
	s.events = event.New()
	s.service = services.NewOrderService(s.db, s.events)
	s.Require().NoError(s.service.Init(bg))

	s.client = s.fx.user(models.RoleClient)
	s.admin = s.fx.user(models.RoleAdmin)
	s.worker = s.fx.user(models.RoleWorker)
	gold := s.fx.material("gold")
	s.ring = s.fx.product("Solitaire", models.ProductRing, "1000", gold)
	s.chain = s.fx.product("Rope", models.ProductChain, "250.50", gold)
}

func (s *OrderServiceSuite) place(u *models.User, ids []uuid.UUID, qty []any) *models.Order {
	o, err := s.service.CreateOrder(bg, actorOf(u), services.CreateOrderInput{ProductIDs: ids, Quantities: qty})
	s.Require().NoError(err)
	return o
}

func (s *OrderServiceSuite) itemCount(orderID uuid.UUID) int64 {
	var n int64
	s.Require().NoError(s.db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

func (s *OrderServiceSuite) TestCreate_TotalIsSumOfLines() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID, s.chain.ID}, []any{float64(2), "3"})

	s.True(dec("2751.50").Equal(o.Total), o.Total.String())
	s.Equal(models.StatusNew, o.Status)
	s.Len(o.Items, 2)
	s.Equal(string(models.ProductChain), o.WorkType)
	s.Equal(s.client.ID, o.UserID)
}

func (s *OrderServiceSuite) TestCreate_MissingOrBadQuantitiesDefaultToOne() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID, s.chain.ID}, []any{"lots"})

	s.True(dec("1250.50").Equal(o.Total), o.Total.String())
	for _, it := range o.Items {
		s.Equal(1, it.Quantity)
	}
}

func (s *OrderServiceSuite) TestCreate_CustomOrder() {
	o, err := s.service.CreateOrder(bg, actorOf(s.client), services.CreateOrderInput{Comment: "engraved band", Address: "Main st 1"})
	s.Require().NoError(err)

	s.True(o.Total.IsZero())
	s.Require().Len(o.Items, 1)
	s.Equal(s.service.CustomProductID(), o.Items[0].ProductID)
	s.Equal(1, o.Items[0].Quantity)
	s.Equal(models.DefaultWorkType, o.WorkType)
	s.Equal("engraved band", o.Comment)
}

func (s *OrderServiceSuite) TestInit_IsIdempotent() {
	again := services.NewOrderService(s.db, nil)
	s.Require().NoError(again.Init(bg))
	s.Equal(s.service.CustomProductID(), again.CustomProductID())

	var n int64
	s.Require().NoError(s.db.Model(&models.Product{}).Where("name = ?", models.CustomProductName).Count(&n).Error)
	s.EqualValues(1, n)
}

func (s *OrderServiceSuite) TestCreate_UnknownProductWritesNothing() {
	_, err := s.service.CreateOrder(bg, actorOf(s.client), services.CreateOrderInput{
		ProductIDs: []uuid.UUID{s.ring.ID, uuid.New()},
	})
	s.ErrorIs(err, services.ErrProductNotFound)

	var orders, items int64
	s.db.Model(&models.Order{}).Count(&orders)
	s.db.Model(&models.OrderItem{}).Count(&items)
	s.Zero(orders)
	s.Zero(items)
}

func (s *OrderServiceSuite) TestCreate_ForSomeoneElseIsForbidden() {
	_, err := s.service.CreateOrder(bg, actorOf(s.client), services.CreateOrderInput{UserID: &s.admin.ID})
	s.ErrorIs(err, services.ErrForbidden)
}

func (s *OrderServiceSuite) TestDeliveryScenario() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID}, []any{2})
	s.True(dec("2000").Equal(o.Total))
	s.Len(o.Items, 1)

	delivered := "DELIVERED"
	_, err := s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{Status: &delivered})
	s.Require().NoError(err)
	s.True(dec("2000").Equal(s.fx.total(s.client.ID)))

	_, err = s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{Status: &delivered})
	s.Require().NoError(err)
	s.True(dec("2000").Equal(s.fx.total(s.client.ID)), "second delivery must not count")

	_, err = s.service.UpdateOrder(bg, actorOf(s.worker), o.ID, services.UpdateOrderInput{Status: &delivered})
	s.ErrorIs(err, services.ErrForbidden)
	_, err = s.service.UpdateOrder(bg, actorOf(s.client), o.ID, services.UpdateOrderInput{Status: &delivered})
	s.ErrorIs(err, services.ErrForbidden)
	s.True(dec("2000").Equal(s.fx.total(s.client.ID)))
}

func (s *OrderServiceSuite) TestLocalizedDeliveredLabelCountsOnce() {
	o := s.place(s.client, []uuid.UUID{s.chain.ID}, []any{2})

	for _, label := range []string{"Доставлен", "delivered"} {
		got, err := s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{Status: ptr(label)})
		s.Require().NoError(err)
		s.Equal(models.StatusDelivered, got.Status)
	}
	s.True(dec("501").Equal(s.fx.total(s.client.ID)))
}

func (s *OrderServiceSuite) TestNonDeliveredTransitionsLeaveCounterAlone() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID}, []any{1})

	for _, st := range []string{"IN_PROGRESS", "SHIPPED", "CANCELLED"} {
		_, err := s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{Status: ptr(st)})
		s.Require().NoError(err, st)
		s.True(s.fx.total(s.client.ID).IsZero(), st)
	}
}

func (s *OrderServiceSuite) TestWorkerPathDeliversOnce() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID}, []any{1})

	got, err := s.service.UpdateOrderStatus(bg, actorOf(s.worker), o.ID, "SHIPPED")
	s.Require().NoError(err)
	s.Equal(models.StatusShipped, got.Status)
	s.True(s.fx.total(s.client.ID).IsZero())

	_, err = s.service.UpdateOrderStatus(bg, actorOf(s.worker), o.ID, "DELIVERED")
	s.Require().NoError(err)
	_, err = s.service.UpdateOrderStatus(bg, actorOf(s.worker), o.ID, "DELIVERED")
	s.Require().NoError(err)
	s.True(dec("1000").Equal(s.fx.total(s.client.ID)))

	_, err = s.service.UpdateOrderStatus(bg, actorOf(s.admin), o.ID, "DELIVERED")
	s.ErrorIs(err, services.ErrForbidden)
}

// A delivery that lands between reading the order and writing it must not
// be booked a second time. The callback plays the other writer: it moves the
// order to DELIVERED right before this update's write.
func (s *OrderServiceSuite) TestConcurrentDeliveryIsRejectedWithoutSideEffects() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID}, []any{1})
	_, err := s.service.UpdateOrderStatus(bg, actorOf(s.worker), o.ID, "SHIPPED")
	s.Require().NoError(err)

	fired := false
	s.Require().NoError(s.db.Callback().Update().Before("gorm:update").Register("test:other_writer", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "orders" {
			return
		}
		fired = true
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE orders SET status = ? WHERE id = ?", models.StatusDelivered, o.ID)
	}))

	_, err = s.service.UpdateOrderStatus(bg, actorOf(s.worker), o.ID, "DELIVERED")
	s.ErrorIs(err, services.ErrOrderConflict)
	s.True(fired)
	s.True(s.fx.total(s.client.ID).IsZero())

	got, err := s.service.GetOrder(bg, actorOf(s.admin), o.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusShipped, got.Status)
}

func (s *OrderServiceSuite) TestBackwardTransitionIsRejectedWithoutSideEffects() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID}, []any{1})
	_, err := s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{Status: ptr("DELIVERED")})
	s.Require().NoError(err)

	_, err = s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{
		Status:  ptr("NEW"),
		Comment: ptr("rewritten"),
	})
	s.ErrorIs(err, services.ErrInvalidTransition)

	got, err := s.service.GetOrder(bg, actorOf(s.admin), o.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusDelivered, got.Status)
	s.Empty(got.Comment)
	s.True(dec("1000").Equal(s.fx.total(s.client.ID)))
}

func (s *OrderServiceSuite) TestUnknownStatusIsInvalidInput() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID}, []any{1})
	_, err := s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{Status: ptr("lost")})
	s.ErrorIs(err, services.ErrInvalidInput)
	_, err = s.service.UpdateOrderStatus(bg, actorOf(s.worker), o.ID, "lost")
	s.ErrorIs(err, services.ErrInvalidInput)
}

func (s *OrderServiceSuite) TestDeliveryUsesTotalSetInSameUpdate() {
	o, err := s.service.CreateOrder(bg, actorOf(s.client), services.CreateOrderInput{Comment: "custom"})
	s.Require().NoError(err)

	_, err = s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{
		Status: ptr("DELIVERED"),
		Total:  ptr(dec("4200")),
	})
	s.Require().NoError(err)
	s.True(dec("4200").Equal(s.fx.total(s.client.ID)))
}

func (s *OrderServiceSuite) TestReplaceLineItems() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID, s.chain.ID}, []any{1, 1})

	got, err := s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{
		LineItems: &[]services.LineItemInput{{ProductID: s.chain.ID, Quantity: 4}},
	})
	s.Require().NoError(err)

	s.Require().Len(got.Items, 1)
	s.Equal(s.chain.ID, got.Items[0].ProductID)
	s.Equal(4, got.Items[0].Quantity)
	s.EqualValues(1, s.itemCount(o.ID))
	s.True(o.Total.Equal(got.Total), "replacing items keeps the stored total")
}

func (s *OrderServiceSuite) TestReplaceWithEmptySetIsRejected() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID, s.chain.ID}, []any{1, 1})

	_, err := s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{LineItems: &[]services.LineItemInput{}})
	s.ErrorIs(err, services.ErrEmptyLineItems)
	s.EqualValues(2, s.itemCount(o.ID))
}

func (s *OrderServiceSuite) TestReplaceWithUnknownProductRollsBack() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID}, []any{1})

	_, err := s.service.UpdateOrder(bg, actorOf(s.admin), o.ID, services.UpdateOrderInput{
		Status:    ptr("DELIVERED"),
		LineItems: &[]services.LineItemInput{{ProductID: uuid.New()}},
	})
	s.ErrorIs(err, services.ErrProductNotFound)

	got, err := s.service.GetOrder(bg, actorOf(s.admin), o.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusNew, got.Status)
	s.Len(got.Items, 1)
	s.True(s.fx.total(s.client.ID).IsZero())
}

func (s *OrderServiceSuite) TestUpdateMissingOrder() {
	_, err := s.service.UpdateOrder(bg, actorOf(s.admin), uuid.New(), services.UpdateOrderInput{Comment: ptr("x")})
	s.ErrorIs(err, services.ErrOrderNotFound)
}

func (s *OrderServiceSuite) TestListing() {
	other := s.fx.user(models.RoleClient)
	first := s.place(s.client, []uuid.UUID{s.ring.ID}, nil)
	time.Sleep(5 * time.Millisecond)
	theirs := s.place(other, []uuid.UUID{s.chain.ID}, nil)
	time.Sleep(5 * time.Millisecond)
	second := s.place(s.client, []uuid.UUID{s.chain.ID}, nil)

	all, err := s.service.ListWorkerOrders(bg, actorOf(s.worker))
	s.Require().NoError(err)
	s.Len(all, 3)

	mine, err := s.service.ListProfileOrders(bg, actorOf(s.client))
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal(second.ID, mine[0].ID)
	s.Equal(first.ID, mine[1].ID)

	adminView, err := s.service.ListOrders(bg, actorOf(s.admin))
	s.Require().NoError(err)
	s.Len(adminView, 3)

	clientView, err := s.service.ListOrders(bg, actorOf(other))
	s.Require().NoError(err)
	s.Require().Len(clientView, 1)
	s.Equal(theirs.ID, clientView[0].ID)

	_, err = s.service.ListWorkerOrders(bg, actorOf(s.client))
	s.ErrorIs(err, services.ErrForbidden)
}

func (s *OrderServiceSuite) TestGetOrder_OwnerOrStaff() {
	o := s.place(s.client, []uuid.UUID{s.ring.ID}, nil)
	stranger := s.fx.user(models.RoleClient)

	_, err := s.service.GetOrder(bg, actorOf(s.client), o.ID)
	s.NoError(err)
	_, err = s.service.GetOrder(bg, actorOf(s.worker), o.ID)
	s.NoError(err)
	_, err = s.service.GetOrder(bg, actorOf(stranger), o.ID)
	s.ErrorIs(err, services.ErrForbidden)
}

func (s *OrderServiceSuite) TestEventsArePublished() {
	var (
		mu  sync.Mutex
		got []services.OrderEvent
	)
	record := func(_ context.Context, payload any) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, payload.(services.OrderEvent))
	}
	s.events.Listen(services.EventOrderCreated, record)
	s.events.Listen(services.EventOrderStatusChanged, record)

	o := s.place(s.client, []uuid.UUID{s.ring.ID}, nil)
	_, err := s.service.UpdateOrderStatus(bg, actorOf(s.worker), o.ID, "IN_PROGRESS")
	s.Require().NoError(err)
	_, err = s.service.UpdateOrderStatus(bg, actorOf(s.worker), o.ID, "IN_PROGRESS")
	s.Require().NoError(err)
	s.events.Wait()

	mu.Lock()
	defer mu.Unlock()
	s.Require().Len(got, 2, "re-saving the same status publishes nothing")
	types := []string{got[0].Type, got[1].Type}
	s.ElementsMatch([]string{services.EventOrderCreated, services.EventOrderStatusChanged}, types)
}

func TestQuantity(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{float64(3), 3},
		{2.9, 2},
		{7, 7},
		{int64(4), 4},
		{"5", 5},
		{" 6 ", 6},
		{"abc", 1},
		{"2abc", 1},
		{0, 1},
		{-3, 1},
		{nil, 1},
		{true, 1},
		{1e12, 1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, services.Quantity(c.in), "%v", c.in)
	}
}

func TestCreateOrder_RequiresInit(t *testing.T) {
	db := testkit.DB(t)
	u := fixtures{t: t, db: db}.user(models.RoleClient)
	_, err := services.NewOrderService(db, nil).CreateOrder(bg, actorOf(u), services.CreateOrderInput{})
	require.Error(t, err)
}
