package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gastro-api/models"
)

type orderSetup struct {
	*fixture
	r1     models.Restaurant
	owner  RoleContext
	tbl    models.RestaurantTable
	pizza  models.Product
	salad  models.Product
	cust   models.Customer
	custRC RoleContext
	carts  *CartService
	orders *OrderService
}

func newOrderSetup(t *testing.T) *orderSetup {
	f := newFixture(t)
	r, owner := f.restaurant("R1", 0, 0)
	coll := f.collection(r.ID, "Mains")
	c, rc := f.customer()
	return &orderSetup{
		fixture: f,
		r1:      r,
		owner:   owner,
		tbl:     f.table(r.ID, 1, 1),
		pizza:   f.product(r.ID, coll.ID, "Pizza", "5.00"),
		salad:   f.product(r.ID, coll.ID, "Salad", "7.25"),
		cust:    c,
		custRC:  rc,
		carts:   NewCartService(f.db),
		orders:  NewOrderService(f.db),
	}
}

func (s *orderSetup) cartWith(items map[uint]int) uuid.UUID {
	s.t.Helper()
	cart, err := s.carts.Create(s.ctx)
	require.NoError(s.t, err)
	for productID, qty := range items {
		_, err := s.carts.AddItem(s.ctx, cart.ID, productID, qty)
		require.NoError(s.t, err)
	}
	return cart.ID
}

func TestPlaceOrder(t *testing.T) {
	s := newOrderSetup(t)
	cartID := s.cartWith(map[uint]int{s.pizza.ID: 2, s.salad.ID: 1})

	order, err := s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: cartID, RestaurantID: s.r1.ID, TableID: s.tbl.ID})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, s.cust.ID, order.CustomerID)
	assert.Len(t, order.Items, 2)

	var items []models.OrderItem
	require.NoError(t, s.db.Where("order_id = ?", order.ID).Order("product_id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("5.00")))

	_, err = s.carts.Get(s.ctx, cartID)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, int64(0), s.count(&models.CartItem{}))
}

func TestOrderItemPriceIsFrozen(t *testing.T) {
	s := newOrderSetup(t)
	cartID := s.cartWith(map[uint]int{s.pizza.ID: 1})
	order, err := s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: cartID, RestaurantID: s.r1.ID, TableID: s.tbl.ID})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("8.00")
	_, err = NewMenuService(s.db).UpdateProduct(s.ctx, s.owner, s.pizza.ID, ProductInput{UnitPrice: &newPrice})
	require.NoError(t, err)

	got, err := s.orders.Get(s.ctx, s.custRC, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("5.00")))
}

func TestPlaceOrderPreconditions(t *testing.T) {
	s := newOrderSetup(t)
	in := func(cart uuid.UUID) PlaceOrderInput {
		return PlaceOrderInput{CartID: cart, RestaurantID: s.r1.ID, TableID: s.tbl.ID}
	}

	_, err := s.orders.PlaceOrder(s.ctx, s.custRC, in(uuid.New()))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "cart not found", err.Error())

	empty := s.cartWith(nil)
	_, err = s.orders.PlaceOrder(s.ctx, s.custRC, in(empty))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "cart empty", err.Error())

	full := s.cartWith(map[uint]int{s.pizza.ID: 1})
	_, err = s.orders.PlaceOrder(s.ctx, s.owner, in(full))
	assert.Equal(t, KindPermissionDenied, KindOf(err))

	_, err = s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: full, RestaurantID: 9999, TableID: s.tbl.ID})
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: full, RestaurantID: s.r1.ID, TableID: 9999})
	assert.Equal(t, KindNotFound, KindOf(err))

	assert.Equal(t, int64(0), s.count(&models.Order{}))
	_, err = s.carts.Get(s.ctx, full)
	assert.NoError(t, err)
}

// A failure after the order row is written rolls everything back.
func TestPlaceOrderIsAtomic(t *testing.T) {
	s := newOrderSetup(t)
	other, _ := s.restaurant("R2", 0, 0)
	foreign := s.product(other.ID, s.collection(other.ID, "Other").ID, "Foreign", "1.00")
	cartID := s.cartWith(map[uint]int{s.pizza.ID: 2, foreign.ID: 1})

	_, err := s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: cartID, RestaurantID: s.r1.ID, TableID: s.tbl.ID})
	assert.Equal(t, KindValidation, KindOf(err))

	assert.Equal(t, int64(0), s.count(&models.Order{}))
	assert.Equal(t, int64(0), s.count(&models.OrderItem{}))
	cart, err := s.carts.Get(s.ctx, cartID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestPlaceOrderTableFromAnotherRestaurant(t *testing.T) {
	s := newOrderSetup(t)
	other, _ := s.restaurant("R2", 0, 0)
	foreignTable := s.table(other.ID, 1, 1)
	cartID := s.cartWith(map[uint]int{s.pizza.ID: 1})

	_, err := s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: cartID, RestaurantID: s.r1.ID, TableID: foreignTable.ID})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestOrdersCannotBeDeleted(t *testing.T) {
	s := newOrderSetup(t)
	cartID := s.cartWith(map[uint]int{s.pizza.ID: 1})
	order, err := s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: cartID, RestaurantID: s.r1.ID, TableID: s.tbl.ID})
	require.NoError(t, err)

	for _, rc := range []RoleContext{s.custRC, s.owner, s.admin(), {}} {
		assert.Equal(t, KindConflict, KindOf(s.orders.Delete(s.ctx, rc, order.ID)))
	}
	assert.Equal(t, int64(1), s.count(&models.Order{}))
}

func TestPaymentStatusTransitions(t *testing.T) {
	s := newOrderSetup(t)
	place := func() uint {
		cartID := s.cartWith(map[uint]int{s.pizza.ID: 1})
		order, err := s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: cartID, RestaurantID: s.r1.ID, TableID: s.tbl.ID})
		require.NoError(t, err)
		return order.ID
	}

	id := place()
	_, err := s.orders.UpdatePaymentStatus(s.ctx, s.custRC, id, models.PaymentComplete)
	assert.Equal(t, KindPermissionDenied, KindOf(err))

	_, err = s.orders.UpdatePaymentStatus(s.ctx, s.owner, id, "refunded")
	assert.Equal(t, KindValidation, KindOf(err))

	waiter := s.waiter(s.r1.ID)
	order, err := s.orders.UpdatePaymentStatus(s.ctx, waiter, id, models.PaymentFailed)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, order.PaymentStatus)

	order, err = s.orders.UpdatePaymentStatus(s.ctx, s.owner, id, models.PaymentComplete)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentComplete, order.PaymentStatus)

	// Same status is a no-op; leaving complete is not allowed.
	_, err = s.orders.UpdatePaymentStatus(s.ctx, s.owner, id, models.PaymentComplete)
	assert.NoError(t, err)
	_, err = s.orders.UpdatePaymentStatus(s.ctx, s.owner, id, models.PaymentPending)
	assert.Equal(t, KindConflict, KindOf(err))

	_, otherOwner := s.restaurant("R2", 0, 0)
	_, err = s.orders.UpdatePaymentStatus(s.ctx, otherOwner, place(), models.PaymentComplete)
	assert.Equal(t, KindPermissionDenied, KindOf(err))
}

func TestOrderVisibility(t *testing.T) {
	s := newOrderSetup(t)
	cartID := s.cartWith(map[uint]int{s.pizza.ID: 1})
	order, err := s.orders.PlaceOrder(s.ctx, s.custRC, PlaceOrderInput{CartID: cartID, RestaurantID: s.r1.ID, TableID: s.tbl.ID})
	require.NoError(t, err)
	_, stranger := s.customer()
	_, otherOwner := s.restaurant("R2", 0, 0)

	list, err := s.orders.List(s.ctx, s.owner, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = s.orders.List(s.ctx, stranger, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.orders.List(s.ctx, otherOwner, &s.r1.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.orders.Get(s.ctx, otherOwner, order.ID)
	assert.Equal(t, KindPermissionDenied, KindOf(err))
	_, err = s.orders.Get(s.ctx, s.owner, 9999)
	assert.Equal(t, KindNotFound, KindOf(err))
}
