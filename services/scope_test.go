package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gastro-api/models"
)

func TestScopeRules(t *testing.T) {
	a, b, cust := uint(1), uint(2), uint(7)

	tests := []struct {
		name     string
		rc       RoleContext
		kind     ResourceKind
		explicit *uint
		want     Predicate
	}{
		{"anonymous without filter sees nothing", RoleContext{}, KindProducts, nil, Predicate{}},
		{"anonymous with filter on public kind", RoleContext{}, KindProducts, &b, Predicate{RestaurantID: &b}},
		{"anonymous with filter on private kind", RoleContext{}, KindOrders, &b, Predicate{}},
		{"owner defaults to own restaurant", RoleContext{OwnerOf: &a}, KindTables, nil, Predicate{RestaurantID: &a}},
		{"owner filter on private kind is ignored", RoleContext{OwnerOf: &a}, KindOrders, &b, Predicate{RestaurantID: &a}},
		{"waiter browsing another menu", RoleContext{WaiterOf: &a}, KindCollections, &b, Predicate{RestaurantID: &b}},
		{"customer sees own orders", RoleContext{CustomerID: &cust}, KindOrders, nil, Predicate{CustomerID: &cust}},
		{"customer has no tables by default", RoleContext{CustomerID: &cust}, KindTables, nil, Predicate{}},
		{"staff customer sees both", RoleContext{WaiterOf: &a, CustomerID: &cust}, KindReservations, nil, Predicate{RestaurantID: &a, CustomerID: &cust}},
		{"admin sees everything", RoleContext{StaffAdmin: true}, KindOrders, nil, Predicate{All: true}},
		{"admin with filter", RoleContext{StaffAdmin: true}, KindOrders, &b, Predicate{RestaurantID: &b}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scope(tt.rc, tt.kind, tt.explicit))
		})
	}
}

func TestPredicateAllows(t *testing.T) {
	a, cust, other := uint(1), uint(7), uint(8)
	p := Predicate{RestaurantID: &a, CustomerID: &cust}
	assert.True(t, p.Allows(a, &other))
	assert.True(t, p.Allows(2, &cust))
	assert.False(t, p.Allows(2, &other))
	assert.False(t, p.Allows(2, nil))
	assert.False(t, Predicate{}.Allows(a, &cust))
	assert.True(t, Predicate{All: true}.Allows(99, nil))
}

func TestAuthorizeMutation(t *testing.T) {
	a, cust := uint(1), uint(7)
	assert.NoError(t, AuthorizeMutation(RoleContext{OwnerOf: &a}, a))
	assert.NoError(t, AuthorizeMutation(RoleContext{StaffAdmin: true}, 5))
	assert.Equal(t, KindPermissionDenied, KindOf(AuthorizeMutation(RoleContext{OwnerOf: &a}, 2)))
	assert.Equal(t, KindPermissionDenied, KindOf(AuthorizeMutation(RoleContext{CustomerID: &cust}, a)))
	assert.Equal(t, KindPermissionDenied, KindOf(AuthorizeMutation(RoleContext{}, a)))
}

func TestOwnerListsOnlyOwnTables(t *testing.T) {
	f := newFixture(t)
	ra, ownerA := f.restaurant("A", 0, 0)
	rb, _ := f.restaurant("B", 0, 0)
	f.table(ra.ID, 1, 1)
	f.table(ra.ID, 1, 2)
	f.table(rb.ID, 1, 1)

	tables, err := NewTableService(f.db).List(f.ctx, ownerA, nil)
	require.NoError(t, err)
	assert.Len(t, tables, 2)
	for _, tbl := range tables {
		assert.Equal(t, ra.ID, tbl.RestaurantID)
	}
}

func TestAnonymousBrowsesProductsWithFilter(t *testing.T) {
	f := newFixture(t)
	ra, _ := f.restaurant("A", 0, 0)
	rb, _ := f.restaurant("B", 0, 0)
	f.product(ra.ID, f.collection(ra.ID, "Mains").ID, "Pasta", "9.50")
	cb := f.collection(rb.ID, "Drinks")
	f.product(rb.ID, cb.ID, "Lemonade", "3.00")
	f.product(rb.ID, cb.ID, "Espresso", "2.00")

	menu := NewMenuService(f.db)
	products, err := menu.ListProducts(f.ctx, RoleContext{}, &rb.ID, nil)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, rb.ID, p.RestaurantID)
	}

	products, err = menu.ListProducts(f.ctx, RoleContext{}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCustomerSeesOnlyOwnReservations(t *testing.T) {
	f := newFixture(t)
	r, _ := f.restaurant("A", 0, 0)
	tbl := f.table(r.ID, 1, 1)
	c1, rc1 := f.customer()
	c2, _ := f.customer()
	require.NoError(t, f.db.Create(&models.TableReservation{CustomerID: c1.ID, TableID: tbl.ID, RestaurantID: r.ID, DateTimeFrom: at(10, 0), DateTimeTo: at(11, 0)}).Error)
	require.NoError(t, f.db.Create(&models.TableReservation{CustomerID: c2.ID, TableID: tbl.ID, RestaurantID: r.ID, DateTimeFrom: at(12, 0), DateTimeTo: at(13, 0)}).Error)

	svc := NewReservationService(f.db, PolicyOverlap)
	list, err := svc.List(f.ctx, rc1, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c1.ID, list[0].CustomerID)

	// An explicit filter does not open up a private kind.
	list, err = svc.List(f.ctx, rc1, &r.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
