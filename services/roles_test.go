package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gastro-api/models"
)

func TestResolveAnonymous(t *testing.T) {
	f := newFixture(t)
	rc, err := NewRoleResolver(f.db).Resolve(f.ctx, Principal{})
	require.NoError(t, err)
	assert.Equal(t, RoleAnonymous, rc.Role())
	_, ok := rc.StaffRestaurant()
	assert.False(t, ok)
}

func TestResolveUserWithoutLinks(t *testing.T) {
	f := newFixture(t)
	rc := f.resolve(f.user(false))
	assert.Equal(t, RoleAnonymous, rc.Role())
	assert.Nil(t, rc.CustomerID)
}

func TestResolveOwnerAndCustomer(t *testing.T) {
	f := newFixture(t)
	owner := f.user(false)
	r := models.Restaurant{Title: "R1", Status: models.RestaurantOpen}
	require.NoError(t, f.db.Create(&r).Error)
	require.NoError(t, f.db.Create(&models.Owner{UserID: owner.ID, RestaurantID: r.ID}).Error)
	c := models.Customer{UserID: owner.ID}
	require.NoError(t, f.db.Create(&c).Error)

	rc := f.resolve(owner)
	assert.Equal(t, RoleOwner, rc.Role())
	assert.True(t, rc.IsStaffOf(r.ID))
	assert.True(t, rc.IsCustomer(c.ID))
	id, ok := rc.StaffRestaurant()
	assert.True(t, ok)
	assert.Equal(t, r.ID, id)
}

func TestResolveWaiter(t *testing.T) {
	f := newFixture(t)
	r, _ := f.restaurant("R1", 0, 0)
	rc := f.waiter(r.ID)
	assert.Equal(t, RoleWaiter, rc.Role())
	assert.True(t, rc.IsStaffOf(r.ID))
	assert.False(t, rc.IsStaffOf(r.ID+1))
}

func TestResolveStaffAdmin(t *testing.T) {
	f := newFixture(t)
	_, custRC := f.customer()
	assert.Equal(t, RoleCustomer, custRC.Role())

	rc := f.admin()
	assert.Equal(t, RoleStaffAdmin, rc.Role())
	assert.True(t, rc.StaffAdmin)
}

func TestOwnerLinkWinsOverWaiterLink(t *testing.T) {
	a := uint(1)
	b := uint(2)
	rc := RoleContext{OwnerOf: &a, WaiterOf: &b}
	id, ok := rc.StaffRestaurant()
	assert.True(t, ok)
	assert.Equal(t, a, id)
	assert.Equal(t, RoleOwner, rc.Role())
}

func TestResolveReportsStorageFailure(t *testing.T) {
	f := newFixture(t)
	u := f.user(false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRoleResolver(f.db).Resolve(ctx, Principal{UserID: u.ID})
	assert.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
}
