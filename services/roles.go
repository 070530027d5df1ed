package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/gastro-api/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Principal is the authenticated caller as seen by the core. The zero value is
// an anonymous caller.
type Principal struct {
	UserID  uint
	IsStaff bool
}

func (p Principal) Authenticated() bool {
	return p.UserID != 0
}

// Role is the primary role of a resolved caller.
type Role string

const (
	RoleAnonymous  Role = "anonymous"
	RoleCustomer   Role = "customer"
	RoleOwner      Role = "owner"
	RoleWaiter     Role = "waiter"
	RoleStaffAdmin Role = "staff_admin"
)

// RoleContext is everything the core needs to know about who is acting.
// A principal may hold a customer link and a staff link at the same time, so
// each link is kept separately instead of collapsing to a single role.
type RoleContext struct {
	Principal  Principal
	StaffAdmin bool
	OwnerOf    *uint
	WaiterOf   *uint
	CustomerID *uint
}

// Role returns the strongest role: StaffAdmin, Owner, Waiter, Customer, Anonymous.
func (rc RoleContext) Role() Role {
	switch {
	case rc.StaffAdmin:
		return RoleStaffAdmin
	case rc.OwnerOf != nil:
		return RoleOwner
	case rc.WaiterOf != nil:
		return RoleWaiter
	case rc.CustomerID != nil:
		return RoleCustomer
	default:
		return RoleAnonymous
	}
}

// StaffRestaurant is the restaurant an Owner or Waiter is bound to.
// The owner link wins over the waiter link.
func (rc RoleContext) StaffRestaurant() (uint, bool) {
	if rc.OwnerOf != nil {
		return *rc.OwnerOf, true
	}
	if rc.WaiterOf != nil {
		return *rc.WaiterOf, true
	}
	return 0, false
}

// IsStaffOf reports whether the caller is Owner or Waiter of restaurantID.
func (rc RoleContext) IsStaffOf(restaurantID uint) bool {
	id, ok := rc.StaffRestaurant()
	return ok && id == restaurantID
}

// IsCustomer reports whether the caller is the given customer.
func (rc RoleContext) IsCustomer(customerID uint) bool {
	return rc.CustomerID != nil && *rc.CustomerID == customerID
}

// RoleResolver turns a principal into a RoleContext.
type RoleResolver struct {
	DB *gorm.DB
}

func NewRoleResolver(db *gorm.DB) *RoleResolver {
	return &RoleResolver{DB: db}
}

// Resolve looks up the owner, waiter and customer links concurrently. A missing
// link is not an error; the returned error only reports storage failures.
func (r *RoleResolver) Resolve(ctx context.Context, p Principal) (RoleContext, error) {
	rc := RoleContext{Principal: p, StaffAdmin: p.IsStaff}
	if !p.Authenticated() {
		return rc, nil
	}

	var (
		owner    models.Owner
		waiter   models.Waiter
		customer models.Customer
	)
	found := [3]bool{}

	g, gctx := errgroup.WithContext(ctx)
	lookup := func(i int, dest interface{}) func() error {
		return func() error {
			err := r.DB.WithContext(gctx).Where("user_id = ?", p.UserID).Take(dest).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve role links for user %d: %w", p.UserID, err)
			}
			found[i] = true
			return nil
		}
	}
	g.Go(lookup(0, &owner))
	g.Go(lookup(1, &waiter))
	g.Go(lookup(2, &customer))
	if err := g.Wait(); err != nil {
		return RoleContext{Principal: p}, err
	}

	if found[0] {
		rc.OwnerOf = &owner.RestaurantID
	}
	if found[1] {
		rc.WaiterOf = &waiter.RestaurantID
	}
	if found[2] {
		rc.CustomerID = &customer.ID
	}
	return rc, nil
}
