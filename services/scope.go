package services

import "gorm.io/gorm"

// ResourceKind names a restaurant-scoped collection of rows.
type ResourceKind string

const (
	KindTables       ResourceKind = "tables"
	KindCollections  ResourceKind = "collections"
	KindProducts     ResourceKind = "products"
	KindOrders       ResourceKind = "orders"
	KindReservations ResourceKind = "reservations"
	KindWaiters      ResourceKind = "waiters"
)

// publicRead kinds can be browsed by anyone who names a restaurant.
func (k ResourceKind) publicRead() bool {
	switch k {
	case KindTables, KindCollections, KindProducts:
		return true
	}
	return false
}

// customerOwned kinds carry a customer_id the customer may read back.
func (k ResourceKind) customerOwned() bool {
	return k == KindOrders || k == KindReservations
}

// Predicate is the visible set of rows for one caller and one resource kind.
// The zero value matches nothing.
type Predicate struct {
	All          bool
	RestaurantID *uint
	CustomerID   *uint
}

// Empty reports whether the predicate can never match a row.
func (p Predicate) Empty() bool {
	return !p.All && p.RestaurantID == nil && p.CustomerID == nil
}

// Apply is a gorm scope; use it as db.Scopes(pred.Apply).
func (p Predicate) Apply(db *gorm.DB) *gorm.DB {
	switch {
	case p.All:
		return db
	case p.RestaurantID != nil && p.CustomerID != nil:
		return db.Where("restaurant_id = ? OR customer_id = ?", *p.RestaurantID, *p.CustomerID)
	case p.RestaurantID != nil:
		return db.Where("restaurant_id = ?", *p.RestaurantID)
	case p.CustomerID != nil:
		return db.Where("customer_id = ?", *p.CustomerID)
	default:
		return db.Where("1 = 0")
	}
}

// Scope builds the read predicate for rc on kind. Precedence:
//  1. an explicit restaurant filter on a public-read kind is honoured for anyone;
//  2. Owner/Waiter see their bound restaurant;
//  3. otherwise nothing.
//
// StaffAdmin bypasses tenant scoping, and customers additionally see their own
// orders and reservations.
func Scope(rc RoleContext, kind ResourceKind, explicitRestaurant *uint) Predicate {
	if rc.StaffAdmin {
		if explicitRestaurant != nil {
			return Predicate{RestaurantID: explicitRestaurant}
		}
		return Predicate{All: true}
	}

	var pred Predicate
	if explicitRestaurant != nil && kind.publicRead() {
		pred.RestaurantID = explicitRestaurant
	} else if id, ok := rc.StaffRestaurant(); ok {
		pred.RestaurantID = &id
	}

	if kind.customerOwned() && rc.CustomerID != nil {
		pred.CustomerID = rc.CustomerID
	}
	return pred
}

// AuthorizeMutation allows writes only to the caller's bound restaurant.
func AuthorizeMutation(rc RoleContext, restaurantID uint) error {
	if rc.StaffAdmin || rc.IsStaffOf(restaurantID) {
		return nil
	}
	return ErrPermissionDenied("you do not have permission to modify resources of restaurant %d", restaurantID)
}

// mutationRestaurant picks the restaurant a create targets. Staff default to
// their own restaurant; naming another one is denied. StaffAdmin must name one.
func mutationRestaurant(rc RoleContext, requested *uint) (uint, error) {
	if rc.StaffAdmin {
		if requested == nil || *requested == 0 {
			return 0, ErrValidation("restaurant is required")
		}
		return *requested, nil
	}
	id, ok := rc.StaffRestaurant()
	if !ok {
		return 0, ErrPermissionDenied("only restaurant owners and waiters can do this")
	}
	if requested != nil && *requested != 0 && *requested != id {
		return 0, ErrPermissionDenied("you do not have permission to modify resources of restaurant %d", *requested)
	}
	return id, nil
}

// Allows reports whether a single row belongs to the predicate's visible set.
// customerID is nil for kinds that carry no customer.
func (p Predicate) Allows(restaurantID uint, customerID *uint) bool {
	if p.All {
		return true
	}
	if p.RestaurantID != nil && *p.RestaurantID == restaurantID {
		return true
	}
	return p.CustomerID != nil && customerID != nil && *p.CustomerID == *customerID
}
