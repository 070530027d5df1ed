package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/gastro-api/models"
	"github.com/yeremiapane/gastro-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConflictPolicy decides which existing reservations block a new window.
type ConflictPolicy string

const (
	// PolicyOverlap rejects any window intersecting an existing one on the table.
	PolicyOverlap ConflictPolicy = "overlap"
	// PolicyExact rejects only a window identical to an existing one.
	PolicyExact ConflictPolicy = "exact"
)

// ParseConflictPolicy falls back to PolicyOverlap for unknown values.
func ParseConflictPolicy(s string) ConflictPolicy {
	if ConflictPolicy(s) == PolicyExact {
		return PolicyExact
	}
	return PolicyOverlap
}

const msgReservationTaken = "a reservation with the same table and time already exists"

type ReservationService struct {
	DB     *gorm.DB
	Policy ConflictPolicy
}

func NewReservationService(db *gorm.DB, policy ConflictPolicy) *ReservationService {
	return &ReservationService{DB: db, Policy: policy}
}

type CreateReservationInput struct {
	TableID      uint
	CustomerID   *uint
	DateTimeFrom time.Time
	DateTimeTo   time.Time
}

type UpdateReservationInput struct {
	TableID      *uint
	DateTimeFrom *time.Time
	DateTimeTo   *time.Time
}

// normalizeWindow stores every instant in UTC at second precision so equal
// windows compare equal in every driver.
func normalizeWindow(from, to time.Time) (time.Time, time.Time, error) {
	if from.IsZero() || to.IsZero() {
		return from, to, ErrValidation("date_time_from and date_time_to are required")
	}
	from = from.UTC().Truncate(time.Second)
	to = to.UTC().Truncate(time.Second)
	if !from.Before(to) {
		return from, to, ErrValidation("date_time_from must be before date_time_to")
	}
	return from, to, nil
}

// CheckWindow is the reservation conflict checker. It must run inside the
// transaction that writes the reservation, after the table row is locked.
func (s *ReservationService) CheckWindow(tx *gorm.DB, tableID uint, from, to time.Time, excludeID uint) error {
	q := tx.Model(&models.TableReservation{}).Where("table_id = ?", tableID)
	if s.Policy == PolicyExact {
		q = q.Where("date_time_from = ? AND date_time_to = ?", from, to)
	} else {
		// [from, to) intersects [a, b) iff from < b and a < to.
		q = q.Where("date_time_from < ? AND date_time_to > ?", to, from)
	}
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("check reservation window: %w", err)
	}
	if n > 0 {
		if s.Policy == PolicyExact {
			return ErrConflict(msgReservationTaken)
		}
		return ErrConflict("the table is already reserved for an overlapping time window")
	}
	return nil
}

// lockTable loads the table with a row lock so bookings of one table serialise.
func lockTable(tx *gorm.DB, tableID uint) (*models.RestaurantTable, error) {
	var table models.RestaurantTable
	if err := load(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &table, tableID, "table"); err != nil {
		if KindOf(err) == KindNotFound {
			return nil, ErrValidation("no table with the given id was found")
		}
		return nil, err
	}
	return &table, nil
}

func (s *ReservationService) List(ctx context.Context, rc RoleContext, restaurant *uint) ([]models.TableReservation, error) {
	pred := Scope(rc, KindReservations, restaurant)
	reservations := []models.TableReservation{}
	if pred.Empty() {
		return reservations, nil
	}
	err := s.DB.WithContext(ctx).Scopes(pred.Apply).Order("date_time_from").Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return reservations, nil
}

func (s *ReservationService) Get(ctx context.Context, rc RoleContext, id uint) (*models.TableReservation, error) {
	var r models.TableReservation
	if err := load(s.DB.WithContext(ctx), &r, id, "reservation"); err != nil {
		return nil, err
	}
	if !Scope(rc, KindReservations, nil).Allows(r.RestaurantID, &r.CustomerID) {
		return nil, ErrPermissionDenied("you do not have permission to view this reservation")
	}
	return &r, nil
}

// canManage is true for the reserving customer and for staff of the restaurant.
func canManage(rc RoleContext, r models.TableReservation) bool {
	return rc.StaffAdmin || rc.IsStaffOf(r.RestaurantID) || rc.IsCustomer(r.CustomerID)
}

func (s *ReservationService) Create(ctx context.Context, rc RoleContext, in CreateReservationInput) (*models.TableReservation, error) {
	from, to, err := normalizeWindow(in.DateTimeFrom, in.DateTimeTo)
	if err != nil {
		return nil, err
	}
	if in.TableID == 0 {
		return nil, ErrValidation("table is required")
	}

	var reservation models.TableReservation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		table, err := lockTable(tx, in.TableID)
		if err != nil {
			return err
		}

		customerID, err := s.bookingCustomer(tx, rc, table.RestaurantID, in.CustomerID)
		if err != nil {
			return err
		}

		if err := s.CheckWindow(tx, table.ID, from, to, 0); err != nil {
			return err
		}

		reservation = models.TableReservation{
			CustomerID:   customerID,
			TableID:      table.ID,
			RestaurantID: table.RestaurantID,
			DateTimeFrom: from,
			DateTimeTo:   to,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			if isDuplicate(err) {
				return ErrConflict(msgReservationTaken)
			}
			return fmt.Errorf("create reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"table_id":       reservation.TableID,
		"from":           reservation.DateTimeFrom,
		"to":             reservation.DateTimeTo,
	}).Info("reservation created")
	return &reservation, nil
}

// bookingCustomer decides whom a new reservation belongs to. Customers book for
// themselves; staff of the table's restaurant book on behalf of a customer.
func (s *ReservationService) bookingCustomer(tx *gorm.DB, rc RoleContext, restaurantID uint, requested *uint) (uint, error) {
	if requested != nil && *requested != 0 {
		if rc.StaffAdmin || rc.IsStaffOf(restaurantID) || rc.IsCustomer(*requested) {
			if err := exists(tx, &models.Customer{}, *requested, "customer"); err != nil {
				return 0, err
			}
			return *requested, nil
		}
		return 0, ErrPermissionDenied("you can only reserve tables for yourself")
	}
	if rc.CustomerID != nil {
		return *rc.CustomerID, nil
	}
	if rc.StaffAdmin || rc.IsStaffOf(restaurantID) {
		return 0, ErrValidation("customer is required")
	}
	return 0, ErrPermissionDenied("only customers and restaurant staff can reserve tables")
}

func (s *ReservationService) Update(ctx context.Context, rc RoleContext, id uint, in UpdateReservationInput) (*models.TableReservation, error) {
	var r models.TableReservation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := load(tx, &r, id, "reservation"); err != nil {
			return err
		}
		if !canManage(rc, r) {
			return ErrPermissionDenied("you do not have permission to modify this reservation")
		}

		tableID := r.TableID
		if in.TableID != nil {
			tableID = *in.TableID
		}
		from, to := r.DateTimeFrom, r.DateTimeTo
		if in.DateTimeFrom != nil {
			from = *in.DateTimeFrom
		}
		if in.DateTimeTo != nil {
			to = *in.DateTimeTo
		}
		from, to, err := normalizeWindow(from, to)
		if err != nil {
			return err
		}

		table, err := lockTable(tx, tableID)
		if err != nil {
			return err
		}
		// Moving a booking to another restaurant's table needs rights there too.
		if table.RestaurantID != r.RestaurantID && !rc.StaffAdmin && !rc.IsCustomer(r.CustomerID) {
			return ErrPermissionDenied("you do not have permission to move reservations to restaurant %d", table.RestaurantID)
		}
		if err := s.CheckWindow(tx, table.ID, from, to, r.ID); err != nil {
			return err
		}

		r.TableID = table.ID
		r.RestaurantID = table.RestaurantID
		r.DateTimeFrom = from
		r.DateTimeTo = to
		if err := tx.Save(&r).Error; err != nil {
			if isDuplicate(err) {
				return ErrConflict(msgReservationTaken)
			}
			return fmt.Errorf("update reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Cancel deletes the reservation.
func (s *ReservationService) Cancel(ctx context.Context, rc RoleContext, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.TableReservation
		if err := load(tx, &r, id, "reservation"); err != nil {
			return err
		}
		if !canManage(rc, r) {
			return ErrPermissionDenied("you do not have permission to cancel this reservation")
		}
		if err := tx.Delete(&r).Error; err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}
		utils.InfoLogger.WithFields(logrus.Fields{"reservation_id": r.ID}).Info("reservation cancelled")
		return nil
	})
}
