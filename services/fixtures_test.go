package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/gastro-api/config"
	"github.com/yeremiapane/gastro-api/database"
	"github.com/yeremiapane/gastro-api/models"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDB(&config.Config{DBDriver: "sqlite", DBSource: "file::memory:", GinMode: "release"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	ctx context.Context
	seq int
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, db: setupTestDB(t), ctx: context.Background()}
}

func (f *fixture) user(staff bool) models.User {
	f.t.Helper()
	f.seq++
	u := models.User{
		Name:     fmt.Sprintf("user %d", f.seq),
		Email:    fmt.Sprintf("user%d@example.com", f.seq),
		Password: "x",
		IsStaff:  staff,
	}
	require.NoError(f.t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) resolve(u models.User) RoleContext {
	f.t.Helper()
	rc, err := NewRoleResolver(f.db).Resolve(f.ctx, Principal{UserID: u.ID, IsStaff: u.IsStaff})
	require.NoError(f.t, err)
	return rc
}

func (f *fixture) admin() RoleContext {
	return f.resolve(f.user(true))
}

// restaurant creates a restaurant with an owner and returns the owner's context.
func (f *fixture) restaurant(title string, rows, columns int) (models.Restaurant, RoleContext) {
	f.t.Helper()
	owner := f.user(false)
	r := models.Restaurant{Title: title, Status: models.RestaurantOpen, GridRows: rows, GridColumns: columns}
	require.NoError(f.t, f.db.Create(&r).Error)
	require.NoError(f.t, f.db.Create(&models.Owner{UserID: owner.ID, RestaurantID: r.ID}).Error)
	return r, f.resolve(owner)
}

func (f *fixture) waiter(restaurantID uint) RoleContext {
	f.t.Helper()
	u := f.user(false)
	require.NoError(f.t, f.db.Create(&models.Waiter{UserID: u.ID, RestaurantID: restaurantID}).Error)
	return f.resolve(u)
}

func (f *fixture) customer() (models.Customer, RoleContext) {
	f.t.Helper()
	u := f.user(false)
	c := models.Customer{UserID: u.ID}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c, f.resolve(u)
}

func (f *fixture) table(restaurantID uint, row, column int) models.RestaurantTable {
	f.t.Helper()
	tbl := models.RestaurantTable{RestaurantID: restaurantID, Seats: 4, Row: row, Column: column, Status: models.TableEmpty}
	require.NoError(f.t, f.db.Create(&tbl).Error)
	return tbl
}

func (f *fixture) collection(restaurantID uint, title string) models.Collection {
	f.t.Helper()
	c := models.Collection{RestaurantID: restaurantID, Title: title}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c
}

func (f *fixture) product(restaurantID, collectionID uint, title, price string) models.Product {
	f.t.Helper()
	p := models.Product{
		RestaurantID: restaurantID,
		CollectionID: collectionID,
		Title:        title,
		Slug:         title,
		UnitPrice:    decimal.RequireFromString(price),
	}
	require.NoError(f.t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) count(model interface{}) int64 {
	f.t.Helper()
	var n int64
	require.NoError(f.t, f.db.Model(model).Count(&n).Error)
	return n
}

func uintPtr(v uint) *uint { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

// at builds a UTC instant on a fixed day.
func at(hour, minute int) time.Time {
	return time.Date(2030, time.March, 1, hour, minute, 0, 0, time.UTC)
}
