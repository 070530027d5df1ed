package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// load fetches one row by primary key, mapping a missing row to NotFound.
func load(tx *gorm.DB, dest interface{}, id interface{}, what string) error {
	err := tx.Where("id = ?", id).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound("%s not found", what)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", what, err)
	}
	return nil
}

// exists is load for foreign references: a missing row is a Validation error.
func exists(tx *gorm.DB, model interface{}, id interface{}, what string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("check %s: %w", what, err)
	}
	if n == 0 {
		return ErrValidation("no %s with the given id was found", what)
	}
	return nil
}

func count(tx *gorm.DB, model interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	err := tx.Model(model).Where(query, args...).Count(&n).Error
	return n, err
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
