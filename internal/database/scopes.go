package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/seth-walker/HRIS/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// CreatedBetween restricts a query to rows whose column falls inside the
// optional, inclusive window.
func CreatedBetween(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil {
			db = db.Where(column+" <= ?", *to)
		}
		return db
	}
}
