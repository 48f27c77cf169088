package repositories

import (
	"errors"
	"math"

	"gorm.io/gorm"
)

// Page - параметры постраничной выборки. Limit <= 0 означает "без лимита" (экспорт).
type Page struct {
	Page  int
	Limit int
}

func (p Page) offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// paginate - scope для Limit/Offset
func paginate(p Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Limit <= 0 {
			return db
		}
		return db.Limit(p.Limit).Offset(p.offset())
	}
}

// isDuplicateKey работает при открытии gorm с TranslateError: true
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
