package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

var sortableFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"slug":         true,
	"locale":       true,
	"family":       true,
	"weight":       true,
	"display_name": true,
}

// OrderBy applies ordering. Unknown fields are ignored so request input
// never reaches the ORDER BY clause.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	if !sortableFields[s.Field] {
		return db
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Pagination
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	if s.Limit <= 0 {
		return db.Offset(s.Offset)
	}
	return db.Limit(s.Limit).Offset(s.Offset)
}
