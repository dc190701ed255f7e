package entity

import (
	"time"

	"github.com/google/uuid"
)

type Content struct {
	Id        uuid.UUID
	Slug      string
	Locale    string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
