package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Content is one stored document. Body holds the serialized document tree as
// opaque text; the (slug, locale) pair is unique.
type Content struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug      string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_contents_slug_locale"`
	Locale    string         `gorm:"type:varchar(16);not null;uniqueIndex:idx_contents_slug_locale"`
	Title     string         `gorm:"type:varchar(255)"`
	Body      string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Content) TableName() string {
	return "contents"
}
