package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FontDescriptor struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DisplayName string         `gorm:"type:varchar(255);not null"`
	FileRef     string         `gorm:"type:varchar(1024);not null"`
	Family      string         `gorm:"type:varchar(255);not null;index"`
	Weight      int            `gorm:"not null;default:400"`
	Style       string         `gorm:"type:varchar(16);not null;default:'normal'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (FontDescriptor) TableName() string {
	return "font_descriptors"
}
