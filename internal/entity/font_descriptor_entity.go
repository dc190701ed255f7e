package entity

import (
	"time"

	"github.com/google/uuid"
)

type FontDescriptor struct {
	Id          uuid.UUID
	DisplayName string
	FileRef     string
	Family      string
	Weight      int
	Style       string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
