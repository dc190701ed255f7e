package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFontRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=255"`
	FileRef     string `json:"file_ref" validate:"required,max=1024"`
	Family      string `json:"family" validate:"max=255"`
	Weight      int    `json:"weight" validate:"omitempty,min=1,max=1000"`
	Style       string `json:"style" validate:"omitempty,oneof=normal italic oblique"`
}

type FontResponse struct {
	Id          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	FileRef     string    `json:"file_ref"`
	Family      string    `json:"family"`
	Weight      int       `json:"weight"`
	Style       string    `json:"style"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}
