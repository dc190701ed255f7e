package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentKey addresses one stored document.
type ContentKey struct {
	Slug   string `json:"slug"`
	Locale string `json:"locale"`
}

type RenderContentResponse struct {
	Slug         string   `json:"slug"`
	Locale       string   `json:"locale"`
	Title        string   `json:"title"`
	Direction    string   `json:"direction,omitempty"`
	HTML         string   `json:"html"`
	Fonts        []string `json:"fonts"`
	MissingFonts []string `json:"missing_fonts,omitempty"`
	Fallback     bool     `json:"fallback"`
}

type RawContentResponse struct {
	Id        uuid.UUID       `json:"id"`
	Slug      string          `json:"slug"`
	Locale    string          `json:"locale"`
	Title     string          `json:"title"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at"`
}

type SaveContentRequest struct {
	Slug     string          `json:"-" validate:"required,slug,max=255"`
	Locale   string          `json:"-" validate:"max=16"`
	Title    string          `json:"title" validate:"max=255"`
	Document json.RawMessage `json:"document" validate:"required"`
}

type SaveContentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug"`
	Locale    string     `json:"locale"`
	Title     string     `json:"title"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ContentSummary struct {
	Id        uuid.UUID  `json:"id"`
	Slug      string     `json:"slug"`
	Locale    string     `json:"locale"`
	Title     string     `json:"title"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// PublishDocumentSavedMessage is the in-process message sent after a save.
type PublishDocumentSavedMessage struct {
	Slug   string `json:"slug"`
	Locale string `json:"locale"`
}
