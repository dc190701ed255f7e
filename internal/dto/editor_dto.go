package dto

import (
	"encoding/json"

	"site-content-be/pkg/editor"
)

type OpenSessionRequest struct {
	Slug   string `json:"slug" validate:"required,slug,max=255"`
	Locale string `json:"locale" validate:"max=16"`
}

type SetSelectionRequest struct {
	Selection editor.Selection `json:"selection"`
}

// CommandRequest carries one editor command. Only the fields of the named
// command are read.
type CommandRequest struct {
	Type      string            `json:"type" validate:"required,oneof=toggle-format transform-block insert-link insert-image insert-embed insert-list-item"`
	Selection *editor.Selection `json:"selection,omitempty"`

	Format   string `json:"format,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Level    int    `json:"level,omitempty"`
	Language string `json:"language,omitempty"`
	URL      string `json:"url,omitempty"`
	Label    string `json:"label,omitempty"`
	Src      string `json:"src,omitempty"`
	AltText  string `json:"alt_text,omitempty"`
	Ordered  bool   `json:"ordered,omitempty"`
}

type SessionResponse struct {
	Id        string           `json:"id"`
	Slug      string           `json:"slug"`
	Locale    string           `json:"locale"`
	Document  json.RawMessage  `json:"document"`
	Selection editor.Selection `json:"selection"`
	State     string           `json:"state"`
	Revision  uint64           `json:"revision"`
	CanUndo   bool             `json:"can_undo"`
	CanRedo   bool             `json:"can_redo"`
	Preview   string           `json:"preview"`
}

type CommandResponse struct {
	SessionResponse
	Changed bool `json:"changed"`
}

// PreviewMessage is pushed to preview websocket clients.
type PreviewMessage struct {
	Type      string `json:"type"`
	SessionId string `json:"session_id"`
	Revision  uint64 `json:"revision"`
	State     string `json:"state"`
	HTML      string `json:"html"`
}
