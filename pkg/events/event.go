package events

import "time"

const (
	ContentSaved = "CONTENT_SAVED"
	FontsChanged = "FONTS_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CONTENT_SAVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewContentSaved announces a stored document.
func NewContentSaved(slug, locale string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       ContentSaved,
		Data:       map[string]interface{}{"slug": slug, "locale": locale},
		OccurredAt: at,
	}
}

// NewFontsChanged announces that the stored font descriptors changed.
func NewFontsChanged(reason string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       FontsChanged,
		Data:       map[string]interface{}{"reason": reason},
		OccurredAt: at,
	}
}

// StringField reads a string payload field, "" when absent.
func StringField(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}
