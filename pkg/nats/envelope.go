package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"site-content-be/pkg/events"
)

const (
	StreamName    = "CONTENT_EVENTS"
	subjectPrefix = "content."
)

// Subject returns the subject an event type is published on.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}

type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func encode(event events.Event) ([]byte, error) {
	data, err := json.Marshal(envelope{
		Type:       event.EventType(),
		OccurredAt: event.Timestamp(),
		Data:       event.Payload(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}

func decode(data []byte) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if env.Type == "" {
		return events.BaseEvent{}, fmt.Errorf("event without type")
	}
	if env.Data == nil {
		env.Data = map[string]interface{}{}
	}
	return events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
}
