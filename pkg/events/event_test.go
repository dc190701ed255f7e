package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContentSaved(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := NewContentSaved("about", "fa", at)

	assert.Equal(t, ContentSaved, e.EventType())
	assert.Equal(t, "about", StringField(e, "slug"))
	assert.Equal(t, "fa", StringField(e, "locale"))
	assert.Equal(t, "", StringField(e, "missing"))
	assert.Equal(t, at, e.Timestamp())
}
