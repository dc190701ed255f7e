package mapper

import (
	"testing"
	"time"

	"site-content-be/internal/entity"
	"site-content-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestContentMapperSoftDelete(t *testing.T) {
	m := NewContentMapper()
	now := time.Now()

	e := m.ToEntity(&model.Content{
		Id:        uuid.New(),
		Slug:      "about",
		Locale:    "en",
		Body:      `{"root":{"kind":"root","version":1,"children":[]}}`,
		DeletedAt: gorm.DeletedAt{Time: now, Valid: true},
	})
	assert.True(t, e.IsDeleted)
	assert.Nil(t, e.UpdatedAt)
	assert.Equal(t, now, *e.DeletedAt)

	back := m.ToModel(&entity.Content{Slug: "about", IsDeleted: true})
	assert.True(t, back.DeletedAt.Valid)
	assert.Nil(t, m.ToEntity(nil))
}

func TestFontDescriptorMapperToDescriptor(t *testing.T) {
	id := uuid.New()
	d := NewFontDescriptorMapper().ToDescriptor(&entity.FontDescriptor{
		Id:          id,
		DisplayName: "Vazirmatn Bold",
		FileRef:     "fonts/vazirmatn-bold.woff2",
		Family:      "Vazirmatn",
		Weight:      700,
		Style:       "normal",
	})
	assert.Equal(t, id.String(), d.ID)
	assert.Equal(t, "Vazirmatn", d.Family)
	assert.Equal(t, 700, d.Weight)
}
