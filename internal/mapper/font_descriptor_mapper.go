package mapper

import (
	"time"

	"site-content-be/internal/entity"
	"site-content-be/internal/model"
	"site-content-be/pkg/fonts"
)

type FontDescriptorMapper struct{}

func NewFontDescriptorMapper() *FontDescriptorMapper {
	return &FontDescriptorMapper{}
}

func (m *FontDescriptorMapper) ToEntity(f *model.FontDescriptor) *entity.FontDescriptor {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.FontDescriptor{
		Id:          f.Id,
		DisplayName: f.DisplayName,
		FileRef:     f.FileRef,
		Family:      f.Family,
		Weight:      f.Weight,
		Style:       f.Style,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *FontDescriptorMapper) ToModel(f *entity.FontDescriptor) *model.FontDescriptor {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.FontDescriptor{
		Id:          f.Id,
		DisplayName: f.DisplayName,
		FileRef:     f.FileRef,
		Family:      f.Family,
		Weight:      f.Weight,
		Style:       f.Style,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *FontDescriptorMapper) ToEntities(descriptors []*model.FontDescriptor) []*entity.FontDescriptor {
	entities := make([]*entity.FontDescriptor, len(descriptors))
	for i, f := range descriptors {
		entities[i] = m.ToEntity(f)
	}
	return entities
}

// ToDescriptor converts a stored descriptor into the pipeline's input.
func (m *FontDescriptorMapper) ToDescriptor(f *entity.FontDescriptor) fonts.FontDescriptor {
	return fonts.FontDescriptor{
		ID:          f.Id.String(),
		DisplayName: f.DisplayName,
		FileRef:     f.FileRef,
		Family:      f.Family,
		Weight:      f.Weight,
		Style:       f.Style,
	}
}

func (m *FontDescriptorMapper) ToDescriptors(descriptors []*entity.FontDescriptor) []fonts.FontDescriptor {
	out := make([]fonts.FontDescriptor, len(descriptors))
	for i, f := range descriptors {
		out[i] = m.ToDescriptor(f)
	}
	return out
}
