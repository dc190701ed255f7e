package specification

import "gorm.io/gorm"

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type ByLocale struct {
	Locale string
}

func (s ByLocale) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("locale = ?", s.Locale)
}

// BySlugLocale selects the single document stored for a slug in one locale.
type BySlugLocale struct {
	Slug   string
	Locale string
}

func (s BySlugLocale) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ? AND locale = ?", s.Slug, s.Locale)
}
