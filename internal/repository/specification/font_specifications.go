package specification

import "gorm.io/gorm"

type ByFamily struct {
	Family string
}

func (s ByFamily) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("family = ?", s.Family)
}
