package implementation

import (
	"context"
	"errors"

	"site-content-be/internal/entity"
	"site-content-be/internal/mapper"
	"site-content-be/internal/model"
	"site-content-be/internal/repository/contract"
	"site-content-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FontDescriptorRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FontDescriptorMapper
}

func NewFontDescriptorRepository(db *gorm.DB) contract.FontDescriptorRepository {
	return &FontDescriptorRepositoryImpl{
		db:     db,
		mapper: mapper.NewFontDescriptorMapper(),
	}
}

func (r *FontDescriptorRepositoryImpl) Create(ctx context.Context, descriptor *entity.FontDescriptor) error {
	m := r.mapper.ToModel(descriptor)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*descriptor = *r.mapper.ToEntity(m)
	return nil
}

func (r *FontDescriptorRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.FontDescriptor{}, id).Error
}

func (r *FontDescriptorRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FontDescriptor, error) {
	var m model.FontDescriptor
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FontDescriptorRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FontDescriptor, error) {
	var models []*model.FontDescriptor
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
