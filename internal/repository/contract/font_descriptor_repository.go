package contract

import (
	"context"

	"site-content-be/internal/entity"
	"site-content-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FontDescriptorRepository interface {
	Create(ctx context.Context, descriptor *entity.FontDescriptor) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FontDescriptor, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FontDescriptor, error)
}
