package contract

import (
	"context"

	"site-content-be/internal/entity"
	"site-content-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ContentRepository interface {
	Create(ctx context.Context, content *entity.Content) error
	Update(ctx context.Context, content *entity.Content) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Content, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Content, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
