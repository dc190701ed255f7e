package unitofwork

import (
	"context"

	"site-content-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ContentRepository() contract.ContentRepository
	FontDescriptorRepository() contract.FontDescriptorRepository
}
