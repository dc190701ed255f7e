package service

import (
	"context"
	"time"

	"site-content-be/internal/dto"
	"site-content-be/internal/entity"
	"site-content-be/internal/mapper"
	"site-content-be/internal/pkg/logger"
	"site-content-be/internal/repository/specification"
	"site-content-be/internal/repository/unitofwork"
	"site-content-be/pkg/events"
	"site-content-be/pkg/fonts"
	"site-content-be/pkg/lexical"

	"github.com/google/uuid"
)

type IFontService interface {
	fonts.DescriptorSource
	List(ctx context.Context) ([]dto.FontResponse, error)
	Create(ctx context.Context, req *dto.CreateFontRequest) (*dto.FontResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stylesheet(ctx context.Context) (string, error)
	Sync(ctx context.Context) error
}

type fontService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   *fonts.Pipeline
	assets     lexical.AssetResolver
	events     EventPublisher
	mapper     *mapper.FontDescriptorMapper
	logger     logger.ILogger
}

// NewFontService wires the font service. eventPublisher may be nil.
func NewFontService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *fonts.Pipeline,
	assets lexical.AssetResolver,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IFontService {
	return &fontService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		assets:     assets,
		events:     eventPublisher,
		mapper:     mapper.NewFontDescriptorMapper(),
		logger:     log,
	}
}

func (s *fontService) ListFontDescriptors(ctx context.Context) ([]fonts.FontDescriptor, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.FontDescriptorRepository().FindAll(ctx, specification.OrderBy{Field: "family"}, specification.OrderBy{Field: "weight"})
	if err != nil {
		return nil, err
	}
	return s.mapper.ToDescriptors(stored), nil
}

func (s *fontService) List(ctx context.Context) ([]dto.FontResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.FontDescriptorRepository().FindAll(ctx, specification.OrderBy{Field: "family"}, specification.OrderBy{Field: "weight"})
	if err != nil {
		return nil, err
	}

	res := make([]dto.FontResponse, 0, len(stored))
	for _, f := range stored {
		res = append(res, s.toResponse(f))
	}
	return res, nil
}

func (s *fontService) Create(ctx context.Context, req *dto.CreateFontRequest) (*dto.FontResponse, error) {
	descriptor := fonts.FontDescriptor{
		DisplayName: req.DisplayName,
		FileRef:     req.FileRef,
		Family:      req.Family,
		Weight:      req.Weight,
		Style:       req.Style,
	}.Normalize()
	if err := descriptor.Validate(); err != nil {
		return nil, &fonts.FontLoadError{Op: "validate", Font: descriptor.Name(), Err: err}
	}

	font := &entity.FontDescriptor{
		Id:          uuid.New(),
		DisplayName: descriptor.DisplayName,
		FileRef:     descriptor.FileRef,
		Family:      descriptor.Family,
		Weight:      descriptor.Weight,
		Style:       descriptor.Style,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FontDescriptorRepository().Create(ctx, font); err != nil {
		return nil, err
	}

	s.changed(ctx, "created")
	res := s.toResponse(font)
	return &res, nil
}

func (s *fontService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.FontDescriptorRepository()

	font, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if font == nil {
		return ErrFontNotFound
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	s.changed(ctx, "deleted")
	return nil
}

func (s *fontService) Stylesheet(ctx context.Context) (string, error) {
	return s.pipeline.Stylesheet(ctx)
}

// Sync re-injects the stored descriptors. Failures are logged and returned;
// previously injected rules stay in place.
func (s *fontService) Sync(ctx context.Context) error {
	if err := s.pipeline.Sync(ctx, s); err != nil {
		s.logger.Warn("FontService", "Font injection incomplete, fallback fonts in use", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("FontService", "Font rules injected", nil)
	return nil
}

// changed re-injects locally and tells the other instances to do the same.
func (s *fontService) changed(ctx context.Context, reason string) {
	_ = s.Sync(ctx)

	if s.events != nil {
		if err := s.events.Publish(ctx, events.NewFontsChanged(reason, time.Now())); err != nil {
			s.logger.Warn("FontService", "Failed to publish FONTS_CHANGED event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *fontService) toResponse(f *entity.FontDescriptor) dto.FontResponse {
	return dto.FontResponse{
		Id:          f.Id,
		DisplayName: f.DisplayName,
		FileRef:     f.FileRef,
		Family:      f.Family,
		Weight:      f.Weight,
		Style:       f.Style,
		Source:      s.assets.Resolve(f.FileRef),
		CreatedAt:   f.CreatedAt,
	}
}
