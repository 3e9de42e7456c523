package services

import (
	"context"

	"calibration-system/internal/entities"
	"calibration-system/internal/repositories"
	apperrors "calibration-system/pkg/errors"
)

// ReferenceServiceInterface — справочники только на чтение: существование и
// отображаемое имя, без управления.
type ReferenceServiceInterface interface {
	GetDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	GetLocation(ctx context.Context, id uint64) (*entities.Location, error)
	GetPlant(ctx context.Context, id uint64) (*entities.Plant, error)
}

type ReferenceService struct {
	referenceRepo repositories.ReferenceRepositoryInterface
}

func NewReferenceService(referenceRepo repositories.ReferenceRepositoryInterface) *ReferenceService {
	return &ReferenceService{referenceRepo: referenceRepo}
}

func (s *ReferenceService) GetDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	department, err := s.referenceRepo.FindDepartment(ctx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Отдел не найден")
		}
		return nil, err
	}
	return department, nil
}

func (s *ReferenceService) GetLocation(ctx context.Context, id uint64) (*entities.Location, error) {
	location, err := s.referenceRepo.FindLocation(ctx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Локация не найдена")
		}
		return nil, err
	}
	return location, nil
}

func (s *ReferenceService) GetPlant(ctx context.Context, id uint64) (*entities.Plant, error) {
	plant, err := s.referenceRepo.FindPlant(ctx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Завод не найден")
		}
		return nil, err
	}
	return plant, nil
}
