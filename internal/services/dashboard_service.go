package services

import (
	"context"

	"calibration-system/internal/dto"
	"calibration-system/internal/repositories"
	"calibration-system/pkg/constants"

	"go.uber.org/zap"
)

type DashboardServiceInterface interface {
	GetCounters(ctx context.Context) (*dto.DashboardCountersDTO, error)
}

type DashboardService struct {
	incomingRepo repositories.IncomingRepositoryInterface
	outgoingRepo repositories.OutgoingRepositoryInterface
	logger       *zap.Logger
}

func NewDashboardService(
	incomingRepo repositories.IncomingRepositoryInterface,
	outgoingRepo repositories.OutgoingRepositoryInterface,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{incomingRepo: incomingRepo, outgoingRepo: outgoingRepo, logger: logger}
}

func (s *DashboardService) GetCounters(ctx context.Context) (*dto.DashboardCountersDTO, error) {
	incoming, err := s.incomingRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("ошибка подсчёта записей приёмки", zap.Error(err))
		return nil, err
	}
	outgoing, err := s.outgoingRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("ошибка подсчёта записей выдачи", zap.Error(err))
		return nil, err
	}
	overdue, err := s.outgoingRepo.CountOverdue(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardCountersDTO{
		ForConfirmation:    incoming[constants.IncomingStatusForConfirmation],
		PendingCalibration: incoming[constants.IncomingStatusPendingCalibration],
		ForPickup:          outgoing[constants.OutgoingStatusForPickup],
		Completed:          outgoing[constants.OutgoingStatusCompleted],
		Overdue:            overdue,
	}, nil
}
