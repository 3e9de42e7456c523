package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"calibration-system/internal/dto"
	"calibration-system/internal/entities"
	"calibration-system/internal/repositories"
	"calibration-system/pkg/constants"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/types"
	"calibration-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OutgoingServiceInterface interface {
	Complete(ctx context.Context, incomingID uint64, confirmerID uint64, payload dto.CompleteCalibrationDTO) (*dto.OutgoingRecordDTO, error)
	ConfirmPickup(ctx context.Context, outgoingID uint64, receivingEmployeeID uint64, payload dto.ConfirmPickupDTO) (*dto.OutgoingRecordDTO, error)
	ListReadyForPickup(ctx context.Context, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error)
	ListCompleted(ctx context.Context, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error)
	ListDueForRecalibration(ctx context.Context, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error)
}

type OutgoingService struct {
	txManager    repositories.TxManagerInterface
	outgoingRepo repositories.OutgoingRepositoryInterface
	incomingRepo repositories.IncomingRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	equipmentSvc EquipmentServiceInterface
	logger       *zap.Logger
	now          func() time.Time
}

func NewOutgoingService(
	txManager repositories.TxManagerInterface,
	outgoingRepo repositories.OutgoingRepositoryInterface,
	incomingRepo repositories.IncomingRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	equipmentSvc EquipmentServiceInterface,
	logger *zap.Logger,
) *OutgoingService {
	return &OutgoingService{
		txManager:    txManager,
		outgoingRepo: outgoingRepo,
		incomingRepo: incomingRepo,
		employeeRepo: employeeRepo,
		equipmentSvc: equipmentSvc,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *OutgoingService) WithClock(now func() time.Time) *OutgoingService {
	s.now = now
	return s
}

// CycleTimeDays считает полные дни между приёмкой и выдачей, округляя вверх.
// Отрицательная длительность (рассинхрон часов) приводится к нулю.
func CycleTimeDays(dateIn, dateOut time.Time) int {
	days := int(math.Ceil(dateOut.Sub(dateIn).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// detailWithIncoming возвращает выдачу вместе с родительской записью приёмки.
func (s *OutgoingService) detailWithIncoming(ctx context.Context, outgoingID uint64) (*dto.OutgoingRecordDTO, error) {
	detail, err := s.outgoingRepo.FindDetail(ctx, outgoingID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.incomingRepo.FindDetail(ctx, detail.IncomingID)
	if err != nil {
		return nil, err
	}
	detail.Incoming = incoming
	return detail, nil
}

func (s *OutgoingService) verifyPin(ctx context.Context, employeeID uint64, pin string) (*entities.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Сотрудник не найден")
		}
		return nil, err
	}
	if err := utils.CheckPasswordHash(pin, employee.PinHash); err != nil {
		return nil, apperrors.NewAuthenticationError("Неверный PIN-код")
	}
	return employee, nil
}

// Complete — центральный переход "калибровка завершена". Гейты идут строго по
// порядку: существование записи, PIN подтверждающего, совпадение отделов,
// расчёт cycle_time/overdue, защита от повторной выдачи.
func (s *OutgoingService) Complete(ctx context.Context, incomingID uint64, confirmerID uint64, payload dto.CompleteCalibrationDTO) (*dto.OutgoingRecordDTO, error) {
	incoming, err := s.incomingRepo.FindByID(ctx, incomingID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись приёмки не найдена")
		}
		return nil, err
	}

	confirmer, err := s.verifyPin(ctx, confirmerID, payload.Pin)
	if err != nil {
		return nil, err
	}

	submitter, err := s.employeeRepo.FindByID(ctx, incoming.EmployeeInID)
	if err != nil {
		return nil, err
	}
	if confirmer.Department == nil || submitter.Department == nil {
		return nil, apperrors.NewValidationError("Не заполнены данные об отделе сотрудника",
			map[string]string{"department": "у подтверждающего или принявшего сотрудника не указан отдел"})
	}
	if confirmer.Department.ID != submitter.Department.ID {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Отдел подтверждающего ('%s') не совпадает с отделом принявшего прибор ('%s')",
				confirmer.Department.Name, submitter.Department.Name),
			map[string]string{"department": "закрыть калибровку может только сотрудник отдела, оформившего приёмку"})
	}

	dateOut := s.now()
	if d := parseDate(payload.DateOut); d.Valid {
		dateOut = d.Time
	}
	cycleTime := CycleTimeDays(incoming.DateIn, dateOut)

	overdue := false
	var ctReqd null.Int
	if payload.CTReqd != nil {
		ctReqd = null.IntFrom(*payload.CTReqd)
		overdue = cycleTime > *payload.CTReqd
	}
	var commitETC, actualETC null.Int
	if payload.CommitETC != nil {
		commitETC = null.IntFrom(*payload.CommitETC)
	}
	if payload.ActualETC != nil {
		actualETC = null.IntFrom(*payload.ActualETC)
	}

	if existing, err := s.outgoingRepo.FindByIncomingID(ctx, incomingID); err == nil && existing != nil {
		return nil, apperrors.NewConflictError("Для этой записи приёмки выдача уже оформлена")
	} else if err != nil && err != apperrors.ErrNotFound {
		return nil, err
	}

	var created *entities.OutgoingRecord
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		record := entities.OutgoingRecord{
			IncomingID:         incomingID,
			RecallNumber:       incoming.RecallNumber,
			CalibrationDate:    parseDate(payload.CalibrationDate),
			CalibrationDueDate: parseDate(payload.CalibrationDueDate),
			DateOut:            dateOut,
			EmployeeID:         confirmer.ID,
			TechnicianID:       incoming.TechnicianID,
			CycleTime:          cycleTime,
			CTReqd:             ctReqd,
			CommitETC:          commitETC,
			ActualETC:          actualETC,
			Overdue:            overdue,
			Status:             constants.OutgoingStatusForPickup,
		}
		var err error
		created, err = s.outgoingRepo.CreateInTx(ctx, tx, record)
		if err != nil {
			return err
		}
		return s.incomingRepo.SetStatusInTx(ctx, tx, incomingID, constants.IncomingStatusPendingCalibration)
	})
	if err != nil {
		s.logger.Error("ошибка оформления выдачи", zap.Error(err), zap.Uint64("incomingId", incomingID))
		return nil, err
	}

	s.logger.Info("калибровка завершена, прибор ожидает выдачи",
		zap.Uint64("outgoingId", created.ID), zap.String("recallNumber", created.RecallNumber),
		zap.Int("cycleTime", created.CycleTime), zap.Bool("overdue", created.Overdue))
	return s.detailWithIncoming(ctx, created.ID)
}

// ConfirmPickup фиксирует физический возврат прибора: PIN получателя,
// совпадение получателя с автором приёмки, статус for_pickup. Актив
// возвращается в статус active с новой датой следующей калибровки.
func (s *OutgoingService) ConfirmPickup(ctx context.Context, outgoingID uint64, receivingEmployeeID uint64, payload dto.ConfirmPickupDTO) (*dto.OutgoingRecordDTO, error) {
	outgoing, err := s.outgoingRepo.FindByID(ctx, outgoingID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись выдачи не найдена")
		}
		return nil, err
	}

	receiver, err := s.verifyPin(ctx, receivingEmployeeID, payload.Pin)
	if err != nil {
		return nil, err
	}

	incoming, err := s.incomingRepo.FindByID(ctx, outgoing.IncomingID)
	if err != nil {
		return nil, err
	}
	if receiver.ID != incoming.EmployeeInID {
		return nil, apperrors.NewValidationError("Забрать прибор может только сотрудник, сдавший его в калибровку",
			map[string]string{"employee_out_id": "не совпадает с автором записи приёмки"})
	}
	if outgoing.Status != constants.OutgoingStatusForPickup {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Выдача в статусе '%s' не может быть подтверждена", outgoing.Status),
			map[string]string{"status": "допустимый статус: for_pickup"})
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.outgoingRepo.ConfirmPickupInTx(ctx, tx, outgoingID, receiver.ID); err != nil {
			return err
		}
		if err := s.incomingRepo.SetStatusInTx(ctx, tx, outgoing.IncomingID, constants.IncomingStatusCompleted); err != nil {
			return err
		}
		return s.equipmentSvc.SetStatusInTx(ctx, tx, incoming.EquipmentID,
			constants.EquipmentStatusActive, outgoing.CalibrationDueDate)
	})
	if err != nil {
		s.logger.Error("ошибка подтверждения выдачи", zap.Error(err), zap.Uint64("outgoingId", outgoingID))
		return nil, err
	}

	s.logger.Info("выдача подтверждена", zap.Uint64("outgoingId", outgoingID),
		zap.Uint64("employeeOutId", receiver.ID))
	return s.detailWithIncoming(ctx, outgoingID)
}

func (s *OutgoingService) ListReadyForPickup(ctx context.Context, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error) {
	return s.outgoingRepo.ListByStatus(ctx, constants.OutgoingStatusForPickup, filter)
}

func (s *OutgoingService) ListCompleted(ctx context.Context, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error) {
	return s.outgoingRepo.ListByStatus(ctx, constants.OutgoingStatusCompleted, filter)
}

func (s *OutgoingService) ListDueForRecalibration(ctx context.Context, filter types.Filter) ([]dto.OutgoingRecordDTO, uint64, error) {
	return s.outgoingRepo.ListDueForRecalibration(ctx, s.now(), filter)
}
