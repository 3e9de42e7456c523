package services

import (
	"context"
	"fmt"
	"time"

	"calibration-system/internal/dto"
	"calibration-system/internal/entities"
	"calibration-system/internal/repositories"
	"calibration-system/pkg/constants"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RecallNumberIssuer выдаёт свободный recall-номер (реализация — у
// координатора жизненного цикла).
type RecallNumberIssuer interface {
	IssueRecallNumber(ctx context.Context) (string, error)
}

type IncomingServiceInterface interface {
	Submit(ctx context.Context, requesterID uint64, payload dto.SubmitIncomingDTO) (*dto.IncomingRecordDTO, error)
	Edit(ctx context.Context, recordID uint64, requesterID uint64, payload dto.SubmitIncomingDTO) (*dto.IncomingRecordDTO, error)
	View(ctx context.Context, recordID uint64, requesterID uint64) (*dto.IncomingRecordDTO, error)
	ListForEmployee(ctx context.Context, requesterID uint64, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error)
	List(ctx context.Context, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error)
	Confirm(ctx context.Context, recordID uint64) (*dto.IncomingRecordDTO, error)
}

type IncomingService struct {
	txManager    repositories.TxManagerInterface
	incomingRepo repositories.IncomingRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	equipmentSvc EquipmentServiceInterface
	recallIssuer RecallNumberIssuer
	logger       *zap.Logger
	now          func() time.Time
}

func NewIncomingService(
	txManager repositories.TxManagerInterface,
	incomingRepo repositories.IncomingRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	equipmentSvc EquipmentServiceInterface,
	recallIssuer RecallNumberIssuer,
	logger *zap.Logger,
) *IncomingService {
	return &IncomingService{
		txManager:    txManager,
		incomingRepo: incomingRepo,
		employeeRepo: employeeRepo,
		equipmentSvc: equipmentSvc,
		recallIssuer: recallIssuer,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock подменяет источник времени (для тестов).
func (s *IncomingService) WithClock(now func() time.Time) *IncomingService {
	s.now = now
	return s
}

func validateIntakePayload(payload dto.SubmitIncomingDTO) error {
	details := map[string]string{}
	if payload.TechnicianID == 0 {
		details["technician_id"] = "Техник обязателен"
	}
	if payload.Description == "" {
		details["description"] = "Описание оборудования обязательно"
	}
	if payload.SerialNumber == "" {
		details["serial_number"] = "Серийный номер обязателен"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Не заполнены обязательные поля", details)
	}
	return nil
}

func parseDate(value string) null.Time {
	if value == "" {
		return null.Time{}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return null.Time{}
	}
	return null.TimeFrom(t)
}

func (s *IncomingService) equipmentUpdateFromPayload(payload dto.SubmitIncomingDTO, recallNumber string, custodianID uint64) EquipmentUpdate {
	return EquipmentUpdate{
		RecallNumber:    recallNumber,
		SerialNumber:    payload.SerialNumber,
		Description:     payload.Description,
		Manufacturer:    payload.Manufacturer,
		Model:           payload.Model,
		ProcessRangeMin: payload.ProcessRangeMin,
		ProcessRangeMax: payload.ProcessRangeMax,
		NextDue:         parseDate(payload.ExpectedDueDate),
		CustodianID:     null.Uint64From(custodianID),
	}
}

// Submit создаёт запись приёмки со статусом for_confirmation и датой date_in
// от инжектированных часов; актив оборудования создаётся или обновляется в той
// же транзакции.
func (s *IncomingService) Submit(ctx context.Context, requesterID uint64, payload dto.SubmitIncomingDTO) (*dto.IncomingRecordDTO, error) {
	if err := validateIntakePayload(payload); err != nil {
		return nil, err
	}

	actor, err := s.employeeRepo.FindByID(ctx, requesterID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Сотрудник не найден")
		}
		return nil, err
	}

	var receivedBy null.Uint64
	if payload.ReceivedByID != 0 {
		receivedBy = null.Uint64From(payload.ReceivedByID)
	}
	attribution := ResolveAttribution(actor, payload.TechnicianID, receivedBy)

	recallNumber := payload.RecallNumber
	if recallNumber == "" {
		recallNumber, err = s.recallIssuer.IssueRecallNumber(ctx)
		if err != nil {
			return nil, err
		}
	}

	var created *entities.IncomingRecord
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		update := s.equipmentUpdateFromPayload(payload, recallNumber, requesterID)
		equipment, wasCreated, err := s.equipmentSvc.FindOrCreateInTx(ctx, tx, update)
		if err != nil {
			return err
		}
		if !wasCreated {
			if err := s.equipmentSvc.ApplyCalibrationUpdateInTx(ctx, tx, equipment.ID, update); err != nil {
				return err
			}
		}

		var locationID null.Uint64
		if payload.LocationID != 0 {
			locationID = null.Uint64From(payload.LocationID)
		}

		record := entities.IncomingRecord{
			RecallNumber:    recallNumber,
			TechnicianID:    attribution.TechnicianID,
			EquipmentID:     equipment.ID,
			LocationID:      locationID,
			ReceivedByID:    attribution.ReceivedByID,
			EmployeeInID:    requesterID,
			SerialNumber:    payload.SerialNumber,
			Description:     payload.Description,
			Model:           null.NewString(payload.Model, payload.Model != ""),
			Manufacturer:    null.NewString(payload.Manufacturer, payload.Manufacturer != ""),
			DueDate:         parseDate(payload.DueDate),
			CalibrationDate: parseDate(payload.CalibrationDate),
			ExpectedDueDate: parseDate(payload.ExpectedDueDate),
			DateIn:          s.now(),
			Status:          constants.IncomingStatusForConfirmation,
			Notes:           null.NewString(payload.Notes, payload.Notes != ""),
		}
		created, err = s.incomingRepo.CreateInTx(ctx, tx, record)
		return err
	})
	if err != nil {
		s.logger.Error("ошибка создания записи приёмки", zap.Error(err), zap.Uint64("requesterId", requesterID))
		return nil, err
	}

	s.logger.Info("создана запись приёмки",
		zap.Uint64("incomingId", created.ID), zap.String("recallNumber", created.RecallNumber))
	return s.incomingRepo.FindDetail(ctx, created.ID)
}

// Edit разрешён только в статусе for_confirmation и только автору записи.
// Владелец и статус неизменяемы независимо от содержимого payload.
func (s *IncomingService) Edit(ctx context.Context, recordID uint64, requesterID uint64, payload dto.SubmitIncomingDTO) (*dto.IncomingRecordDTO, error) {
	record, err := s.incomingRepo.FindByID(ctx, recordID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись приёмки не найдена")
		}
		return nil, err
	}

	if record.Status != constants.IncomingStatusForConfirmation {
		return nil, apperrors.NewForbiddenError("Запись уже подтверждена и недоступна для правки")
	}
	if record.EmployeeInID != requesterID {
		return nil, apperrors.NewForbiddenError("Правка чужой записи запрещена")
	}

	if err := validateIntakePayload(payload); err != nil {
		return nil, err
	}

	actor, err := s.employeeRepo.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	var receivedBy null.Uint64
	if payload.ReceivedByID != 0 {
		receivedBy = null.Uint64From(payload.ReceivedByID)
	}
	attribution := ResolveAttribution(actor, payload.TechnicianID, receivedBy)

	// recall-номер при правке не перегенерируется: пустое значение означает
	// "оставить как есть".
	recallNumber := payload.RecallNumber
	if recallNumber == "" {
		recallNumber = record.RecallNumber
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		update := s.equipmentUpdateFromPayload(payload, recallNumber, record.EmployeeInID)
		if err := s.equipmentSvc.ApplyCalibrationUpdateInTx(ctx, tx, record.EquipmentID, update); err != nil {
			return err
		}

		var locationID null.Uint64
		if payload.LocationID != 0 {
			locationID = null.Uint64From(payload.LocationID)
		}

		changes := *record
		changes.RecallNumber = recallNumber
		changes.TechnicianID = attribution.TechnicianID
		changes.ReceivedByID = attribution.ReceivedByID
		changes.LocationID = locationID
		changes.SerialNumber = payload.SerialNumber
		changes.Description = payload.Description
		changes.Model = null.NewString(payload.Model, payload.Model != "")
		changes.Manufacturer = null.NewString(payload.Manufacturer, payload.Manufacturer != "")
		changes.DueDate = parseDate(payload.DueDate)
		changes.CalibrationDate = parseDate(payload.CalibrationDate)
		changes.ExpectedDueDate = parseDate(payload.ExpectedDueDate)
		changes.Notes = null.NewString(payload.Notes, payload.Notes != "")

		_, err := s.incomingRepo.UpdateInTx(ctx, tx, recordID, changes)
		return err
	})
	if err != nil {
		s.logger.Error("ошибка правки записи приёмки", zap.Error(err), zap.Uint64("incomingId", recordID))
		return nil, err
	}

	return s.incomingRepo.FindDetail(ctx, recordID)
}

// View: self-service изоляция — запись видит только её автор либо
// администратор.
func (s *IncomingService) View(ctx context.Context, recordID uint64, requesterID uint64) (*dto.IncomingRecordDTO, error) {
	record, err := s.incomingRepo.FindByID(ctx, recordID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись приёмки не найдена")
		}
		return nil, err
	}

	if record.EmployeeInID != requesterID {
		actor, err := s.employeeRepo.FindByID(ctx, requesterID)
		if err != nil {
			return nil, apperrors.NewForbiddenError("Просмотр чужой записи запрещён")
		}
		if actor.Role != constants.RoleAdmin {
			return nil, apperrors.NewForbiddenError("Просмотр чужой записи запрещён")
		}
	}

	return s.incomingRepo.FindDetail(ctx, recordID)
}

func (s *IncomingService) ListForEmployee(ctx context.Context, requesterID uint64, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error) {
	return s.incomingRepo.ListForEmployee(ctx, requesterID, filter)
}

func (s *IncomingService) List(ctx context.Context, filter types.Filter) ([]dto.IncomingRecordDTO, uint64, error) {
	return s.incomingRepo.List(ctx, filter)
}

// Confirm — административное подтверждение приёмки:
// for_confirmation -> pending_calibration.
func (s *IncomingService) Confirm(ctx context.Context, recordID uint64) (*dto.IncomingRecordDTO, error) {
	record, err := s.incomingRepo.FindByID(ctx, recordID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Запись приёмки не найдена")
		}
		return nil, err
	}
	if record.Status != constants.IncomingStatusForConfirmation {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("Запись в статусе '%s' не может быть подтверждена", record.Status),
			map[string]string{"status": "допустимый статус: for_confirmation"})
	}

	if err := s.incomingRepo.SetStatus(ctx, recordID, constants.IncomingStatusPendingCalibration); err != nil {
		return nil, err
	}
	return s.incomingRepo.FindDetail(ctx, recordID)
}
