package services

import (
	"context"

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

// EquipmentUpdate — атрибуты очередной приёмки, применяемые к активу по
// политике "заполнить, если пусто, иначе перезаписать непустым новым".
type EquipmentUpdate struct {
	RecallNumber    string
	SerialNumber    string
	Description     string
	Manufacturer    string
	Model           string
	ProcessRangeMin string
	ProcessRangeMax string
	NextDue         null.Time
	CustodianID     null.Uint64
}

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	FindOrCreateInTx(ctx context.Context, tx pgx.Tx, update EquipmentUpdate) (*entities.Equipment, bool, error)
	ApplyCalibrationUpdateInTx(ctx context.Context, tx pgx.Tx, assetID uint64, update EquipmentUpdate) error
	SetStatusInTx(ctx context.Context, tx pgx.Tx, assetID uint64, status string, nextDue null.Time) error
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(equipmentRepo repositories.EquipmentRepositoryInterface, logger *zap.Logger) EquipmentServiceInterface {
	return &EquipmentService{equipmentRepo: equipmentRepo, logger: logger}
}

// FindOrCreateInTx ищет актив сначала по recall-номеру, затем по серийному
// номеру; если не найден — создаёт новый со статусом active. Второй результат
// сообщает, была ли строка создана.
func (s *EquipmentService) FindOrCreateInTx(ctx context.Context, tx pgx.Tx, update EquipmentUpdate) (*entities.Equipment, bool, error) {
	if update.RecallNumber != "" {
		eq, err := s.equipmentRepo.FindByRecallNumber(ctx, update.RecallNumber)
		if err == nil {
			return eq, false, nil
		}
		if err != apperrors.ErrNotFound {
			return nil, false, err
		}
	}

	eq, err := s.equipmentRepo.FindBySerialNumber(ctx, update.SerialNumber)
	if err == nil {
		return eq, false, nil
	}
	if err != apperrors.ErrNotFound {
		return nil, false, err
	}

	created, err := s.equipmentRepo.CreateInTx(ctx, tx, entities.Equipment{
		RecallNumber:       null.NewString(update.RecallNumber, update.RecallNumber != ""),
		SerialNumber:       update.SerialNumber,
		Description:        update.Description,
		Manufacturer:       null.NewString(update.Manufacturer, update.Manufacturer != ""),
		Model:              null.NewString(update.Model, update.Model != ""),
		ProcessRangeMin:    null.NewString(update.ProcessRangeMin, update.ProcessRangeMin != ""),
		ProcessRangeMax:    null.NewString(update.ProcessRangeMax, update.ProcessRangeMax != ""),
		NextCalibrationDue: update.NextDue,
		Status:             constants.EquipmentStatusActive,
		CustodianID:        update.CustodianID,
	})
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("создан новый актив оборудования",
		zap.Uint64("equipmentId", created.ID), zap.String("serialNumber", created.SerialNumber))
	return created, true, nil
}

func mergeString(current null.String, incoming string) null.String {
	if incoming != "" {
		return null.StringFrom(incoming)
	}
	return current
}

// ApplyCalibrationUpdateInTx сливает атрибуты новой приёмки с существующей
// строкой: непустое новое значение перезаписывает, пустое — сохраняет старое.
// Строка берётся под блокировку, чтобы два одновременных intake не потеряли
// обновления друг друга.
func (s *EquipmentService) ApplyCalibrationUpdateInTx(ctx context.Context, tx pgx.Tx, assetID uint64, update EquipmentUpdate) error {
	current, err := s.equipmentRepo.FindForUpdateInTx(ctx, tx, assetID)
	if err != nil {
		return err
	}

	merged := *current
	merged.RecallNumber = mergeString(current.RecallNumber, update.RecallNumber)
	merged.Description = firstNonEmpty(update.Description, current.Description)
	merged.SerialNumber = firstNonEmpty(update.SerialNumber, current.SerialNumber)
	merged.Manufacturer = mergeString(current.Manufacturer, update.Manufacturer)
	merged.Model = mergeString(current.Model, update.Model)
	merged.ProcessRangeMin = mergeString(current.ProcessRangeMin, update.ProcessRangeMin)
	merged.ProcessRangeMax = mergeString(current.ProcessRangeMax, update.ProcessRangeMax)
	if update.NextDue.Valid {
		merged.NextCalibrationDue = update.NextDue
	}
	if update.CustodianID.Valid {
		merged.CustodianID = update.CustodianID
	}
	merged.Status = constants.EquipmentStatusCalibration

	return s.equipmentRepo.UpdateInTx(ctx, tx, assetID, merged)
}

func (s *EquipmentService) SetStatusInTx(ctx context.Context, tx pgx.Tx, assetID uint64, status string, nextDue null.Time) error {
	current, err := s.equipmentRepo.FindForUpdateInTx(ctx, tx, assetID)
	if err != nil {
		return err
	}
	updated := *current
	updated.Status = status
	if nextDue.Valid {
		updated.NextCalibrationDue = nextDue
	}
	return s.equipmentRepo.UpdateInTx(ctx, tx, assetID, updated)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func equipmentToDTO(e entities.Equipment) dto.EquipmentDTO {
	item := dto.EquipmentDTO{
		ID:              e.ID,
		RecallNumber:    e.RecallNumber.String,
		SerialNumber:    e.SerialNumber,
		Description:     e.Description,
		Manufacturer:    e.Manufacturer.String,
		Model:           e.Model.String,
		ProcessRangeMin: e.ProcessRangeMin.String,
		ProcessRangeMax: e.ProcessRangeMax.String,
		Status:          e.Status,
	}
	if e.NextCalibrationDue.Valid {
		item.NextCalibrationDue = e.NextCalibrationDue.Time.Format("2006-01-02")
	}
	if e.CreatedAt != nil {
		item.CreatedAt = e.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if e.UpdatedAt != nil {
		item.UpdatedAt = e.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return item
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	items, total, err := s.equipmentRepo.GetEquipments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	dtos := make([]dto.EquipmentDTO, len(items))
	for i, item := range items {
		dtos[i] = equipmentToDTO(item)
	}
	return dtos, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewNotFoundError("Оборудование не найдено")
		}
		return nil, err
	}
	item := equipmentToDTO(*eq)
	return &item, nil
}
