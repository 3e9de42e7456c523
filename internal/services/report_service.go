package services

import (
	"context"
	"time"

	"calibration-system/internal/dto"
	"calibration-system/internal/entities"
	"calibration-system/internal/repositories"
	"calibration-system/pkg/utils"

	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	GetReport(ctx context.Context, filter entities.ReportFilter) ([]dto.ReportItemDTO, uint64, error)
	GetReportForExport(ctx context.Context, filter entities.ReportFilter) ([]dto.ReportItemDTO, error)
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) *ReportService {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

func reportItemToDTO(item entities.ReportItem) dto.ReportItemDTO {
	out := dto.ReportItemDTO{
		IncomingID:     item.IncomingID,
		RecallNumber:   item.RecallNumber,
		Description:    item.Description,
		SerialNumber:   item.SerialNumber,
		Model:          item.Model.String,
		Manufacturer:   item.Manufacturer.String,
		IncomingStatus: item.IncomingStatus,
		DateIn:         item.DateIn.Format("2006-01-02"),
		TechnicianFio:  item.TechnicianFio.String,
		LocationName:   item.LocationName.String,
		EmployeeInFio:  item.EmployeeInFio.String,
		OutgoingStatus: item.OutgoingStatus.String,
		EmployeeOutFio: item.EmployeeOutFio.String,
	}
	if item.DueDate.Valid {
		out.DueDate = item.DueDate.Time.Format("2006-01-02")
	}
	if item.OutgoingID.Valid {
		out.OutgoingID = utils.Uint64Ptr(uint64(item.OutgoingID.Int64))
	}
	if item.DateOut.Valid {
		out.DateOut = item.DateOut.Time.Format("2006-01-02")
	}
	if item.CalibrationDueDate.Valid {
		out.CalibrationDueDate = item.CalibrationDueDate.Time.Format("2006-01-02")
	}
	if item.CycleTime.Valid {
		ct := int(item.CycleTime.Int64)
		out.CycleTime = &ct
	}
	if item.CTReqd.Valid {
		ct := int(item.CTReqd.Int64)
		out.CTReqd = &ct
	}
	if item.Overdue.Valid {
		v := item.Overdue.Bool
		out.Overdue = &v
	}
	return out
}

func (s *ReportService) GetReport(ctx context.Context, filter entities.ReportFilter) ([]dto.ReportItemDTO, uint64, error) {
	items, total, err := s.reportRepo.GetReport(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка построения отчёта", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.ReportItemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, reportItemToDTO(item))
	}
	return result, total, nil
}

// GetReportForExport отдаёт весь срез без пагинации. Режим "без фильтров"
// должен быть запрошен явно через filter.IgnoreFilters.
func (s *ReportService) GetReportForExport(ctx context.Context, filter entities.ReportFilter) ([]dto.ReportItemDTO, error) {
	filter.Page = 0
	filter.PerPage = 0

	start := time.Now()
	items, _, err := s.reportRepo.GetReport(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка выгрузки отчёта", zap.Error(err))
		return nil, err
	}
	s.logger.Info("отчёт подготовлен к выгрузке",
		zap.Int("rows", len(items)), zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ignoreFilters", filter.IgnoreFilters))

	result := make([]dto.ReportItemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, reportItemToDTO(item))
	}
	return result, nil
}
