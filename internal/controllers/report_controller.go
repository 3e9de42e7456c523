package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"calibration-system/internal/dto"
	"calibration-system/internal/entities"
	"calibration-system/internal/services"
	"calibration-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, format := c.parseFilters(ctx)
	c.logger.Debug("Запрос отчёта по калибровкам", zap.Any("filters", filter), zap.String("format", format))

	if format == "xlsx" {
		data, err := c.reportService.GetReportForExport(reqCtx, filter)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return c.respondWithXLSX(ctx, data)
	}

	data, total, err := c.reportService.GetReport(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, data, "Отчёт успешно сформирован", http.StatusOK, total)
}

func (c *ReportController) parseFilters(ctx echo.Context) (entities.ReportFilter, string) {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := entities.ReportFilter{
		Search:  stdFilter.Search,
		Page:    stdFilter.Page,
		PerPage: stdFilter.Limit,
	}
	format := strings.ToLower(ctx.QueryParam("format"))

	// Режим "выгрузить всё без учёта фильтров" включается только явно.
	filter.IgnoreFilters = ctx.QueryParam("ignore_filters") == "true"

	for field, order := range stdFilter.Sort {
		filter.SortBy = field
		filter.SortOrder = order
	}

	if df := ctx.QueryParam("date_from"); df != "" {
		if t, err := time.Parse("2006-01-02", df); err == nil {
			filter.DateFrom = utils.TimePtr(t)
		}
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse("2006-01-02", dt); err == nil {
			filter.DateTo = utils.TimePtr(t)
		}
	}

	parseIDs := func(name string) []uint64 {
		var strs []string
		if arr, ok := ctx.QueryParams()[name+"[]"]; ok {
			strs = arr
		} else if s := ctx.QueryParam(name); s != "" {
			strs = strings.Split(s, ",")
		}
		ids, _ := utils.ParseUint64Slice(strs)
		return ids
	}

	if statuses := ctx.QueryParam("statuses"); statuses != "" {
		filter.Statuses = strings.Split(statuses, ",")
	}
	filter.TechnicianIDs = parseIDs("technician_ids")
	filter.LocationIDs = parseIDs("location_ids")

	return filter, format
}

var reportHeaders = []string{
	"Recall-номер", "Описание", "Серийный номер", "Модель", "Производитель",
	"Статус приёмки", "Дата приёмки", "Срок поверки", "Техник", "Локация", "Сдал",
	"Статус выдачи", "Дата выдачи", "Следующая калибровка", "Cycle time, дн.",
	"CT план, дн.", "Просрочено", "Забрал",
}

func rowToSlice(item dto.ReportItemDTO) []interface{} {
	var cycleTime, ctReqd, overdue string
	if item.CycleTime != nil {
		cycleTime = fmt.Sprintf("%d", *item.CycleTime)
	}
	if item.CTReqd != nil {
		ctReqd = fmt.Sprintf("%d", *item.CTReqd)
	}
	if item.Overdue != nil {
		overdue = "нет"
		if *item.Overdue {
			overdue = "да"
		}
	}

	return []interface{}{
		item.RecallNumber, item.Description, item.SerialNumber, item.Model, item.Manufacturer,
		item.IncomingStatus, item.DateIn, item.DueDate, item.TechnicianFio, item.LocationName,
		item.EmployeeInFio, item.OutgoingStatus, item.DateOut, item.CalibrationDueDate,
		cycleTime, ctReqd, overdue, item.EmployeeOutFio,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []dto.ReportItemDTO) error {
	f := excelize.NewFile()
	sheet := "Отчёт по калибровкам"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "R1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "E", 20)
	f.SetColWidth(sheet, "I", "K", 25)
	f.SetColWidth(sheet, "R", "R", 25)

	fileName := fmt.Sprintf("calibration_report_%s_%s.xlsx",
		time.Now().Format("2006-01-02"), uuid.NewString()[:8])
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
