package controllers

import (
	"net/http"

	"calibration-system/internal/services"
	"calibration-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(service services.EquipmentServiceInterface, logger *zap.Logger) *EquipmentController {
	return &EquipmentController{
		equipmentService: service,
		logger:           logger,
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.equipmentService.GetEquipments(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEquipments: ошибка при получении списка оборудования", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список оборудования успешно получен", http.StatusOK, total)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Оборудование успешно найдено", http.StatusOK)
}
