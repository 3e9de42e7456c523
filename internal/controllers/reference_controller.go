package controllers

import (
	"net/http"

	"calibration-system/internal/services"
	"calibration-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReferenceController struct {
	referenceService services.ReferenceServiceInterface
	logger           *zap.Logger
}

func NewReferenceController(service services.ReferenceServiceInterface, logger *zap.Logger) *ReferenceController {
	return &ReferenceController{
		referenceService: service,
		logger:           logger,
	}
}

func (c *ReferenceController) FindDepartment(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.referenceService.GetDepartment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Отдел найден", http.StatusOK)
}

func (c *ReferenceController) FindLocation(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.referenceService.GetLocation(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Локация найдена", http.StatusOK)
}

func (c *ReferenceController) FindPlant(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.referenceService.GetPlant(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Завод найден", http.StatusOK)
}
