package controllers

import (
	"net/http"

	"calibration-system/internal/dto"
	"calibration-system/internal/services"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OutgoingController struct {
	outgoingService services.OutgoingServiceInterface
	logger          *zap.Logger
}

func NewOutgoingController(service services.OutgoingServiceInterface, logger *zap.Logger) *OutgoingController {
	return &OutgoingController{
		outgoingService: service,
		logger:          logger,
	}
}

// Complete — POST /incoming/:id/complete. Подтверждающий сотрудник берётся из
// токена, PIN — из тела запроса.
func (c *OutgoingController) Complete(ctx echo.Context) error {
	incomingID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CompleteCalibrationDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("Complete: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	confirmerID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.outgoingService.Complete(ctx.Request().Context(), incomingID, confirmerID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Калибровка завершена, прибор ожидает выдачи", http.StatusCreated)
}

func (c *OutgoingController) ConfirmPickup(ctx echo.Context) error {
	outgoingID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.ConfirmPickupDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("ConfirmPickup: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	receiverID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.outgoingService.ConfirmPickup(ctx.Request().Context(), outgoingID, receiverID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Выдача прибора подтверждена", http.StatusOK)
}

func (c *OutgoingController) ListReadyForPickup(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.outgoingService.ListReadyForPickup(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ListReadyForPickup: ошибка при получении списка", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список приборов к выдаче получен", http.StatusOK, total)
}

func (c *OutgoingController) ListCompleted(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.outgoingService.ListCompleted(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ListCompleted: ошибка при получении списка", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список завершённых выдач получен", http.StatusOK, total)
}

func (c *OutgoingController) ListDueForRecalibration(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.outgoingService.ListDueForRecalibration(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("ListDueForRecalibration: ошибка при получении списка", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список приборов к повторной калибровке получен", http.StatusOK, total)
}
