package controllers

import (
	"net/http"
	"strconv"

	"calibration-system/internal/dto"
	"calibration-system/internal/services"
	apperrors "calibration-system/pkg/errors"
	"calibration-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type IncomingController struct {
	incomingService services.IncomingServiceInterface
	logger          *zap.Logger
}

func NewIncomingController(service services.IncomingServiceInterface, logger *zap.Logger) *IncomingController {
	return &IncomingController{
		incomingService: service,
		logger:          logger,
	}
}

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID в пути запроса",
			err,
			map[string]interface{}{"param": ctx.Param(name)},
		)
	}
	return id, nil
}

func (c *IncomingController) Submit(ctx echo.Context) error {
	var payload dto.SubmitIncomingDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("Submit: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	requesterID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.incomingService.Submit(ctx.Request().Context(), requesterID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Запись приёмки успешно создана", http.StatusCreated)
}

func (c *IncomingController) Edit(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.SubmitIncomingDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("Edit: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	requesterID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.incomingService.Edit(ctx.Request().Context(), id, requesterID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Запись приёмки успешно обновлена", http.StatusOK)
}

func (c *IncomingController) View(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	requesterID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.incomingService.View(ctx.Request().Context(), id, requesterID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Запись приёмки успешно найдена", http.StatusOK)
}

// ListMy — записи текущего сотрудника (self-service изоляция).
func (c *IncomingController) ListMy(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	requesterID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, total, err := c.incomingService.ListForEmployee(ctx.Request().Context(), requesterID, filter)
	if err != nil {
		c.logger.Error("ListMy: ошибка при получении списка приёмок", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список записей приёмки успешно получен", http.StatusOK, total)
}

func (c *IncomingController) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.incomingService.List(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("List: ошибка при получении списка приёмок", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список записей приёмки успешно получен", http.StatusOK, total)
}

func (c *IncomingController) Confirm(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.incomingService.Confirm(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Запись приёмки подтверждена", http.StatusOK)
}
