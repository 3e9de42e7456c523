package controllers

import (
	"net/http"

	"calibration-system/internal/dto"
	"calibration-system/internal/services"
	"calibration-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type LifecycleController struct {
	lifecycleService services.LifecycleServiceInterface
	logger           *zap.Logger
}

func NewLifecycleController(service services.LifecycleServiceInterface, logger *zap.Logger) *LifecycleController {
	return &LifecycleController{
		lifecycleService: service,
		logger:           logger,
	}
}

// Archive — DELETE /incoming/:id. Жёсткое каскадное удаление требует
// явного ?force=true.
func (c *LifecycleController) Archive(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	force := ctx.QueryParam("force") == "true"

	res, err := c.lifecycleService.Archive(ctx.Request().Context(), id, force)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	message := "Запись приёмки архивирована"
	if res.Kind == dto.ArchiveKindForceDeleted {
		message = "Запись приёмки удалена безвозвратно"
	}
	return utils.SuccessResponse(ctx, res, message, http.StatusOK)
}

func (c *LifecycleController) Restore(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.lifecycleService.Restore(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Запись приёмки восстановлена из архива", http.StatusOK)
}

func (c *LifecycleController) IssueRecallNumber(ctx echo.Context) error {
	number, err := c.lifecycleService.IssueRecallNumber(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, dto.RecallNumberDTO{RecallNumber: number}, "Recall-номер выдан", http.StatusOK)
}
