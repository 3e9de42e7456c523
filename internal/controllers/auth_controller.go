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

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(service services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{
		authService: service,
		logger:      logger,
	}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tokens, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tokens, "Авторизация прошла успешно", http.StatusOK)
}

func (c *AuthController) Refresh(ctx echo.Context) error {
	var payload dto.RefreshDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tokens, err := c.authService.Refresh(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tokens, "Токены успешно обновлены", http.StatusOK)
}
