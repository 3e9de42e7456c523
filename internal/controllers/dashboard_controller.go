package controllers

import (
	"net/http"

	"calibration-system/internal/services"
	"calibration-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(service services.DashboardServiceInterface, logger *zap.Logger) *DashboardController {
	return &DashboardController{
		dashboardService: service,
		logger:           logger,
	}
}

func (c *DashboardController) GetCounters(ctx echo.Context) error {
	counters, err := c.dashboardService.GetCounters(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, counters, "Счётчики дашборда получены", http.StatusOK)
}
