package routes

import (
	"calibration-system/internal/controllers"
	"calibration-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runDashboardRouter(g *echo.Group, dashboardService services.DashboardServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewDashboardController(dashboardService, logger)

	g.GET("/dashboard/counters", ctrl.GetCounters)
}
