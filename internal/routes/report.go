package routes

import (
	"calibration-system/internal/controllers"
	"calibration-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runReportRouter(g *echo.Group, reportService services.ReportServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewReportController(reportService, logger)

	g.GET("/reports/calibrations", ctrl.GetReport)
}
